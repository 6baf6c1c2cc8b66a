package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/duo-site/internal/application/usecase/auth"
	"github.com/khoahotran/duo-site/pkg/apperror"
	jwtauth "github.com/khoahotran/duo-site/pkg/auth"
)

type AuthHandler struct {
	loginUseCase *auth.LoginUseCase
	jwtSvc       *jwtauth.JWTService
	cookieSecure bool
}

func NewAuthHandler(loginUC *auth.LoginUseCase, jwtSvc *jwtauth.JWTService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		loginUseCase: loginUC,
		jwtSvc:       jwtSvc,
		cookieSecure: cookieSecure,
	}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login accepts JSON or the login form and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.NewInvalidInput("email and password are required", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, output.AccessToken, int(h.jwtSvc.TokenLifespan().Seconds()), "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
		"is_admin":     output.IsAdmin,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}
