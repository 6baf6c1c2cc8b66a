package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/auth"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"
	GinContextKeyEmail  = "email"

	SessionCookie = "session"
)

// adminPrefixes are the API surfaces whose callers may see upstream error text.
var adminPrefixes = []string{"/api/admin", "/api/assets", "/api/integrations", "/api/revalidate"}

func isAdminSurface(path string) bool {
	for _, p := range adminPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ErrorMiddleware renders the last error pushed with c.Error as {error, message}.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unhandled error", err)
		}
		status := apperror.ToHTTPStatus(appErr)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		}
		if status >= http.StatusInternalServerError {
			log.Error(appErr.Message, appErr, fields...)
		} else {
			log.Warn(appErr.Message, append(fields, zap.String("details", appErr.Details))...)
		}

		if c.Writer.Written() {
			return
		}
		if isAdminSurface(c.Request.URL.Path) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, appErr.PublicJSON())
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		log.Info("request", fields...)
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}
	return ""
}

type sessionState int

const (
	sessionMissing sessionState = iota
	sessionNotAdmin
	sessionAdmin
)

func checkSession(c *gin.Context, jwtSvc *auth.JWTService, adminEmails []string) sessionState {
	token := sessionToken(c)
	if token == "" {
		return sessionMissing
	}
	claims, err := jwtSvc.ValidateToken(token)
	if err != nil {
		return sessionMissing
	}
	c.Set(GinContextKeyUserID, claims.UserID)
	c.Set(GinContextKeyEmail, claims.Email)
	if !auth.IsAdmin(claims.Email, adminEmails) {
		return sessionNotAdmin
	}
	return sessionAdmin
}

// AdminAPIMiddleware rejects API calls without a session (401) or from a
// session whose email is not allow-listed (403).
func AdminAPIMiddleware(jwtSvc *auth.JWTService, adminEmails []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch checkSession(c, jwtSvc, adminEmails) {
		case sessionMissing:
			c.Error(apperror.NewUnauthorized("a valid session is required", nil))
			c.Abort()
		case sessionNotAdmin:
			c.Error(apperror.NewPermissionDenied("account is not an administrator"))
			c.Abort()
		default:
			c.Next()
		}
	}
}

// AdminPageMiddleware redirects anonymous visitors to /login and
// non-admin sessions to /.
func AdminPageMiddleware(jwtSvc *auth.JWTService, adminEmails []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch checkSession(c, jwtSvc, adminEmails) {
		case sessionMissing:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		case sessionNotAdmin:
			c.Redirect(http.StatusFound, "/")
			c.Abort()
		default:
			c.Next()
		}
	}
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetEmailFromGinContext(c *gin.Context) string {
	return c.GetString(GinContextKeyEmail)
}
