package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

func accessRouter(t *testing.T) (*gin.Engine, func(email string) string) {
	t.Helper()
	jwtSvc := testJWT()
	siteHandler, err := NewSiteHandler(nil, nil, logger.NewNop())
	require.NoError(t, err)

	router := NewRouter(Handlers{
		Revalidate: NewRevalidateHandler(site.NewRevalidateUseCase(nil, logger.NewNop())),
		Site:       siteHandler,
	}, testRouterConfig(jwtSvc))
	return router, func(email string) string { return tokenFor(t, jwtSvc, email) }
}

func TestAdminAPI_AccessControl(t *testing.T) {
	router, token := accessRouter(t)

	cases := []struct {
		name   string
		cookie string
		want   int
	}{
		{"no session", "", http.StatusUnauthorized},
		{"garbage session", "not-a-jwt", http.StatusUnauthorized},
		{"not allow-listed", token(fanEmail), http.StatusForbidden},
		{"admin", token(adminEmail), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/revalidate", map[string]any{"paths": []string{"/events"}}, tc.cookie)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAdminAPI_BearerHeaderAccepted(t *testing.T) {
	router, token := accessRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token(adminEmail))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAPI_RejectionBody(t *testing.T) {
	router, token := accessRouter(t)

	for _, path := range []string{"/api/admin/events", "/api/admin/orders", "/api/admin/bookings"} {
		w := doJSON(router, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "unauthorized", decodeBody(t, w)["error"])

		w = doJSON(router, http.MethodGet, path, nil, token(fanEmail))
		require.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Equal(t, "permission denied", decodeBody(t, w)["error"])
	}
}

func TestAdminPage_Redirects(t *testing.T) {
	router, token := accessRouter(t)

	w := doJSON(router, http.MethodGet, "/admin", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = doJSON(router, http.MethodGet, "/admin", nil, token(fanEmail))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = doJSON(router, http.MethodGet, "/admin", nil, token(adminEmail))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data-admin")
}

func errorRouter(err error) *gin.Engine {
	router := gin.New()
	router.Use(ErrorMiddleware(logger.NewNop()))
	fail := func(c *gin.Context) { c.Error(err) }
	router.GET("/api/admin/thing", fail)
	router.GET("/api/checkout", fail)
	return router
}

func TestErrorMiddleware_UpstreamTextOnlyOnAdminSurface(t *testing.T) {
	router := errorRouter(apperror.NewUpstream("Stripe", "create session", errors.New("No such price: 'price_123'")))

	w := doJSON(router, http.MethodGet, "/api/admin/thing", nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Stripe request failed: No such price: 'price_123'", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodGet, "/api/checkout", nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Stripe request failed", body["message"])
	assert.Equal(t, "upstream provider error", body["error"])
}

func TestErrorMiddleware_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperror.NewInvalidInput("title is required", nil), http.StatusBadRequest},
		{apperror.NewNotFound("event", "x"), http.StatusNotFound},
		{apperror.NewConflict("gallery", "slug", "live"), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := doJSON(errorRouter(tc.err), http.MethodGet, "/api/checkout", nil, "")
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
		assert.Contains(t, decodeBody(t, w), "message")
	}
}
