package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/pkg/auth"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const (
	adminEmail = "band@example.com"
	fanEmail   = "fan@example.com"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWT() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Hour)
}

func testRouterConfig(jwtSvc *auth.JWTService) RouterConfig {
	return RouterConfig{
		JWT:         jwtSvc,
		AdminEmails: []string{adminEmail},
		Logger:      logger.NewNop(),
	}
}

func tokenFor(t *testing.T, jwtSvc *auth.JWTService, email string) string {
	t.Helper()
	token, err := jwtSvc.GenerateToken(uuid.New(), email)
	require.NoError(t, err)
	return token
}

func doJSON(router http.Handler, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
