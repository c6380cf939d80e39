package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesk/internal/core/apperror"
	"productdesk/internal/core/protect"
	"productdesk/internal/core/security"
	"productdesk/internal/domain/audit"
	"productdesk/internal/domain/auth"
	"productdesk/internal/domain/catalogs/product"
	v1 "productdesk/internal/infrastructure/http/v1"
	"productdesk/internal/infrastructure/http/v1/dto"
	"productdesk/internal/infrastructure/http/v1/middleware"
	"productdesk/internal/infrastructure/storage/sqlite"
	"productdesk/pkg/logger"
)

type apiFixture struct {
	router *gin.Engine
	jwt    *auth.JWTService
}

func setupAPI(t *testing.T) apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(context.Background(), sqlite.MemoryDSN(url.PathEscape(t.Name())))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.RunMigrations(db.Writer))

	keyring, err := protect.NewKeyring(protect.PricePurpose, []protect.Key{
		{ID: "k1", Secret: []byte(strings.Repeat("k", protect.MinSecretSize))},
	})
	require.NoError(t, err)

	txm := sqlite.NewTxManager(db)
	recorder, err := audit.NewRecorder(sqlite.NewAuditRepo(txm))
	require.NoError(t, err)
	svc := product.NewService(sqlite.NewProductRepo(txm), security.MustDefaultGate(), protect.NewPriceCodec(keyring), txm, recorder)

	jwtSvc, err := auth.NewJWTService(auth.DefaultJWTConfig(strings.Repeat("j", auth.MinSecretLength)))
	require.NoError(t, err)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       logger.Default(),
		JWTValidator: jwtSvc,
		Products:     svc,
		Store:        db,
		StoreBackend: "sqlite",
		Metrics:      middleware.NewMetrics(),
	})
	return apiFixture{router: router, jwt: jwtSvc}
}

func (f apiFixture) token(t *testing.T, roles ...string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken("u-1", "", roles)
	require.NoError(t, err)
	return token
}

func (f apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decodeBody[dto.ErrorResponse](t, w).Code
}

type productList struct {
	Items      []dto.ProductResponse `json:"items"`
	TotalCount int                   `json:"totalCount"`
}

func TestProductsAPI_DuneScenario(t *testing.T) {
	f := setupAPI(t)
	admin := f.token(t, security.RoleAdmin)

	w := f.do(t, http.MethodPost, "/api/v1/products", admin, map[string]any{"name": "Dune", "price": 15.99})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[dto.ProductResponse](t, w)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Dune", created.Name)
	require.NotNil(t, created.Price)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("15.99")))

	w = f.do(t, http.MethodGet, "/api/v1/products?search=dun", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[productList](t, w)
	require.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "Dune", list.Items[0].Name)

	w = f.do(t, http.MethodPatch, "/api/v1/products/1", admin, map[string]any{"price": "17.50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/products/1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[dto.ProductResponse](t, w)
	require.NotNil(t, got.Price)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("17.50")))
}

func TestProductsAPI_Authorization(t *testing.T) {
	f := setupAPI(t)
	admin := f.token(t, security.RoleAdmin)
	manager := f.token(t, security.RoleManager)

	w := f.do(t, http.MethodPost, "/api/v1/products", manager, map[string]any{"name": "Dune", "price": 15.99})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.CodeForbidden, errorCode(t, w))

	w = f.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperror.CodeUnauthorized, errorCode(t, w))

	w = f.do(t, http.MethodGet, "/api/v1/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = f.do(t, http.MethodPost, "/api/v1/products", admin, map[string]any{"name": "Dune", "price": 15.99})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPut, "/api/v1/products/1", manager, map[string]any{"name": "Dune", "price": "12.00"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodDelete, "/api/v1/products/1", manager, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductsAPI_ValidationAndNotFound(t *testing.T) {
	f := setupAPI(t)
	admin := f.token(t, security.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"zero price", http.MethodPost, "/api/v1/products", map[string]any{"name": "Dune", "price": 0}, http.StatusBadRequest, apperror.CodeValidation},
		{"negative price", http.MethodPost, "/api/v1/products", map[string]any{"name": "Dune", "price": "-1"}, http.StatusBadRequest, apperror.CodeValidation},
		{"missing name", http.MethodPost, "/api/v1/products", map[string]any{"price": 1}, http.StatusBadRequest, apperror.CodeValidation},
		{"bad price", http.MethodPost, "/api/v1/products", map[string]any{"name": "Dune", "price": "cheap"}, http.StatusBadRequest, apperror.CodeValidation},
		{"bad id", http.MethodGet, "/api/v1/products/abc", nil, http.StatusBadRequest, apperror.CodeValidation},
		{"zero id", http.MethodGet, "/api/v1/products/0", nil, http.StatusBadRequest, apperror.CodeValidation},
		{"missing product", http.MethodGet, "/api/v1/products/99", nil, http.StatusNotFound, apperror.CodeNotFound},
		{"put needs both fields", http.MethodPut, "/api/v1/products/1", map[string]any{"name": "x"}, http.StatusBadRequest, apperror.CodeValidation},
		{"empty patch", http.MethodPatch, "/api/v1/products/1", map[string]any{}, http.StatusBadRequest, apperror.CodeValidation},
		{"history limit not a number", http.MethodGet, "/api/v1/products/1/history?limit=abc", nil, http.StatusBadRequest, apperror.CodeValidation},
		{"history limit negative", http.MethodGet, "/api/v1/products/1/history?limit=-5", nil, http.StatusBadRequest, apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, admin, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	w := f.do(t, http.MethodGet, "/api/v1/products", admin, nil)
	assert.Equal(t, 0, decodeBody[productList](t, w).TotalCount, "failed requests left no rows behind")
}

func TestProductsAPI_ExtremeExponentPriceAnonymous(t *testing.T) {
	f := setupAPI(t)

	for _, raw := range []string{`{"name":"x","price":1e-5000000}`, `{"name":"x","price":1e2000000}`} {
		t.Run(raw, func(t *testing.T) {
			start := time.Now()
			w := f.do(t, http.MethodPost, "/api/v1/products", "", json.RawMessage(raw))
			elapsed := time.Since(start)

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, apperror.CodeValidation, errorCode(t, w))
			assert.Less(t, elapsed, 200*time.Millisecond)
		})
	}
}

func TestProductsAPI_HistoryLimit(t *testing.T) {
	f := setupAPI(t)
	admin := f.token(t, security.RoleAdmin)

	w := f.do(t, http.MethodPost, "/api/v1/products", admin, map[string]any{"name": "Dune", "price": 15.99})
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.do(t, http.MethodPatch, "/api/v1/products/1", admin, map[string]any{"name": "Dune Messiah"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/products/1/history?limit=1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[productList](t, w).TotalCount)

	w = f.do(t, http.MethodGet, "/api/v1/products/1/history", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeBody[productList](t, w).TotalCount)
}

func TestProductsAPI_DeleteTwice(t *testing.T) {
	f := setupAPI(t)
	admin := f.token(t, security.RoleAdmin)

	w := f.do(t, http.MethodPost, "/api/v1/products", admin, map[string]any{"name": "Dune", "price": 15.99})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/products/1", admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/products/1", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/products/1/history", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"delete"`)
	assert.NotContains(t, w.Body.String(), "15.99")
}

func TestOperationalEndpoints(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = f.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `productdesk_http_requests_total{method="GET",route="/api/v1/products",status="401"} 1`)
}
