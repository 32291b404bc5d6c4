package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	auth "Coning/internal/auth"
	config "Coning/internal/config"
	repo "Coning/internal/repo"
)

func newServer(t *testing.T, keyEnv string) http.Handler {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Auth.TokenKeyEnv = keyEnv

	results, err := repo.NewCacheResultRepository(8, time.Minute)
	require.NoError(t, err)
	t.Cleanup(results.Close)

	r := mux.NewRouter()
	HandleList(r, cfg, results, auth.NewIPRateLimiter(rate.Inf, 1))
	return CORS(r)
}

func TestRoutes_Open(t *testing.T) {
	h := newServer(t, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, basePath+"/methods", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sobocinski-cornelius")
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, basePath+"/defaults?method=schols", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	body := `{"method":"muskat-wyckoff","ko":80,"h":60,"hp":15,"mu":0.42,"re":660,"rw":0.25,"denw":63.76,"deno":47.5,"bo":1.3}`
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, basePath+"/calc", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "qoc_stb_d")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, basePath+"/results/abc123.xlsx", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, basePath+"/calc", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_TokenRequired(t *testing.T) {
	t.Setenv("CONING_MAIN_TEST_KEY", "k3y")
	h := newServer(t, "CONING_MAIN_TEST_KEY")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, basePath+"/methods", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.IssueToken([]byte("k3y"), "test", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, basePath+"/methods", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
