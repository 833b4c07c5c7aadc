package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chris/golf-league-ledger/pkg/access"
	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers"
	"github.com/chris/golf-league-ledger/pkg/ledger"
	mw "github.com/chris/golf-league-ledger/pkg/middleware"
	"github.com/chris/golf-league-ledger/pkg/models"
	"github.com/chris/golf-league-ledger/pkg/storage/memory"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routerSecret = []byte("router-secret")

func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.PutMember(models.Member{Id: "admin-1", ExternalId: "ext-admin", Role: models.RoleAdmin})
	store.PutMember(models.Member{Id: "member-a", ExternalId: "ext-a", Role: models.RoleRegular})

	registry := prometheus.NewRegistry()
	svc := ledger.NewService(store, access.NewChecker(store), ledger.WithMetrics(ledger.NewMetrics(registry)))
	router := newRouter(routerDeps{
		API:            handlers.NewApiHandler(svc, svc, svc),
		Auth:           mw.NewJWTAuth(routerSecret, ""),
		HTTPMetrics:    mw.NewHTTPMetrics(registry),
		Gatherer:       registry,
		Logger:         slog.Default(),
		AllowedOrigins: []string{"https://league.example"},
	})
	return router, store
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(routerSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter(t *testing.T) {
	t.Run("Health Is Public", func(t *testing.T) {
		router, _ := newTestRouter(t)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("API Requires Token", func(t *testing.T) {
		router, _ := newTestRouter(t)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me/balance", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Unknown Identity", func(t *testing.T) {
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/me/balance", nil)
		req.Header.Set("Authorization", bearer(t, "ext-nobody"))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Admin Records Fee Then Member Sees Balance", func(t *testing.T) {
		router, store := newTestRouter(t)

		body, _ := json.Marshal(api.NewTransaction{
			MemberId:        "member-a",
			SeasonId:        "2025",
			TransactionType: string(models.TourCardFee),
			Amount:          2500,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
		req.Header.Set("Authorization", bearer(t, "ext-admin"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/me/balance", nil)
		req.Header.Set("Authorization", bearer(t, "ext-a"))
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var summary api.BalanceSummary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
		assert.Equal(t, int64(-2500), summary.AccountCents)

		member, err := store.GetMember(req.Context(), "member-a")
		require.NoError(t, err)
		assert.Equal(t, int64(-2500), member.Account)
	})

	t.Run("Member Cannot Record Transactions", func(t *testing.T) {
		router, _ := newTestRouter(t)
		body, _ := json.Marshal(api.NewTransaction{
			MemberId:        "member-a",
			SeasonId:        "2025",
			TransactionType: string(models.TourCardFee),
			Amount:          2500,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
		req.Header.Set("Authorization", bearer(t, "ext-a"))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("CORS Preflight", func(t *testing.T) {
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodOptions, "/transactions", nil)
		req.Header.Set("Origin", "https://league.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, "https://league.example", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Metrics Exposed", func(t *testing.T) {
		router, _ := newTestRouter(t)
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `http_requests_total{method="GET",route="/healthz",status="200"} 1`)
	})
}

func TestSeedMemoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	fixture := `{
		"members": [{"id": "m1", "external_id": "ext-1", "role": "admin", "account": 1200}],
		"transactions": [{"id": "t1", "member_id": "m1", "season_id": "2025", "amount": 1200, "transaction_type": "TournamentWinnings", "status": "completed"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	store := memory.New()

	require.NoError(t, seedMemoryStore(store, path))

	member, err := store.GetMemberByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), member.Account)
	tx, err := store.GetTransaction(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "m1", tx.MemberId)

	assert.Error(t, seedMemoryStore(store, filepath.Join(t.TempDir(), "missing.json")))
}
