package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lucasvieira/alugueja-backend/pkg/auth"
	"github.com/lucasvieira/alugueja-backend/pkg/config"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	"github.com/lucasvieira/alugueja-backend/pkg/logger"

	"github.com/google/uuid"
)

func testRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "alugueja-test",
		ExpirationMinutes: 15,
	}
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(cfg, logg, nil, nil, Services{}), cfg
}

func TestRouter_HealthLiveIsPublic(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-AlugueJa-Env") != "test" {
		t.Fatal("environment header missing")
	}
}

func TestRouter_APIRequiresAuth(t *testing.T) {
	router, _ := testRouter(t)

	paths := []string{
		"/api/v1/clients",
		"/api/v1/equipment",
		"/api/v1/rentals",
		"/api/v1/obligations/pending",
		"/api/v1/notifications",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouter_StaffCannotDelete(t *testing.T) {
	router, cfg := testRouter(t)

	token, err := auth.MintAccessToken(cfg.JWT, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Name:   "Staff",
		Role:   enums.UserRoleStaff,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rentals/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for staff delete, got %d", rec.Code)
	}
}
