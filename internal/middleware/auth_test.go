package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"glasstrade-backend/internal/auth"
	"glasstrade-backend/internal/config"
	"glasstrade-backend/internal/models"
)

func testSetup() (*AuthMiddleware, *auth.JWTManager) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	mgr := auth.NewJWTManager(cfg)
	return NewAuthMiddleware(mgr), mgr
}

func tokenFor(t *testing.T, mgr *auth.JWTManager, role string) string {
	t.Helper()
	token, err := mgr.GenerateToken(&models.User{ID: 5, Email: "u@example.com", Role: role})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestAuthenticateSetsActor(t *testing.T) {
	mw, mgr := testSetup()

	var got models.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			t.Error("actor missing from context")
		}
		got = actor
	})

	req := httptest.NewRequest("GET", "/api/payments", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, mgr, models.RoleStaff))
	rec := httptest.NewRecorder()

	mw.Authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.UserID != 5 || got.Role != models.RoleStaff {
		t.Errorf("actor = %+v", got)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	mw, _ := testSetup()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/payments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			mw.Authenticate(next).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	mw, mgr := testSetup()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	cases := []struct {
		role string
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleStaff, http.StatusOK},
		{models.RoleCustomer, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/payments", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, mgr, tc.role))
			rec := httptest.NewRecorder()
			mw.RequireStaff(next).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("role %s: status = %d, want %d", tc.role, rec.Code, tc.want)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	mw, mgr := testSetup()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("DELETE", "/api/users/2", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, mgr, models.RoleStaff))
	rec := httptest.NewRecorder()
	mw.RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("staff hitting admin route: status = %d, want 403", rec.Code)
	}
}
