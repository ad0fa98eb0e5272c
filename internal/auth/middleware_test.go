package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
)

func TestRequireAuthWithCookie(t *testing.T) {
	tm := auth.NewTokenManager(testSecret)
	access, _, err := tm.IssuePair("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	var gotUserID string
	handler := tm.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims != nil {
			gotUserID = claims.UserID
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: access})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotUserID != "user-1" {
		t.Fatalf("expected claims for user-1 in context, got %q", gotUserID)
	}
}

func TestRequireAuthWithBearerHeader(t *testing.T) {
	tm := auth.NewTokenManager(testSecret)
	access, _, err := tm.IssuePair("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	handler := tm.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireAuthFailsClosed(t *testing.T) {
	tm := auth.NewTokenManager(testSecret)
	otherTm := auth.NewTokenManager("another-secret")
	foreign, _, err := otherTm.IssuePair("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no token at all", func(r *http.Request) {}},
		{"empty cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: ""})
		}},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
		}},
		{"token signed elsewhere", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: foreign})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			handler := tm.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tc.setup(req)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if reached {
				t.Fatal("protected handler must not run for an unauthenticated request")
			}
		})
	}
}
