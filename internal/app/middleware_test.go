package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/univent/univent/internal/auth"
	"github.com/univent/univent/internal/rest"
	"github.com/univent/univent/internal/utils"
	"github.com/univent/univent/pkg/user"

	"github.com/stretchr/testify/assert"
)

func setupTestRouter(t *testing.T) (*mux.Router, *auth.Issuer, *utils.MockClock) {
	t.Helper()

	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}
	issuer := auth.NewIssuerWithClock("test-secret", 3*time.Hour, clock)

	r := mux.NewRouter()
	SetupMiddleware(r, &Dependencies{Issuer: issuer})
	r.HandleFunc("/api/protected", func(w http.ResponseWriter, req *http.Request) {
		claims, err := auth.CurrentClaims(req.Context())
		assert.NoError(t, err)
		rest.WriteJSON(w, http.StatusOK, map[string]string{"userId": claims.UserID})
	}).Methods("GET")
	ok := func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	r.HandleFunc("/api/event/events-approved", ok).Methods("GET")
	r.HandleFunc("/api/faculty", ok).Methods("GET")
	r.HandleFunc("/api/faculty", ok).Methods("POST")
	r.HandleFunc("/api/club", ok).Methods("GET")
	r.HandleFunc("/api/club", ok).Methods("POST")

	return r, issuer, clock
}

func TestBearerMiddleware(t *testing.T) {
	t.Run("missing token is rejected with 401", func(t *testing.T) {
		router, _, _ := setupTestRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches the handler with claims", func(t *testing.T) {
		router, issuer, _ := setupTestRouter(t)
		token, _, err := issuer.Issue("user-1", string(user.RoleStudent), "Engineering", "Computer Science")
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "user-1", body["userId"])
	})

	t.Run("expired token gets 401 with the expired marker", func(t *testing.T) {
		router, issuer, clock := setupTestRouter(t)
		token, _, err := issuer.Issue("user-1", string(user.RoleStudent), "", "")
		assert.NoError(t, err)
		clock.SetNow(clock.FixedNow.Add(3*time.Hour + time.Minute))

		req := httptest.NewRequest("GET", "/api/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body rest.ErrorResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, body.Expired)
	})

	t.Run("tampered token gets 403 without the expired marker", func(t *testing.T) {
		router, issuer, _ := setupTestRouter(t)
		token, _, err := issuer.Issue("user-1", string(user.RoleStudent), "", "")
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var body rest.ErrorResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.Expired)
	})

	t.Run("public routes need no token", func(t *testing.T) {
		router, _, _ := setupTestRouter(t)

		for _, path := range []string{"/api/event/events-approved", "/api/faculty", "/api/club"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})

	t.Run("writes on public listing paths still need a token", func(t *testing.T) {
		router, _, _ := setupTestRouter(t)

		for _, path := range []string{"/api/faculty", "/api/club"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})
}

func TestRequireRoles(t *testing.T) {
	handler := requireRoles(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, user.RoleAdmin)

	t.Run("allows a listed role", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/anything", nil)
		ctx := auth.WithClaims(req.Context(), auth.Claims{UserID: "u1", Role: string(user.RoleAdmin)})
		rec := httptest.NewRecorder()
		handler(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refuses an unlisted role", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/anything", nil)
		ctx := auth.WithClaims(req.Context(), auth.Claims{UserID: "u1", Role: string(user.RoleStudent)})
		rec := httptest.NewRecorder()
		handler(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
