package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubSessions struct {
	session *entity.Session
	err     error
	asked   uuid.UUID
}

func (s *stubSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	s.asked = token
	return s.session, s.err
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestAuthSessionPutsCallerInContext(t *testing.T) {
	orgID, userID := uuid.New(), uuid.New()
	sessions := &stubSessions{session: &entity.Session{UserID: userID, OrgID: orgID, Role: "staff"}}

	var gotOrg, gotUser uuid.UUID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrg, _ = utils.GetOrgIDFromContext(r.Context())
		gotUser, _ = utils.GetUserIDFromContext(r.Context())
		gotRole, _ = utils.GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	token := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token.String())

	rec := httptest.NewRecorder()
	AuthSession(sessions, zap.NewNop())(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if sessions.asked != token {
		t.Fatalf("expected token %s looked up, got %s", token, sessions.asked)
	}
	if gotOrg != orgID || gotUser != userID || gotRole != "staff" {
		t.Fatalf("unexpected context org=%s user=%s role=%s", gotOrg, gotUser, gotRole)
	}
}

func TestAuthSessionRejects(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		sessions *stubSessions
		code     int
	}{
		{"missing header", "", &stubSessions{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &stubSessions{}, http.StatusUnauthorized},
		{"not a uuid", "Bearer abc", &stubSessions{}, http.StatusUnauthorized},
		{"expired", "Bearer " + uuid.NewString(), &stubSessions{}, http.StatusUnauthorized},
		{"store down", "Bearer " + uuid.NewString(), &stubSessions{err: errors.New("db down")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		AuthSession(tc.sessions, zap.NewNop())(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
		}
	}
}

func TestStaffRejectsOtherRoles(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), uuid.New(), "volunteer"))

	rec := httptest.NewRecorder()
	Staff(zap.NewNop())(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), uuid.New(), "admin"))
	rec = httptest.NewRecorder()
	Staff(zap.NewNop())(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected admin admitted, got %d", rec.Code)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	handler := RateLimit(60, 2, zap.New(core))(http.HandlerFunc(okHandler))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:5000"); code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, code)
		}
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusNoContent {
		t.Fatalf("expected another client unaffected, got %d", code)
	}
	if logs.FilterMessage("Rate limit exceeded").Len() != 1 {
		t.Fatalf("expected one rate limit warning, got %d", logs.Len())
	}
}

func TestRateLimiterStoreEvictsIdleClients(t *testing.T) {
	store := newRateLimiterStore(60, 1)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.getLimiter("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Minute)
	store.getLimiter("10.0.0.2")

	if _, ok := store.visitors["10.0.0.1"]; ok {
		t.Fatalf("expected idle client evicted")
	}
	if len(store.visitors) != 1 {
		t.Fatalf("expected one tracked client, got %d", len(store.visitors))
	}
}

func TestRecoverReturnsJSON500(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	Recover(zap.New(core))(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected panic logged once, got %d", logs.Len())
	}
}

func TestRecoverReraisesAbortHandler(t *testing.T) {
	aborting := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) })

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler re-raised, got %v", rec)
		}
	}()
	Recover(zap.NewNop())(aborting).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Fatalf("expected panic to propagate")
}
