package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sessionkeeper/internal/domain"
	"github.com/hamed0406/sessionkeeper/internal/repo/memory"
)

func setupRouter(t *testing.T, keys []string) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New(10)
	return NewServer(zap.NewNop(), store).Router(keys), store
}

func get(t *testing.T, h http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := setupRouter(t, []string{"k"})
	rec := get(t, h, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestLatest_NoCycleYet(t *testing.T) {
	h, _ := setupRouter(t, nil)
	rec := get(t, h, "/api/cycles/latest", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestCycles_ListAndLatest(t *testing.T) {
	h, store := setupRouter(t, nil)
	ctx := context.Background()
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	_ = store.Append(ctx, &domain.Cycle{ID: "c1", StartedAt: now, Attempted: false, SkipReason: "config_malformed"})
	_ = store.Append(ctx, &domain.Cycle{ID: "c2", StartedAt: now.Add(time.Hour), Attempted: true, HTTPStatus: 403})

	rec := get(t, h, "/api/cycles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	var cs []domain.Cycle
	if err := json.NewDecoder(rec.Body).Decode(&cs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cs) != 2 || cs[0].ID != "c2" || cs[1].SkipReason != "config_malformed" {
		t.Fatalf("unexpected list: %+v", cs)
	}

	rec = get(t, h, "/api/cycles?limit=1", nil)
	cs = nil
	_ = json.NewDecoder(rec.Body).Decode(&cs)
	if len(cs) != 1 {
		t.Fatalf("limit ignored: %+v", cs)
	}

	rec = get(t, h, "/api/cycles/latest", nil)
	var latest domain.Cycle
	if err := json.NewDecoder(rec.Body).Decode(&latest); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if latest.ID != "c2" || latest.HTTPStatus != 403 {
		t.Fatalf("unexpected latest: %+v", latest)
	}
	if strings.Contains(rec.Body.String(), "token") {
		t.Fatalf("status output must not carry the credential: %s", rec.Body.String())
	}
}

func TestCycles_BadLimit(t *testing.T) {
	h, _ := setupRouter(t, nil)
	if rec := get(t, h, "/api/cycles?limit=x", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestCycles_RequireKey(t *testing.T) {
	h, _ := setupRouter(t, []string{"status_key"})
	if rec := get(t, h, "/api/cycles", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 without key, got %d", rec.Code)
	}
	rec := get(t, h, "/api/cycles", map[string]string{"X-API-Key": "status_key"})
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 with key, got %d", rec.Code)
	}
}
