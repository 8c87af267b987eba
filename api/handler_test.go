package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/api"
	"github.com/pavvel11/gateflow-sub005/store/memory"
)

type staticChecker int

func (c staticChecker) CountDependentProducts(context.Context) (int, error) {
	return int(c), nil
}

func newAPI(t *testing.T, opts ...gateflow.Option) *api.Handler {
	t.Helper()
	opts = append([]gateflow.Option{
		gateflow.WithStore(memory.New()),
		gateflow.WithRequestTimeout(2 * time.Second),
	}, opts...)
	hub, err := gateflow.New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return api.NewHandler(hub, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return v
}

func createEndpoint(t *testing.T, h http.Handler, url string, events ...string) map[string]any {
	t.Helper()
	rec := doJSON(t, h, "POST", "/endpoints", map[string]any{
		"url":    url,
		"events": events,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create endpoint: status %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[map[string]any](t, rec)
}

func TestEndpointCRUDOverHTTP(t *testing.T) {
	h := newAPI(t)

	ep := createEndpoint(t, h, "https://example.com/hook", "purchase.completed")
	epID, _ := ep["id"].(string)
	if epID == "" {
		t.Fatal("created endpoint has no id")
	}
	if _, hasSecret := ep["secret"]; hasSecret {
		t.Fatal("secret must not be serialized in endpoint responses")
	}

	rec := doJSON(t, h, "GET", "/endpoints/"+epID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}

	rec = doJSON(t, h, "GET", "/endpoints", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	if eps := decodeBody[[]map[string]any](t, rec); len(eps) != 1 {
		t.Fatalf("list: expected 1 endpoint, got %d", len(eps))
	}

	rec = doJSON(t, h, "PUT", "/endpoints/"+epID, map[string]any{
		"description": "updated",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[map[string]any](t, rec); got["description"] != "updated" {
		t.Fatalf("update: description = %v", got["description"])
	}

	rec = doJSON(t, h, "DELETE", "/endpoints/"+epID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec = doJSON(t, h, "GET", "/endpoints/"+epID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", rec.Code)
	}
}

func TestCreateEndpointValidationErrors(t *testing.T) {
	h := newAPI(t)

	rec := doJSON(t, h, "POST", "/endpoints", map[string]any{
		"url":    "https://169.254.169.254/latest/meta-data/",
		"events": []string{"purchase.completed"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if body := decodeBody[map[string]any](t, rec); body["field"] != "url" {
		t.Fatalf("expected field=url, got %v", body)
	}

	rec = doJSON(t, h, "POST", "/endpoints", map[string]any{
		"url":    "https://example.com/hook",
		"events": []string{"bogus.event"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if body := decodeBody[map[string]any](t, rec); body["field"] != "events" {
		t.Fatalf("expected field=events, got %v", body)
	}
}

func TestActivateDeactivate(t *testing.T) {
	h := newAPI(t)

	ep := createEndpoint(t, h, "https://example.com/hook", "purchase.completed")
	epID := ep["id"].(string)

	rec := doJSON(t, h, "PATCH", "/endpoints/"+epID+"/deactivate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: status %d", rec.Code)
	}
	if got := decodeBody[map[string]any](t, rec); got["active"] != false {
		t.Fatal("deactivate should return the new state")
	}

	rec = doJSON(t, h, "PATCH", "/endpoints/"+epID+"/activate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate: status %d", rec.Code)
	}
	if got := decodeBody[map[string]any](t, rec); got["active"] != true {
		t.Fatal("activate should return the new state")
	}
}

func TestSecretRoutes(t *testing.T) {
	h := newAPI(t)

	ep := createEndpoint(t, h, "https://example.com/hook", "purchase.completed")
	epID := ep["id"].(string)

	rec := doJSON(t, h, "GET", "/endpoints/"+epID+"/secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get secret: status %d", rec.Code)
	}
	before := decodeBody[map[string]string](t, rec)["secret"]
	if before == "" {
		t.Fatal("empty secret")
	}

	rec = doJSON(t, h, "POST", "/endpoints/"+epID+"/rotate-secret", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rotate: status %d", rec.Code)
	}
	after := decodeBody[map[string]string](t, rec)["secret"]
	if after == before {
		t.Fatal("rotate returned the old secret")
	}
}

func TestWaitlistConflictOverHTTP(t *testing.T) {
	h := newAPI(t, gateflow.WithWaitlistChecker(staticChecker(3)))

	ep := createEndpoint(t, h, "https://example.com/hook", "waitlist.signup")
	epID := ep["id"].(string)

	rec := doJSON(t, h, "DELETE", "/endpoints/"+epID, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody[map[string]any](t, rec)
	if body["dependent_products"] != float64(3) {
		t.Fatalf("dependent_products = %v, want 3", body["dependent_products"])
	}

	rec = doJSON(t, h, "DELETE", "/endpoints/"+epID+"?confirm=true", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("confirmed delete: status %d", rec.Code)
	}
}

func TestPublishAndLogFlow(t *testing.T) {
	destStatus := http.StatusInternalServerError
	dest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(destStatus)
	}))
	defer dest.Close()

	h := newAPI(t)
	ep := createEndpoint(t, h, dest.URL, "purchase.completed")
	epID := ep["id"].(string)

	rec := doJSON(t, h, "POST", "/publish", map[string]any{
		"event_type": "purchase.completed",
		"data": map[string]any{
			"customer": map[string]any{"id": "cus_1", "email": "a@example.com"},
			"product":  map[string]any{"id": "prod_1", "name": "Thing"},
			"order":    map[string]any{"id": "ord_1", "total_cents": 100, "currency": "USD"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: status %d: %s", rec.Code, rec.Body.String())
	}
	pub := decodeBody[map[string]any](t, rec)
	if pub["deliveries"] != float64(1) {
		t.Fatalf("deliveries = %v, want 1", pub["deliveries"])
	}

	// Default attempts view is the failed filter.
	rec = doJSON(t, h, "GET", "/endpoints/"+epID+"/attempts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("attempts: status %d", rec.Code)
	}
	atts := decodeBody[[]map[string]any](t, rec)
	if len(atts) != 1 {
		t.Fatalf("expected 1 failed attempt, got %d", len(atts))
	}
	attID := atts[0]["id"].(string)
	if atts[0]["status"] != "failed" {
		t.Fatalf("status = %v", atts[0]["status"])
	}

	// Retry against a now-healthy destination.
	destStatus = http.StatusOK
	rec = doJSON(t, h, "POST", "/attempts/"+attID+"/retry", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry: status %d: %s", rec.Code, rec.Body.String())
	}
	retried := decodeBody[map[string]any](t, rec)
	if retried["id"] == attID {
		t.Fatal("retry must create a new attempt")
	}
	if retried["status"] != "success" {
		t.Fatalf("retried status = %v", retried["status"])
	}

	// Archive the original failure; it leaves the default view.
	rec = doJSON(t, h, "POST", "/attempts/"+attID+"/archive", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("archive: status %d", rec.Code)
	}
	rec = doJSON(t, h, "GET", "/endpoints/"+epID+"/attempts", nil)
	if got := decodeBody[[]map[string]any](t, rec); len(got) != 0 {
		t.Fatalf("failed view should be empty after archive, got %d", len(got))
	}

	// Double archive conflicts.
	rec = doJSON(t, h, "POST", "/attempts/"+attID+"/archive", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double archive: status %d", rec.Code)
	}

	// Stats reflect all three rows.
	rec = doJSON(t, h, "GET", "/stats", nil)
	stats := decodeBody[map[string]any](t, rec)
	if stats["total_attempts"] != float64(2) {
		t.Fatalf("total_attempts = %v, want 2", stats["total_attempts"])
	}
}

func TestPublishUnknownType(t *testing.T) {
	h := newAPI(t)

	rec := doJSON(t, h, "POST", "/publish", map[string]any{
		"event_type": "nope.nope",
		"data":       map[string]any{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestTestSendRoute(t *testing.T) {
	dest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer dest.Close()

	h := newAPI(t)
	ep := createEndpoint(t, h, dest.URL, "purchase.completed")
	epID := ep["id"].(string)

	rec := doJSON(t, h, "POST", "/endpoints/"+epID+"/test", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("test send: status %d: %s", rec.Code, rec.Body.String())
	}
	att := decodeBody[map[string]any](t, rec)
	if att["event_type"] != "test.event" {
		t.Fatalf("event_type = %v, want test.event", att["event_type"])
	}
	if att["manual"] != true {
		t.Fatal("test attempt should be tagged manual")
	}

	rec = doJSON(t, h, "POST", "/endpoints/"+epID+"/test", map[string]any{
		"event_type": "not.real",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown type: status %d", rec.Code)
	}
}

func TestFailuresRoute(t *testing.T) {
	dest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer dest.Close()

	h := newAPI(t)
	createEndpoint(t, h, dest.URL, "user.created")

	rec := doJSON(t, h, "POST", "/publish", map[string]any{
		"event_type": "user.created",
		"data":       map[string]any{"user": map[string]any{"id": "usr_1"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: status %d", rec.Code)
	}

	rec = doJSON(t, h, "GET", "/failures?window=1h", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("failures: status %d", rec.Code)
	}
	sum := decodeBody[map[string]any](t, rec)
	if sum["total_failures"] != float64(1) {
		t.Fatalf("total_failures = %v, want 1", sum["total_failures"])
	}

	rec = doJSON(t, h, "GET", "/failures?window=bananas", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad window: status %d", rec.Code)
	}
}

func TestEventTypesRoute(t *testing.T) {
	h := newAPI(t)

	rec := doJSON(t, h, "GET", "/event-types", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	defs := decodeBody[[]map[string]any](t, rec)
	if len(defs) != 16 {
		t.Fatalf("expected 16 event types, got %d", len(defs))
	}
	seen := false
	for _, def := range defs {
		if def["name"] == "purchase.completed" {
			seen = true
			if def["example"] == nil {
				t.Fatal("definitions should carry example payloads")
			}
		}
	}
	if !seen {
		t.Fatal("purchase.completed missing from listing")
	}
}

func TestInvalidIDsRejected(t *testing.T) {
	h := newAPI(t)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/endpoints/not-an-id"},
		{"DELETE", "/endpoints/not-an-id"},
		{"GET", "/attempts/not-an-id"},
		{"POST", "/attempts/not-an-id/retry"},
	} {
		rec := doJSON(t, h, tc.method, tc.path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status %d, want 400", tc.method, tc.path, rec.Code)
		}
	}
}

func TestListAttemptsBadStatus(t *testing.T) {
	h := newAPI(t)
	ep := createEndpoint(t, h, "https://example.com/hook", "purchase.completed")

	path := fmt.Sprintf("/endpoints/%s/attempts?status=sideways", ep["id"])
	rec := doJSON(t, h, "GET", path, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}
