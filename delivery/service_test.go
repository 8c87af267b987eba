package delivery_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/id"
	"github.com/pavvel11/gateflow-sub005/store/memory"
)

func newLogs(s *memory.Store) *delivery.Logs {
	return delivery.NewLogs(s, s, newEngine(s), nil)
}

func TestRetryCreatesIndependentAttempt(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var lastBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastBody, _ = io.ReadAll(r.Body)
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	s := memory.New()
	ep := testEndpoint(srv.URL)
	_ = s.CreateEndpoint(ctx(), ep)

	engine := newEngine(s)
	logs := delivery.NewLogs(s, s, engine, nil)

	original := engine.Deliver(ctx(), ep, "purchase.completed", json.RawMessage(`{"order":{"id":"ord_9"}}`), false)
	if original.Status != delivery.StatusFailed {
		t.Fatalf("setup: expected failed attempt, got %q", original.Status)
	}

	fail.Store(false)
	retried, err := logs.Retry(ctx(), original.ID)
	if err != nil {
		t.Fatal(err)
	}

	if retried.ID.String() == original.ID.String() {
		t.Fatal("retry must produce a new attempt row")
	}
	if retried.Status != delivery.StatusSuccess {
		t.Fatalf("retry status = %q, want success (%s)", retried.Status, retried.ErrorMessage)
	}
	if retried.EventType != original.EventType {
		t.Fatalf("retry event type = %q", retried.EventType)
	}

	// The retried delivery carries the original event data.
	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(lastBody, &env); err != nil {
		t.Fatal(err)
	}
	if _, ok := env.Data["order"]; !ok {
		t.Fatal("retried payload lost the original event data")
	}

	// The original row is unchanged.
	before, err := s.GetAttempt(ctx(), original.ID)
	if err != nil {
		t.Fatal(err)
	}
	if before.Status != delivery.StatusFailed {
		t.Fatalf("original row mutated to %q", before.Status)
	}
}

func TestRetryDeletedEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := memory.New()
	ep := testEndpoint(srv.URL)
	_ = s.CreateEndpoint(ctx(), ep)

	engine := newEngine(s)
	logs := delivery.NewLogs(s, s, engine, nil)

	att := engine.Deliver(ctx(), ep, "purchase.completed", nil, false)
	_ = s.DeleteEndpoint(ctx(), ep.ID)

	_, err := logs.Retry(ctx(), att.ID)
	if !errors.Is(err, gateflow.ErrEndpointNotFound) {
		t.Fatalf("expected ErrEndpointNotFound, got %v", err)
	}
}

func TestRetryUnknownAttempt(t *testing.T) {
	s := memory.New()
	logs := newLogs(s)

	_, err := logs.Retry(ctx(), id.NewAttemptID())
	if !errors.Is(err, gateflow.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}

func TestListDefaultsToFailedView(t *testing.T) {
	s := memory.New()
	ep := testEndpoint("https://example.com/hook")
	_ = s.CreateEndpoint(ctx(), ep)

	now := time.Now().UTC()
	okID := id.NewAttemptID()
	_ = s.CreateAttempt(ctx(), &delivery.Attempt{
		ID: okID, EndpointID: ep.ID, EventType: "purchase.completed",
		Status: delivery.StatusSuccess, CreatedAt: now,
	})
	badID := id.NewAttemptID()
	_ = s.CreateAttempt(ctx(), &delivery.Attempt{
		ID: badID, EndpointID: ep.ID, EventType: "purchase.completed",
		Status: delivery.StatusFailed, CreatedAt: now,
	})

	logs := newLogs(s)
	got, err := logs.List(ctx(), ep.ID, delivery.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID.String() != badID.String() {
		t.Fatalf("default view should hold only the failed row, got %d rows", len(got))
	}
}

func TestArchiveRemovesFromFailedView(t *testing.T) {
	s := memory.New()
	ep := testEndpoint("https://example.com/hook")
	_ = s.CreateEndpoint(ctx(), ep)

	attID := id.NewAttemptID()
	_ = s.CreateAttempt(ctx(), &delivery.Attempt{
		ID: attID, EndpointID: ep.ID, EventType: "purchase.completed",
		Status: delivery.StatusFailed, CreatedAt: time.Now().UTC(),
	})

	logs := newLogs(s)
	if err := logs.Archive(ctx(), attID); err != nil {
		t.Fatal(err)
	}

	failed, _ := logs.List(ctx(), ep.ID, delivery.ListOpts{})
	if len(failed) != 0 {
		t.Fatalf("archived row still in failed view")
	}

	got, err := logs.Get(ctx(), attID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != delivery.StatusArchived {
		t.Fatalf("status = %q, want archived", got.Status)
	}
}

func TestParseFilter(t *testing.T) {
	cases := []struct {
		in   string
		want delivery.Filter
		ok   bool
	}{
		{"", delivery.FilterFailed, true},
		{"all", delivery.FilterAll, true},
		{"success", delivery.FilterSuccess, true},
		{"failed", delivery.FilterFailed, true},
		{"archived", delivery.FilterArchived, true},
		{"bogus", "", false},
		{"Failed", "", false},
	}
	for _, tc := range cases {
		got, ok := delivery.ParseFilter(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseFilter(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
