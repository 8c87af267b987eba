package delivery_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
	"github.com/pavvel11/gateflow-sub005/signature"
	"github.com/pavvel11/gateflow-sub005/store/memory"
)

func ctx() context.Context { return context.Background() }

func testEndpoint(url string) *endpoint.Endpoint {
	now := time.Now().UTC()
	return &endpoint.Endpoint{
		ID:        id.NewEndpointID(),
		URL:       url,
		Secret:    "whsec_enginetest",
		Events:    []string{"purchase.completed"},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newEngine(s *memory.Store) *delivery.Engine {
	return delivery.NewEngine(s, delivery.EngineConfig{
		Concurrency:    4,
		RequestTimeout: 2 * time.Second,
	}, nil)
}

func TestDeliverSuccess(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		_, _ = w.Write([]byte(`{"received":true}`))
	}))
	defer srv.Close()

	s := memory.New()
	ep := testEndpoint(srv.URL)
	_ = s.CreateEndpoint(ctx(), ep)

	att := newEngine(s).Deliver(ctx(), ep, "purchase.completed", json.RawMessage(`{"order":{"id":"ord_1"}}`), false)

	if att.Status != delivery.StatusSuccess {
		t.Fatalf("status = %q, want success (%s)", att.Status, att.ErrorMessage)
	}
	if att.HTTPStatus == nil || *att.HTTPStatus != 200 {
		t.Fatalf("http_status = %v, want 200", att.HTTPStatus)
	}
	if att.ResponseBody != `{"received":true}` {
		t.Fatalf("response_body = %q", att.ResponseBody)
	}
	if att.ErrorMessage != "" {
		t.Fatalf("unexpected error message %q", att.ErrorMessage)
	}

	// Envelope shape.
	var env struct {
		Event     string          `json:"event"`
		Timestamp time.Time       `json:"timestamp"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(gotBody, &env); err != nil {
		t.Fatalf("body is not an envelope: %v", err)
	}
	if env.Event != "purchase.completed" {
		t.Fatalf("envelope event = %q", env.Event)
	}
	if env.Timestamp.IsZero() || env.Timestamp.Location() != time.UTC {
		t.Fatalf("envelope timestamp not UTC: %v", env.Timestamp)
	}

	// Headers.
	if ua := gotHeaders.Get("User-Agent"); ua != "GateFlow-Webhooks/1.0" {
		t.Fatalf("User-Agent = %q", ua)
	}
	if evt := gotHeaders.Get("X-GateFlow-Event"); evt != "purchase.completed" {
		t.Fatalf("X-GateFlow-Event = %q", evt)
	}
	if aid := gotHeaders.Get("X-GateFlow-Attempt-ID"); aid != att.ID.String() {
		t.Fatalf("X-GateFlow-Attempt-ID = %q, want %q", aid, att.ID.String())
	}

	// Signature verifies against the raw body.
	ts, err := strconv.ParseInt(gotHeaders.Get("X-GateFlow-Timestamp"), 10, 64)
	if err != nil {
		t.Fatalf("bad timestamp header: %v", err)
	}
	if !signature.Verify(gotBody, ep.Secret, ts, gotHeaders.Get("X-GateFlow-Signature")) {
		t.Fatal("signature does not verify against the delivered body")
	}

	// The attempt row was persisted.
	stored, err := s.GetAttempt(ctx(), att.ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(stored.Payload) != string(gotBody) {
		t.Fatal("stored payload differs from the wire payload")
	}
}

func TestDeliverHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := memory.New()
	ep := testEndpoint(srv.URL)
	_ = s.CreateEndpoint(ctx(), ep)

	att := newEngine(s).Deliver(ctx(), ep, "purchase.completed", nil, false)

	if att.Status != delivery.StatusFailed {
		t.Fatalf("status = %q, want failed", att.Status)
	}
	if att.HTTPStatus == nil || *att.HTTPStatus != 500 {
		t.Fatalf("http_status = %v, want 500", att.HTTPStatus)
	}
	if att.ErrorMessage != "endpoint returned HTTP 500" {
		t.Fatalf("error_message = %q", att.ErrorMessage)
	}
}

func TestDeliverTransportFailure(t *testing.T) {
	s := memory.New()
	ep := testEndpoint("https://127.0.0.1:1/unreachable")
	_ = s.CreateEndpoint(ctx(), ep)

	att := newEngine(s).Deliver(ctx(), ep, "purchase.completed", nil, false)

	if att.Status != delivery.StatusFailed {
		t.Fatalf("status = %q, want failed", att.Status)
	}
	if att.HTTPStatus != nil {
		t.Fatalf("http_status should be nil on transport failure, got %d", *att.HTTPStatus)
	}
	if att.ErrorMessage == "" {
		t.Fatal("expected transport error message")
	}

	// Failure is still persisted.
	if _, err := s.GetAttempt(ctx(), att.ID); err != nil {
		t.Fatalf("failed attempt not persisted: %v", err)
	}
}

func TestDeliverTruncatesResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 100; i++ {
			_, _ = w.Write([]byte("0123456789012345678901234567890123456789"))
		}
	}))
	defer srv.Close()

	s := memory.New()
	ep := testEndpoint(srv.URL)
	att := newEngine(s).Deliver(ctx(), ep, "purchase.completed", nil, false)

	if len(att.ResponseBody) > 1024 {
		t.Fatalf("response body not truncated: %d bytes", len(att.ResponseBody))
	}
}

func TestFanoutIsolatesFailures(t *testing.T) {
	var okCount atomic.Int32
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		okCount.Add(1)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	s := memory.New()
	eps := []*endpoint.Endpoint{
		testEndpoint(good.URL),
		testEndpoint(bad.URL),
		testEndpoint("https://127.0.0.1:1/down"),
		testEndpoint(good.URL),
	}
	for _, ep := range eps {
		_ = s.CreateEndpoint(ctx(), ep)
	}

	atts := newEngine(s).Fanout(ctx(), eps, "purchase.completed", json.RawMessage(`{"n":1}`))

	if len(atts) != 4 {
		t.Fatalf("expected 4 attempts, got %d", len(atts))
	}
	if okCount.Load() != 2 {
		t.Fatalf("good destination hit %d times, want 2", okCount.Load())
	}

	statuses := map[delivery.Status]int{}
	for _, att := range atts {
		statuses[att.Status]++
	}
	if statuses[delivery.StatusSuccess] != 2 || statuses[delivery.StatusFailed] != 2 {
		t.Fatalf("unexpected outcome mix: %v", statuses)
	}
}

func TestFanoutEmpty(t *testing.T) {
	s := memory.New()
	atts := newEngine(s).Fanout(ctx(), nil, "purchase.completed", nil)
	if len(atts) != 0 {
		t.Fatalf("expected no attempts, got %d", len(atts))
	}
}
