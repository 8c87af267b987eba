package testsend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/catalog"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
	"github.com/pavvel11/gateflow-sub005/store/memory"
	"github.com/pavvel11/gateflow-sub005/testsend"
)

func ctx() context.Context { return context.Background() }

func setup(url string) (*memory.Store, *testsend.Sender, *endpoint.Endpoint) {
	s := memory.New()
	now := time.Now().UTC()
	ep := &endpoint.Endpoint{
		ID:        id.NewEndpointID(),
		URL:       url,
		Secret:    "whsec_testsend",
		Events:    []string{"purchase.completed"},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = s.CreateEndpoint(ctx(), ep)

	engine := delivery.NewEngine(s, delivery.EngineConfig{
		Concurrency:    1,
		RequestTimeout: 2 * time.Second,
	}, nil)
	return s, testsend.New(s, engine, catalog.New(), nil), ep
}

func TestSendDefaultsToTestEvent(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	_, sender, ep := setup(srv.URL)

	att, err := sender.Send(ctx(), ep.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if att.EventType != "test.event" {
		t.Fatalf("event type = %q, want test.event", att.EventType)
	}
	if !att.Manual {
		t.Fatal("test attempt must be tagged manual")
	}
	if att.Status != delivery.StatusSuccess {
		t.Fatalf("status = %q (%s)", att.Status, att.ErrorMessage)
	}

	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatal(err)
	}
	if env.Event != "test.event" {
		t.Fatalf("envelope event = %q", env.Event)
	}
}

func TestSendPurchaseCompletedTemplate(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	s, sender, ep := setup(srv.URL)

	att, err := sender.Send(ctx(), ep.ID, "purchase.completed")
	if err != nil {
		t.Fatal(err)
	}

	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"product", "order"} {
		if _, ok := env.Data[field]; !ok {
			t.Errorf("synthetic payload missing data.%s", field)
		}
	}
	// Content must be visibly synthetic.
	if !strings.Contains(string(body), "sample") {
		t.Error("expected clearly fabricated identifiers in the template")
	}

	// A real attempt row is logged.
	stored, err := s.GetAttempt(ctx(), att.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Manual {
		t.Fatal("stored attempt lost the manual tag")
	}
}

func TestSendUnsubscribedEventAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, sender, ep := setup(srv.URL)

	// user.created is not among the endpoint's subscriptions.
	att, err := sender.Send(ctx(), ep.ID, "user.created")
	if err != nil {
		t.Fatal(err)
	}
	if att.EventType != "user.created" {
		t.Fatalf("event type = %q", att.EventType)
	}
}

func TestSendUnknownEventType(t *testing.T) {
	_, sender, ep := setup("https://example.com/hook")

	if _, err := sender.Send(ctx(), ep.ID, "made.up"); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestSendUnknownEndpoint(t *testing.T) {
	_, sender, _ := setup("https://example.com/hook")

	_, err := sender.Send(ctx(), id.NewEndpointID(), "")
	if !errors.Is(err, gateflow.ErrEndpointNotFound) {
		t.Fatalf("expected ErrEndpointNotFound, got %v", err)
	}
}
