package catalog_test

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/pavvel11/gateflow-sub005/catalog"
)

func TestIsValidExactMatch(t *testing.T) {
	c := catalog.New()

	valid := []string{
		"purchase.completed",
		"lead.captured",
		"waitlist.signup",
		"subscription.started",
		"subscription.cancelled",
		"refund.issued",
		"payment.completed",
		"payment.refunded",
		"payment.failed",
		"user.created",
		"user.updated",
		"user.deleted",
		"product.created",
		"product.updated",
		"product.deleted",
		"test.event",
	}
	for _, name := range valid {
		if !c.IsValid(name) {
			t.Errorf("IsValid(%q) = false, want true", name)
		}
	}

	invalid := []string{
		"",
		"purchase",
		"purchase.complete",
		"Purchase.Completed",
		"PURCHASE.COMPLETED",
		"purchase_completed",
		"purchase.completed ",
		" purchase.completed",
		"order.shipped",
	}
	for _, name := range invalid {
		if c.IsValid(name) {
			t.Errorf("IsValid(%q) = true, want false", name)
		}
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	c := catalog.New()

	names := c.Names()
	if len(names) != 16 {
		t.Errorf("expected 16 event types, got %d", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}

	// Returned slice must be a copy.
	names[0] = "mutated"
	if c.Names()[0] == "mutated" {
		t.Error("mutating Names() result affected the catalog")
	}
}

func TestListCarriesDefinitions(t *testing.T) {
	c := catalog.New()

	for _, def := range c.List() {
		if def.Description == "" {
			t.Errorf("event %q has no description", def.Name)
		}
		if len(def.Example) == 0 {
			t.Errorf("event %q has no example payload", def.Name)
		}
		if !json.Valid(def.Example) {
			t.Errorf("event %q example is not valid JSON", def.Name)
		}
	}
}

func TestLegacyFlags(t *testing.T) {
	c := catalog.New()

	legacy := map[string]bool{
		"payment.completed": true,
		"payment.refunded":  true,
		"payment.failed":    true,
	}
	for _, def := range c.List() {
		if def.Legacy != legacy[def.Name] {
			t.Errorf("event %q: Legacy = %v, want %v", def.Name, def.Legacy, legacy[def.Name])
		}
	}
}

func TestExample(t *testing.T) {
	c := catalog.New()

	ex := c.Example("purchase.completed")
	if ex == nil {
		t.Fatal("no example for purchase.completed")
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(ex, &data); err != nil {
		t.Fatalf("example is not a JSON object: %v", err)
	}
	for _, field := range []string{"product", "order"} {
		if _, ok := data[field]; !ok {
			t.Errorf("purchase.completed example missing %q", field)
		}
	}

	if c.Example("no.such.event") != nil {
		t.Error("expected nil example for unknown event type")
	}
}

func TestValidateEventList(t *testing.T) {
	c := catalog.New()

	if err := c.ValidateEventList([]string{"purchase.completed", "refund.issued"}); err != nil {
		t.Errorf("valid list rejected: %v", err)
	}

	err := c.ValidateEventList(nil)
	if err == nil {
		t.Fatal("expected error for empty list")
	}
	if !strings.Contains(err.Error(), "non-empty") {
		t.Errorf("empty-list error should mention non-empty, got %q", err.Error())
	}

	err = c.ValidateEventList([]string{"purchase.completed", "bad.event"})
	if err == nil {
		t.Fatal("expected error for unknown member")
	}
	var listErr *catalog.ListError
	if !errors.As(err, &listErr) {
		t.Fatalf("expected *catalog.ListError, got %T", err)
	}
	if len(listErr.Unknown) != 1 || listErr.Unknown[0] != "bad.event" {
		t.Errorf("Unknown = %v, want [bad.event]", listErr.Unknown)
	}
	if !strings.Contains(err.Error(), "bad.event") {
		t.Errorf("error should name the offending member, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "purchase.completed") {
		t.Errorf("error should list valid options, got %q", err.Error())
	}
}

func TestValidatePayload(t *testing.T) {
	c := catalog.New()

	good := json.RawMessage(`{
		"customer": {"id": "cus_1", "email": "a@example.com"},
		"product":  {"id": "prod_1", "name": "Thing"},
		"order":    {"id": "ord_1", "total_cents": 100, "currency": "USD"}
	}`)
	if err := c.ValidatePayload("purchase.completed", good); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	missing := json.RawMessage(`{"customer": {"id": "cus_1", "email": "a@example.com"}}`)
	if err := c.ValidatePayload("purchase.completed", missing); err == nil {
		t.Error("payload missing required fields accepted")
	}

	// Events without a schema accept anything.
	if err := c.ValidatePayload("user.created", json.RawMessage(`{"whatever": 1}`)); err != nil {
		t.Errorf("schemaless event rejected payload: %v", err)
	}

	if err := c.ValidatePayload("no.such.event", good); err == nil {
		t.Error("unknown event type accepted")
	}
}

func TestAllExamplesPassTheirSchemas(t *testing.T) {
	c := catalog.New()

	for _, def := range c.List() {
		if err := c.ValidatePayload(def.Name, def.Example); err != nil {
			t.Errorf("example for %q fails its own schema: %v", def.Name, err)
		}
	}
}
