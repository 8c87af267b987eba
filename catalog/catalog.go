// Package catalog defines the closed set of event types GateFlow can emit,
// with membership tests, subscription-list validation, payload schemas, and
// the synthetic example payloads used by test sends.
//
// Unlike a dynamic catalog, the taxonomy is fixed at compile time: event
// names are matched exactly and case-sensitively, and operators can only
// subscribe endpoints to names in this set.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TestEvent is the generic event type available for test sends against any
// endpoint, regardless of its subscriptions.
const TestEvent = "test.event"

// WaitlistSignup is the event with a cross-cutting dependency: products can
// be configured to rely on waitlist signups, so removing its last active
// subscriber requires operator confirmation.
const WaitlistSignup = "waitlist.signup"

// Catalog is the registry of known event types.
type Catalog struct {
	defs      map[string]Definition
	names     []string // sorted, for stable listings and error messages
	validator *Validator
}

// New returns a Catalog populated with the built-in GateFlow taxonomy.
func New() *Catalog {
	c := &Catalog{
		defs:      make(map[string]Definition, len(builtinDefinitions)),
		validator: NewValidator(),
	}
	for _, def := range builtinDefinitions {
		c.defs[def.Name] = def
		c.names = append(c.names, def.Name)
	}
	sort.Strings(c.names)
	return c
}

// IsValid reports whether name is a known event type.
// Matching is exact and case-sensitive.
func (c *Catalog) IsValid(name string) bool {
	_, ok := c.defs[name]
	return ok
}

// Get returns the definition for an event type.
func (c *Catalog) Get(name string) (Definition, error) {
	def, ok := c.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("event type %q is not in the taxonomy", name)
	}
	return def, nil
}

// Names returns all event type names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// List returns all definitions in sorted name order.
func (c *Catalog) List() []Definition {
	out := make([]Definition, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.defs[name])
	}
	return out
}

// Example returns the synthetic sample payload for an event type, or nil if
// the type is unknown.
func (c *Catalog) Example(name string) json.RawMessage {
	return c.defs[name].Example
}

// ValidatePayload checks data against the event type's JSON Schema, if one
// is defined. Unknown event types are rejected.
func (c *Catalog) ValidatePayload(name string, data any) error {
	def, ok := c.defs[name]
	if !ok {
		return fmt.Errorf("event type %q is not in the taxonomy", name)
	}
	if len(def.Schema) == 0 {
		return nil
	}
	return c.validator.Validate(def.Schema, data)
}

// ListError reports an invalid event subscription list.
type ListError struct {
	// Empty is set when the list had no members.
	Empty bool

	// Unknown holds the members that are not in the taxonomy.
	Unknown []string

	// Known holds the full set of valid names, for operator feedback.
	Known []string
}

func (e *ListError) Error() string {
	if e.Empty {
		return "events must be a non-empty array of event type names"
	}
	return fmt.Sprintf("unknown event type(s): %s (valid options: %s)",
		strings.Join(e.Unknown, ", "), strings.Join(e.Known, ", "))
}

// ValidateEventList checks an endpoint subscription list: it must be
// non-empty and every member must be in the taxonomy. On failure the
// returned *ListError enumerates the offending members.
func (c *Catalog) ValidateEventList(events []string) error {
	if len(events) == 0 {
		return &ListError{Empty: true, Known: c.Names()}
	}

	var unknown []string
	for _, name := range events {
		if !c.IsValid(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &ListError{Unknown: unknown, Known: c.Names()}
	}
	return nil
}
