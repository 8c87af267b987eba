package endpoint

// Input is the creation/update payload for endpoints.
type Input struct {
	// URL is the webhook delivery URL.
	URL string `json:"url"`

	// Description is a human-readable description.
	Description string `json:"description"`

	// Secret is the HMAC signing secret. Auto-generated if empty on create.
	Secret string `json:"secret"`

	// Events are the subscribed event type names.
	Events []string `json:"events"`

	// Headers are custom HTTP headers sent with each delivery.
	Headers map[string]string `json:"headers,omitempty"`

	// RateLimit is the maximum deliveries per second. 0 means unlimited.
	RateLimit int `json:"rate_limit"`

	// Active toggles delivery on update. Nil leaves the flag unchanged.
	Active *bool `json:"active,omitempty"`
}

// ListOpts configures filtering and pagination for endpoint listing.
type ListOpts struct {
	Offset int
	Limit  int
	Active *bool
}
