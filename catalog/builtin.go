package catalog

import "encoding/json"

// builtinDefinitions is the closed GateFlow taxonomy. Example payloads are
// entirely fabricated: no real customer, session, or order identifiers.
var builtinDefinitions = []Definition{
	{
		Name:        "purchase.completed",
		Description: "A customer completed checkout and payment was captured.",
		Group:       "commerce",
		Schema: json.RawMessage(`{
			"type": "object",
			"required": ["customer", "product", "order"],
			"properties": {
				"customer": {"type": "object", "required": ["id", "email"]},
				"product":  {"type": "object", "required": ["id", "name"]},
				"order":    {"type": "object", "required": ["id", "total_cents", "currency"]},
				"invoice":  {"type": "object"}
			}
		}`),
		Example: json.RawMessage(`{
			"customer": {"id": "cus_sample0001", "email": "jane@example.com", "name": "Jane Sample"},
			"product":  {"id": "prod_sample0001", "name": "Pro Plan (sample)", "price_cents": 9900, "currency": "USD"},
			"order":    {"id": "ord_sample0001", "total_cents": 9900, "currency": "USD", "coupon": null},
			"invoice":  {"id": "inv_sample0001", "number": "GF-SAMPLE-0001", "url": "https://billing.example.com/inv_sample0001.pdf"}
		}`),
	},
	{
		Name:        "lead.captured",
		Description: "A lead form was submitted before checkout.",
		Group:       "leads",
		Schema: json.RawMessage(`{
			"type": "object",
			"required": ["lead"],
			"properties": {
				"lead": {"type": "object", "required": ["id", "email"]}
			}
		}`),
		Example: json.RawMessage(`{
			"lead": {"id": "lead_sample0001", "email": "lead@example.com", "name": "Sam Lead", "source": "pricing-page"},
			"product": {"id": "prod_sample0001", "name": "Pro Plan (sample)"}
		}`),
	},
	{
		Name:        "waitlist.signup",
		Description: "A visitor joined a product waitlist.",
		Group:       "waitlist",
		Schema: json.RawMessage(`{
			"type": "object",
			"required": ["signup"],
			"properties": {
				"signup":  {"type": "object", "required": ["id", "email"]},
				"product": {"type": "object"}
			}
		}`),
		Example: json.RawMessage(`{
			"signup":  {"id": "wl_sample0001", "email": "waiting@example.com", "position": 42},
			"product": {"id": "prod_sample0001", "name": "Pro Plan (sample)"}
		}`),
	},
	{
		Name:        "subscription.started",
		Description: "A recurring subscription became active.",
		Group:       "subscriptions",
		Example: json.RawMessage(`{
			"subscription": {"id": "sub_sample0001", "plan": "pro-monthly", "status": "active", "current_period_end": "2030-01-01T00:00:00Z"},
			"customer":     {"id": "cus_sample0001", "email": "jane@example.com"}
		}`),
	},
	{
		Name:        "subscription.cancelled",
		Description: "A recurring subscription was cancelled by the customer or an operator.",
		Group:       "subscriptions",
		Example: json.RawMessage(`{
			"subscription": {"id": "sub_sample0001", "plan": "pro-monthly", "status": "cancelled", "cancelled_at": "2030-01-01T00:00:00Z"},
			"customer":     {"id": "cus_sample0001", "email": "jane@example.com"}
		}`),
	},
	{
		Name:        "refund.issued",
		Description: "A payment was refunded in full or in part.",
		Group:       "commerce",
		Schema: json.RawMessage(`{
			"type": "object",
			"required": ["refund", "order"],
			"properties": {
				"refund": {"type": "object", "required": ["id", "amount_cents"]},
				"order":  {"type": "object", "required": ["id"]}
			}
		}`),
		Example: json.RawMessage(`{
			"refund": {"id": "ref_sample0001", "amount_cents": 9900, "currency": "USD", "reason": "requested_by_customer"},
			"order":  {"id": "ord_sample0001", "total_cents": 9900, "currency": "USD"}
		}`),
	},

	// Legacy payment.* aliases, kept for destinations registered before the
	// purchase/refund rename. Same payload shapes as their successors.
	{
		Name:        "payment.completed",
		Description: "Legacy alias of purchase.completed.",
		Group:       "payments",
		Legacy:      true,
		Example: json.RawMessage(`{
			"customer": {"id": "cus_sample0001", "email": "jane@example.com"},
			"order":    {"id": "ord_sample0001", "total_cents": 9900, "currency": "USD"}
		}`),
	},
	{
		Name:        "payment.refunded",
		Description: "Legacy alias of refund.issued.",
		Group:       "payments",
		Legacy:      true,
		Example: json.RawMessage(`{
			"refund": {"id": "ref_sample0001", "amount_cents": 9900, "currency": "USD"},
			"order":  {"id": "ord_sample0001"}
		}`),
	},
	{
		Name:        "payment.failed",
		Description: "A payment attempt was declined by the processor.",
		Group:       "payments",
		Legacy:      true,
		Example: json.RawMessage(`{
			"payment":  {"id": "pay_sample0001", "amount_cents": 9900, "currency": "USD", "decline_code": "insufficient_funds"},
			"customer": {"id": "cus_sample0001", "email": "jane@example.com"}
		}`),
	},

	{
		Name:        "user.created",
		Description: "A user account was created.",
		Group:       "users",
		Example:     json.RawMessage(`{"user": {"id": "usr_sample0001", "email": "jane@example.com", "created_at": "2030-01-01T00:00:00Z"}}`),
	},
	{
		Name:        "user.updated",
		Description: "A user account's profile or access changed.",
		Group:       "users",
		Example:     json.RawMessage(`{"user": {"id": "usr_sample0001", "email": "jane@example.com"}, "changed": ["email"]}`),
	},
	{
		Name:        "user.deleted",
		Description: "A user account was deleted.",
		Group:       "users",
		Example:     json.RawMessage(`{"user": {"id": "usr_sample0001"}}`),
	},
	{
		Name:        "product.created",
		Description: "A product was created in the admin console.",
		Group:       "products",
		Example:     json.RawMessage(`{"product": {"id": "prod_sample0001", "name": "Pro Plan (sample)", "price_cents": 9900, "currency": "USD"}}`),
	},
	{
		Name:        "product.updated",
		Description: "A product's settings changed.",
		Group:       "products",
		Example:     json.RawMessage(`{"product": {"id": "prod_sample0001", "name": "Pro Plan (sample)"}, "changed": ["price_cents"]}`),
	},
	{
		Name:        "product.deleted",
		Description: "A product was deleted.",
		Group:       "products",
		Example:     json.RawMessage(`{"product": {"id": "prod_sample0001"}}`),
	},

	{
		Name:        TestEvent,
		Description: "Synthetic event for operator-triggered endpoint verification.",
		Group:       "system",
		Example:     json.RawMessage(`{"test": true, "message": "GateFlow webhook test delivery"}`),
	},
}
