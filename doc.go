// Package gateflow provides the outbound webhook subsystem of the GateFlow
// platform: registering third-party HTTP endpoints, validating their URLs
// against SSRF vectors, signing and delivering event payloads, recording
// every delivery attempt, and supporting operator-triggered retries and
// test sends.
//
// Delivery is request-response: publishing a business event fans out one
// signed HTTP POST per subscribed endpoint, concurrently, each bounded by a
// finite timeout, and writes exactly one immutable log row per attempt.
// There is no background queue — failed attempts stay visible in the log
// until an operator retries or archives them.
//
// Key pieces:
//   - Closed event taxonomy with per-event payload schemas and templates
//   - Lexical SSRF validation of endpoint URLs at registration time
//   - HMAC-SHA256 signature on every delivery
//   - Append-only delivery log with operator retry and archive
//   - Composable store pattern with multiple backends (Postgres, SQLite, Mongo, Redis, Memory)
//
// Quick start:
//
//	hub, err := gateflow.New(
//	    gateflow.WithStore(memory.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	hub.Endpoints().Create(ctx, endpoint.Input{
//	    URL:    "https://example.com/hooks",
//	    Events: []string{"purchase.completed"},
//	})
//
//	hub.Publish(ctx, "purchase.completed", json.RawMessage(`{"order":{"id":"ord_123"}}`))
package gateflow
