package redis

// Key prefixes for primary entity storage.
const (
	prefixEndpoint = "gfwh:ep:"
	prefixAttempt  = "gfwh:att:"
)

// Key names for indexes.
const (
	zEndpointAll    = "gfwh:z:ep:all"     // all endpoints, scored by created_at
	sEndpointActive = "gfwh:s:ep:active"  // set of active endpoint IDs
	zAttemptEP      = "gfwh:z:att:ep:"    // + endpoint ID, scored by created_at
	zAttemptStatus  = "gfwh:z:att:status:" // + status, scored by created_at
)

// entityKey returns the primary key for an entity.
func entityKey(prefix, id string) string {
	return prefix + id
}

// statusSetKey returns the sorted set key for attempts in a given status.
func statusSetKey(status string) string {
	return zAttemptStatus + status
}
