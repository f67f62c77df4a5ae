package logger

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so the output can
// be aggregated and queried uniformly.
const (
	// RPC call fields
	KeyMethod     = "method"      // Echo method name (test_bool, test_uint32, ...)
	KeyMethodID   = "method_id"   // Wire method identifier
	KeyInstance   = "instance"    // Service instance name
	KeyClientAddr = "client_addr" // Remote address of the caller
	KeySessionID  = "session_id"  // Session identifier from the request header

	// Lifecycle fields
	KeyDomain     = "domain"
	KeyInterface  = "interface"
	KeyConnection = "connection"
	KeyState      = "state"
	KeyAttempt    = "attempt"

	// Generic fields
	KeyError      = "error"
	KeyDurationMS = "duration_ms"
	KeyAddress    = "address"
	KeyPort       = "port"
)
