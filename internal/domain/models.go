package domain

// SpaceName is the short identifier of a monitored Hugging Face Space,
// e.g. "chatbot-demo". Combined with the owner name it forms the
// hostname {owner}-{name}.hf.space.
type SpaceName string

// ErrorKind classifies why a check or rebuild failed.
type ErrorKind string

const (
	ErrNone        ErrorKind = "none"
	ErrInvalidName ErrorKind = "invalid_name"
	ErrURLInvalid  ErrorKind = "url_invalid"
	ErrConnection  ErrorKind = "connection_error"
	ErrTimeout     ErrorKind = "timeout"
	ErrHTTP        ErrorKind = "http_error"
	ErrParse       ErrorKind = "parse_error"
	ErrUnknown     ErrorKind = "unknown"
)

// CheckOutcome is the final per-space result of one monitor run.
// Succeeded is nil when the space was never probed (invalid name).
type CheckOutcome struct {
	Space             SpaceName `json:"space"`
	Succeeded         *bool     `json:"succeeded"` // pointer to allow nil
	Duration          float64   `json:"duration"`  // seconds
	Kind              ErrorKind `json:"error_kind"`
	RecoveryAttempted bool      `json:"recovery_attempted"`
}

// Failed reports whether the space was checked and explicitly failed.
// Not-attempted outcomes do not count as failures for the exit code.
func (o CheckOutcome) Failed() bool {
	return o.Succeeded != nil && !*o.Succeeded
}

// DisplayName is the label the dashboard shows for this outcome. Invalid
// names are annotated so they stand out in the report.
func (o CheckOutcome) DisplayName() string {
	if o.Succeeded == nil {
		return string(o.Space) + " (invalid)"
	}
	return string(o.Space)
}

func Bool(v bool) *bool { return &v }
