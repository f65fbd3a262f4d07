package ai

import "errors"

// Gateway errors. Every remote failure collapses into ErrRemoteUnavailable
// so callers have a single signal for switching to the deterministic path.
var (
	// ErrRemoteUnavailable covers network, auth, timeout and
	// malformed-response failures from the remote model.
	ErrRemoteUnavailable = errors.New("remote classification service unavailable")

	// ErrMalformedResponse marks a reply that reached us but could not be
	// decoded into the expected schema. The gateway reports it wrapped
	// together with ErrRemoteUnavailable, so matching either works.
	ErrMalformedResponse = errors.New("malformed remote response")

	// ErrNotConfigured indicates no API key was supplied; the gateway
	// refuses every call and the engine runs purely deterministic.
	ErrNotConfigured = errors.New("remote gateway not configured")
)
