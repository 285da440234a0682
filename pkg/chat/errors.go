package chat

import "errors"

// Collaborator failures surface as typed errors so callers can distinguish a
// failed history load from a failed send. The core never retries; retry
// policy belongs to the caller. Parsing-level problems (malformed markers,
// unresolved citations) are represented in data and never reach these errors.
var (
	ErrHistoryUnavailable = errors.New("chat: history unavailable")
	ErrSendFailed         = errors.New("chat: send failed")
	ErrDeleteFailed       = errors.New("chat: history delete failed")
	ErrUnauthorized       = errors.New("chat: not authorized for session")
	ErrEmptyMessage       = errors.New("chat: message text is empty")
	ErrSessionClosed      = errors.New("chat: session is closed")
)
