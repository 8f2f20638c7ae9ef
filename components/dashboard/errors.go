package dashboard

import "errors"

var (
	ErrSessionNotFound      = errors.New("dashboard: session not found")
	ErrSectionNotFound      = errors.New("dashboard: section not found")
	ErrViewNotFound         = errors.New("dashboard: view not found")
	ErrViewNotOpen          = errors.New("dashboard: view is not open in this session")
	ErrViewNotReady         = errors.New("dashboard: view is still loading")
	ErrRecordNotFound       = errors.New("dashboard: record not found")
	ErrConfirmationRequired = errors.New("dashboard: confirmation required")
	ErrActionNotSupported   = errors.New("dashboard: action not supported by view")
	ErrNotToggleable        = errors.New("dashboard: record status cannot be toggled")
	ErrPanelNotFound        = errors.New("dashboard: panel not found")
	ErrServiceClosed        = errors.New("dashboard: service is shut down")
)

// ConfirmationError carries the prompt a caller must acknowledge before a
// destructive action proceeds. It matches ErrConfirmationRequired.
type ConfirmationError struct {
	View   string
	ID     string
	Prompt string
}

func (e *ConfirmationError) Error() string {
	return ErrConfirmationRequired.Error() + ": " + e.Prompt
}

// Is lets errors.Is(err, ErrConfirmationRequired) succeed.
func (e *ConfirmationError) Is(target error) bool {
	return target == ErrConfirmationRequired
}
