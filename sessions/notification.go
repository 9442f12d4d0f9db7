package sessions

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a one-shot message queued for the next screen the user lands on.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

const (
	SessionExpiredMessage = "Your session expired. Please log in again."
	LoggedOutMessage      = "Logout Successful :)"
)

// SessionExpired is queued when a protected request comes back 401.
func SessionExpired() Notification {
	return Notification{Severity: SeverityError, Message: SessionExpiredMessage}
}

// LoggedOut is queued on a user-initiated logout.
func LoggedOut() Notification {
	return Notification{Severity: SeveritySuccess, Message: LoggedOutMessage}
}
