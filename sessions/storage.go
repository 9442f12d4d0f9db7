package sessions

// Storage keys. They match the keys the web client writes to sessionStorage
// so a session can be shared with it.
const (
	KeyAccessToken         = "accessToken"
	KeyRefreshToken        = "refreshToken"
	KeyUsername            = "username"
	KeyEmail               = "email"
	KeyPendingNotification = "pendingSnackbar"
)

// sessionKeys are the keys removed when a session is cleared.
var sessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUsername, KeyEmail}

// Storage is a key/value area scoped to one client session (a browser tab,
// a shell). Any call may fail when the backing store is unavailable.
type Storage interface {
	// GetItem returns the value for key and whether it was present
	GetItem(key string) (string, bool, error)

	// SetItem creates or replaces the value for key
	SetItem(key, value string) error

	// RemoveItem deletes key; removing a missing key is not an error
	RemoveItem(key string) error
}
