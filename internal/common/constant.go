package common

// Keys of the values persisted in the key/value medium.
const (
	// KeyRegisteredUsers holds the credential store: a JSON array of accounts.
	KeyRegisteredUsers = "registeredUsers"

	// KeySession holds the composite session record.
	KeySession = "session"

	// Split session layout.
	KeyIsLoggedIn = "isLoggedIn"
	KeyUserData   = "userData"
	KeyAuthToken  = "authToken"
)

// SessionKeys lists every key that may carry session state, whatever the layout.
var SessionKeys = []string{KeySession, KeyIsLoggedIn, KeyUserData, KeyAuthToken}
