package models

// User represents one end-user of the ledger. A user row is created on the
// first expense or income write and refreshed on every subsequent write;
// it is never deleted by the ledger.
type User struct {
	// UserKey is the stable per-end-user identifier scoping all ledger rows.
	// It is assigned by the chat transport and is immutable.
	UserKey int64 `json:"user_key"`

	// SessionKey is an opaque per-session token supplied by the caller.
	// It is overwritten on every write.
	SessionKey int64 `json:"session_key"`

	// DisplayName is the user-visible name as reported by the caller.
	// It is non-sensitive and overwritten on every write.
	DisplayName string `json:"display_name"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
