package models

// SessionRecord is a row of the database backed session storage.
type SessionRecord struct {
	// ID is the storage key, the session ID.
	ID string `gorm:"primaryKey;size:128"`
	// Data is the encoded session.
	Data []byte
	// ExpiresAt is a unix timestamp in seconds, 0 means no expiry.
	ExpiresAt int64 `gorm:"index;not null;default:0"`
}

// TableName specifies the database table name for the SessionRecord model.
func (SessionRecord) TableName() string {
	return "sessions"
}
