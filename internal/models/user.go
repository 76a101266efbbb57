package models

import (
	"encoding/json"
	"time"

	"github.com/actionhub/action-hub/internal/crypto"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var encryptor *crypto.TokenEncryptor

// InitEncryption initializes the token encryptor for the models package.
// Must be called before any database operations involving User tokens.
func InitEncryption(encryptionKey string) error {
	var err error
	encryptor, err = crypto.NewTokenEncryptor(encryptionKey)
	return err
}

// DefaultNotificationPreferences is the preferences blob assigned to new users.
const DefaultNotificationPreferences = `{"dailyBrief": true, "unresolvedReminders": false}`

// User represents an application user with OAuth tokens stored encrypted
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null"`
	PasswordHash string `gorm:"type:text"`
	GoogleSub    string `gorm:"index"`
	Name         string `gorm:"not null;default:''"`
	Picture      string `gorm:"type:text"`

	// Provider tokens, stored encrypted (see BeforeSave/AfterFind)
	GoogleRefreshToken string `gorm:"type:text"`
	GoogleTokenExpiry  *time.Time
	NotionAccessToken  string `gorm:"type:text"`
	NotionBotID        string

	// Per-user settings, read and written wholesale as JSON blobs
	IntegrationsConfig      datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	NotificationPreferences datatypes.JSON `gorm:"type:jsonb"`

	// Associations
	Meetings []Meeting `gorm:"constraint:OnDelete:CASCADE;"`
}

// NotificationFlags reports the user's notification toggles. A missing or
// malformed preferences blob falls back to the defaults.
func (u *User) NotificationFlags() (dailyBrief, unresolvedReminders bool) {
	prefs := struct {
		DailyBrief          bool `json:"dailyBrief"`
		UnresolvedReminders bool `json:"unresolvedReminders"`
	}{DailyBrief: true}

	blob := []byte(u.NotificationPreferences)
	if len(blob) == 0 {
		blob = []byte(DefaultNotificationPreferences)
	}
	_ = json.Unmarshal(blob, &prefs)
	return prefs.DailyBrief, prefs.UnresolvedReminders
}

// BeforeSave encrypts provider tokens before saving to database.
// Always encrypts non-empty tokens (GCM produces different output each time
// due to random nonce).
func (u *User) BeforeSave(tx *gorm.DB) error {
	if encryptor == nil {
		// Allow operations without encryption (e.g., for testing)
		return nil
	}

	if u.GoogleRefreshToken != "" {
		encrypted, err := encryptor.Encrypt(u.GoogleRefreshToken)
		if err != nil {
			return err
		}
		u.GoogleRefreshToken = encrypted
	}

	if u.NotionAccessToken != "" {
		encrypted, err := encryptor.Encrypt(u.NotionAccessToken)
		if err != nil {
			return err
		}
		u.NotionAccessToken = encrypted
	}

	return nil
}

// AfterFind decrypts provider tokens after loading from database
func (u *User) AfterFind(tx *gorm.DB) error {
	if encryptor == nil {
		return nil
	}

	if u.GoogleRefreshToken != "" {
		decrypted, err := encryptor.Decrypt(u.GoogleRefreshToken)
		if err != nil {
			return err
		}
		u.GoogleRefreshToken = decrypted
	}

	if u.NotionAccessToken != "" {
		decrypted, err := encryptor.Decrypt(u.NotionAccessToken)
		if err != nil {
			return err
		}
		u.NotionAccessToken = decrypted
	}

	return nil
}
