package credential

import "time"

// Credential is one vault record. EncryptedPassword and IntegrityHash never
// leave the service layer in JSON.
type Credential struct {
	ID                string     `json:"id"`
	UserID            int        `json:"user_id"`
	Site              string     `json:"site"`
	SiteURL           string     `json:"site_url,omitempty"`
	Username          string     `json:"username"`
	EncryptedPassword string     `json:"-"`
	IntegrityHash     string     `json:"-"`
	Notes             string     `json:"notes,omitempty"`
	IsShared          bool       `json:"is_shared"`
	SharedFromUserID  *int       `json:"shared_from_user_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	SharedAt          *time.Time `json:"shared_at,omitempty"`
}

// AddInput carries the fields of a new credential, password in plaintext.
type AddInput struct {
	Site      string
	SiteURL   string
	Username  string
	Password  string
	Notes     string
	IPAddress string
}

// UpdateInput fields left nil keep their stored value.
type UpdateInput struct {
	Site      *string
	SiteURL   *string
	Username  *string
	Password  *string
	Notes     *string
	IPAddress string
}
