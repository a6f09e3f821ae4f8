package models

import "time"

// Admin is an operator account allowed to manage church records
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdminSession is the authenticated identity carried by a request.
// TokenID identifies the session token and keys its CSRF token.
type AdminSession struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired checks if the session has expired
func (s *AdminSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
