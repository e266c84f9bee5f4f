package models

import "time"

// Session is the durable browser session, addressed by an HttpOnly cookie
type Session struct {
	ID               string `gorm:"primaryKey;size:36"`
	Token            string
	BrokerID         string
	BrokerName       string
	MarketplacePhone string
	FlashKind        string
	FlashMessage     string
	LastSeenAt       time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LoggedIn reports whether a broker token is present
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}
