package domain

import "time"

// Operator is a console account owned by the local identity provider.
type Operator struct {
	ID            string
	Email         string
	DisplayName   string
	PasswordHash  string
	EmailVerified bool
	Locked        bool
	CreatedAt     time.Time
}

func (o Operator) Identity() Identity {
	return Identity{ID: o.ID, Email: o.Email, DisplayName: o.DisplayName}
}
