package postgres

import (
	"database/sql"
	"time"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type operatorRow struct {
	ID            string
	Email         string
	DisplayName   sql.NullString
	PasswordHash  string
	EmailVerified bool
	Locked        bool
	CreatedAt     time.Time
}

func (r operatorRow) toDomain() domain.Operator {
	return domain.Operator{
		ID:            r.ID,
		Email:         r.Email,
		DisplayName:   r.DisplayName.String,
		PasswordHash:  r.PasswordHash,
		EmailVerified: r.EmailVerified,
		Locked:        r.Locked,
		CreatedAt:     r.CreatedAt,
	}
}
