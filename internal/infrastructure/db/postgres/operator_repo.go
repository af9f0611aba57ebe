package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

const uniqueViolation = "23505"

const operatorColumns = `id, email, display_name, password_hash, email_verified, locked, created_at`

type OperatorRepo struct {
	db *sql.DB
}

func NewOperatorRepo(db *sql.DB) *OperatorRepo {
	return &OperatorRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperator(row rowScanner) (operatorRow, error) {
	var r operatorRow
	err := row.Scan(
		&r.ID,
		&r.Email,
		&r.DisplayName,
		&r.PasswordHash,
		&r.EmailVerified,
		&r.Locked,
		&r.CreatedAt,
	)
	return r, err
}

func (r *OperatorRepo) GetByEmail(ctx context.Context, email string) (domain.Operator, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Operator{}, domain.ErrMissingField("email")
	}

	q := `SELECT ` + operatorColumns + ` FROM operators WHERE email = $1 LIMIT 1;`
	row, err := scanOperator(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Operator{}, domain.ErrOperatorNotFound()
		}
		return domain.Operator{}, domain.ErrDBUnavailable(err)
	}
	return row.toDomain(), nil
}

func (r *OperatorRepo) GetByID(ctx context.Context, id string) (domain.Operator, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Operator{}, domain.ErrMissingField("id")
	}

	q := `SELECT ` + operatorColumns + ` FROM operators WHERE id = $1 LIMIT 1;`
	row, err := scanOperator(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Operator{}, domain.ErrOperatorNotFound()
		}
		return domain.Operator{}, domain.ErrDBUnavailable(err)
	}
	return row.toDomain(), nil
}

func (r *OperatorRepo) Create(ctx context.Context, op domain.Operator) (domain.Operator, error) {
	op.Email = domain.NormalizeEmail(op.Email)
	if op.ID == "" {
		return domain.Operator{}, domain.ErrMissingField("id")
	}
	if op.Email == "" {
		return domain.Operator{}, domain.ErrMissingField("email")
	}
	if op.PasswordHash == "" {
		return domain.Operator{}, domain.ErrMissingField("password_hash")
	}

	var displayName sql.NullString
	if name := strings.TrimSpace(op.DisplayName); name != "" {
		displayName = sql.NullString{String: name, Valid: true}
	}

	q := `
INSERT INTO operators (id, email, display_name, password_hash, email_verified, locked)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + operatorColumns + `;`

	row, err := scanOperator(r.db.QueryRowContext(ctx, q,
		op.ID, op.Email, displayName, op.PasswordHash, op.EmailVerified, op.Locked,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Operator{}, domain.ErrEmailAlreadyExists()
		}
		return domain.Operator{}, domain.ErrDBUnavailable(err)
	}
	return row.toDomain(), nil
}

func (r *OperatorRepo) SetEmailVerified(ctx context.Context, id string) error {
	return r.setFlag(ctx, `UPDATE operators SET email_verified = TRUE WHERE id = $1;`, id)
}

func (r *OperatorRepo) Lock(ctx context.Context, id string) error {
	return r.setFlag(ctx, `UPDATE operators SET locked = TRUE WHERE id = $1;`, id)
}

func (r *OperatorRepo) Unlock(ctx context.Context, id string) error {
	return r.setFlag(ctx, `UPDATE operators SET locked = FALSE WHERE id = $1;`, id)
}

func (r *OperatorRepo) setFlag(ctx context.Context, q, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrMissingField("operator_id")
	}

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrOperatorNotFound()
	}
	return nil
}
