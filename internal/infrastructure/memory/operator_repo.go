package memory

import (
	"context"
	"sync"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type OperatorRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.Operator
	byEmail map[string]string // normalized email -> operator id
}

func NewOperatorRepo() *OperatorRepo {
	return &OperatorRepo{
		byID:    make(map[string]domain.Operator),
		byEmail: make(map[string]string),
	}
}

func (r *OperatorRepo) GetByEmail(ctx context.Context, email string) (domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.Operator{}, domain.ErrOperatorNotFound()
	}
	return r.byID[id], nil
}

func (r *OperatorRepo) GetByID(ctx context.Context, id string) (domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.byID[id]
	if !ok {
		return domain.Operator{}, domain.ErrOperatorNotFound()
	}
	return op, nil
}

func (r *OperatorRepo) Create(ctx context.Context, op domain.Operator) (domain.Operator, error) {
	if op.ID == "" {
		return domain.Operator{}, domain.ErrMissingField("id")
	}
	key := domain.NormalizeEmail(op.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[key]; exists {
		return domain.Operator{}, domain.ErrEmailAlreadyExists()
	}
	r.byID[op.ID] = op
	r.byEmail[key] = op.ID
	return op, nil
}

func (r *OperatorRepo) SetEmailVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.byID[id]
	if !ok {
		return domain.ErrOperatorNotFound()
	}
	op.EmailVerified = true
	r.byID[id] = op
	return nil
}
