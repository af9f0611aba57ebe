package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

type SignUpInput struct {
	Email           string `validate:"required,email,max=254"`
	Password        string `validate:"required,min=6,max=72"`
	ConfirmPassword string `validate:"eqfield=Password"`
	DisplayName     string `validate:"max=64"`
}

// SignUp validates the input and asks the provider to register the operator.
// The provider sends the verification email. The store is never touched.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	if err := s.validateSignUp(in); err != nil {
		return err
	}

	err := s.provider.SignUp(ctx, domain.Registration{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
	})
	if err != nil {
		return asDomainError(err)
	}

	s.audit(ctx, "sign_up", map[string]string{"email": in.Email})
	return nil
}

// validateSignUp reports a mismatched confirmation ahead of any other problem.
func (s *Service) validateSignUp(in SignUpInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return domain.ErrInternal(err)
	}
	for _, fe := range ves {
		if fe.Tag() == "eqfield" {
			return domain.ErrPasswordMismatch()
		}
	}

	fe := ves[0]
	switch fe.Field() {
	case "Email":
		if fe.Tag() == "required" {
			return domain.ErrMissingField("email")
		}
		return domain.ErrInvalidEmail()
	case "Password":
		switch fe.Tag() {
		case "required":
			return domain.ErrMissingField("password")
		case "min":
			return domain.ErrWeakPassword(MinPasswordLength)
		}
		return domain.ErrInvalidField("password", fe.Tag())
	default:
		return domain.ErrInvalidField(strings.ToLower(fe.Field()), fe.Tag())
	}
}
