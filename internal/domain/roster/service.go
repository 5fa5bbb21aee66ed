package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatelog/server/internal/sanitize"
	"github.com/go-playground/validator/v10"
)

// Service manages the authorized-uid roster. The ingest path only ever reads
// this table; every mutation goes through here.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// MemberInput is an add/rename request before validation.
type MemberInput struct {
	UID      string `validate:"required,max=64"`
	Username string `validate:"required,max=128"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

func (s *Service) Add(ctx context.Context, input MemberInput) (Member, error) {
	member, err := s.normalize(input)
	if err != nil {
		return Member{}, err
	}
	if err := s.repo.Add(ctx, member); err != nil {
		return Member{}, err
	}
	return member, nil
}

func (s *Service) Rename(ctx context.Context, uid string, username string) (Member, error) {
	member, err := s.normalize(MemberInput{UID: uid, Username: username})
	if err != nil {
		return Member{}, err
	}
	if err := s.repo.Rename(ctx, member.UID, member.Username); err != nil {
		return Member{}, err
	}
	return member, nil
}

func (s *Service) Remove(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return ValidationError{Field: "uid", Message: "must not be empty"}
	}
	return s.repo.Remove(ctx, uid)
}

func (s *Service) normalize(input MemberInput) (Member, error) {
	input.UID = strings.TrimSpace(input.UID)
	// Display names end up in dashboards; strip any markup on the way in.
	input.Username = strings.TrimSpace(sanitize.Text(input.Username))

	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return Member{}, ValidationError{Field: strings.ToLower(first.Field()), Message: messageForTag(first.Tag())}
		}
		return Member{}, fmt.Errorf("validate roster member: %w", err)
	}
	return Member{UID: input.UID, Username: input.Username}, nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = fieldErrs
	return true
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	case "max":
		return "too long"
	default:
		return "invalid value"
	}
}
