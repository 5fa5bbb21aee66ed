package roster

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("roster member not found")
	ErrConflict = errors.New("roster member already exists")
)

// Member is one authorized badge: a stable uid mapped to a display name.
type Member struct {
	UID      string
	Username string
}

type Repository interface {
	List(ctx context.Context) ([]Member, error)
	Add(ctx context.Context, member Member) error
	Rename(ctx context.Context, uid string, username string) error
	Remove(ctx context.Context, uid string) error
}
