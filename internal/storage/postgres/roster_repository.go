package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatelog/server/internal/domain/roster"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type RosterRepository struct {
	pool *pgxpool.Pool
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT uid, username FROM authorized_uids ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	var members []roster.Member
	for rows.Next() {
		var member roster.Member
		if err := rows.Scan(&member.UID, &member.Username); err != nil {
			return nil, fmt.Errorf("scan roster member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", err)
	}
	return members, nil
}

func (r *RosterRepository) Add(ctx context.Context, member roster.Member) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO authorized_uids (uid, username) VALUES ($1, $2)`,
		member.UID, member.Username)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return roster.ErrConflict
		}
		return fmt.Errorf("insert roster member: %w", err)
	}
	return nil
}

func (r *RosterRepository) Rename(ctx context.Context, uid string, username string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE authorized_uids SET username = $1 WHERE uid = $2`,
		username, uid)
	if err != nil {
		return fmt.Errorf("rename roster member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrNotFound
	}
	return nil
}

func (r *RosterRepository) Remove(ctx context.Context, uid string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authorized_uids WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("remove roster member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrNotFound
	}
	return nil
}
