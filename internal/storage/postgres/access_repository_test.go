package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gatelog/server/internal/domain/access"
	"github.com/stretchr/testify/require"
)

func TestLookupUsername(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := (&Repository{pool: pool}).Access()

	_, err := pool.Exec(ctx, `INSERT INTO authorized_uids (uid, username) VALUES ('04AB', 'Alice')`)
	require.NoError(t, err)

	username, err := repo.LookupUsername(ctx, "04AB")
	require.NoError(t, err)
	require.Equal(t, "Alice", username)

	_, err = repo.LookupUsername(ctx, "FFFF")
	require.ErrorIs(t, err, access.ErrNotFound)

	_, err = repo.LookupUsername(ctx, "")
	require.ErrorIs(t, err, access.ErrNotFound)
}

func TestInsertEventAssignsIncreasingIDs(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := (&Repository{pool: pool}).Access()

	first, err := repo.InsertEvent(ctx, access.EventCreateParams{UID: "04AB", Direction: "in", DeviceName: "door-1", Authorized: true})
	require.NoError(t, err)
	second, err := repo.InsertEvent(ctx, access.EventCreateParams{UID: "DEAD", Direction: "out", DeviceName: "door-1", Authorized: false})
	require.NoError(t, err)

	require.Greater(t, second, first)
}

func TestInsertEventStoresTimeOfDay(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := (&Repository{pool: pool}).Access()

	when := time.Date(0, time.January, 1, 8, 30, 0, 0, time.UTC)
	_, err := repo.InsertEvent(ctx, access.EventCreateParams{
		UID: "04AB", Direction: "in", DeviceName: "door-1",
		DeviceTime: &when, Authorized: true,
	})
	require.NoError(t, err)
	_, err = repo.InsertEvent(ctx, access.EventCreateParams{
		UID: "04AB", Direction: "out", DeviceName: "door-1", Authorized: true,
	})
	require.NoError(t, err)

	logs, err := repo.RecentLogs(ctx, 50)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first: the null-time row, then the 08:30 row.
	require.Nil(t, logs[0].DeviceTime)
	require.NotNil(t, logs[1].DeviceTime)
	require.Equal(t, 8, logs[1].DeviceTime.Hour())
	require.Equal(t, 30, logs[1].DeviceTime.Minute())
}

func TestRecentLogsJoinAndOrdering(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := (&Repository{pool: pool}).Access()

	_, err := pool.Exec(ctx, `INSERT INTO authorized_uids (uid, username) VALUES ('04AB', 'Alice')`)
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		uid := "04AB"
		if i%2 == 0 {
			uid = "DEAD"
		}
		_, err := repo.InsertEvent(ctx, access.EventCreateParams{UID: uid, Direction: "in", DeviceName: "door-1", Authorized: uid == "04AB"})
		require.NoError(t, err)
	}

	logs, err := repo.RecentLogs(ctx, 50)
	require.NoError(t, err)
	require.Len(t, logs, 50)

	for i := 1; i < len(logs); i++ {
		require.Greater(t, logs[i-1].ID, logs[i].ID, "rows must be strictly descending by id")
	}

	for _, entry := range logs {
		if entry.UID == "04AB" {
			require.NotNil(t, entry.Username)
			require.Equal(t, "Alice", *entry.Username)
		} else {
			require.Nil(t, entry.Username)
		}
	}
}

func TestRecentLogsAuthorizedIsFrozen(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := (&Repository{pool: pool}).Access()

	_, err := pool.Exec(ctx, `INSERT INTO authorized_uids (uid, username) VALUES ('04AB', 'Alice')`)
	require.NoError(t, err)

	_, err = repo.InsertEvent(ctx, access.EventCreateParams{UID: "04AB", Direction: "in", DeviceName: "door-1", Authorized: true})
	require.NoError(t, err)

	// Revoking the badge afterwards must not rewrite history: the stored
	// authorized flag stays true while the joined username disappears.
	_, err = pool.Exec(ctx, `DELETE FROM authorized_uids WHERE uid = '04AB'`)
	require.NoError(t, err)

	logs, err := repo.RecentLogs(ctx, 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.True(t, logs[0].Authorized)
	require.Nil(t, logs[0].Username)
}

func TestStatsForDayCountsOnlyAuthorized(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := (&Repository{pool: pool}).Access()

	insert := func(direction string, authorized bool) {
		_, err := repo.InsertEvent(ctx, access.EventCreateParams{UID: "04AB", Direction: direction, DeviceName: "door-1", Authorized: authorized})
		require.NoError(t, err)
	}
	insert("in", true)
	insert("in", true)
	insert("out", true)
	insert("in", false)

	stats, err := repo.StatsForDay(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.In)
	require.Equal(t, int64(1), stats.Out)
}

func TestDistinctUnauthorizedUIDs(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := (&Repository{pool: pool}).Access()

	_, err := pool.Exec(ctx, `INSERT INTO authorized_uids (uid, username) VALUES ('04AB', 'Alice')`)
	require.NoError(t, err)

	for _, uid := range []string{"04AB", "DEAD", "BEEF", "DEAD"} {
		_, err := repo.InsertEvent(ctx, access.EventCreateParams{UID: uid, Direction: "in", DeviceName: "door-1", Authorized: uid == "04AB"})
		require.NoError(t, err)
	}

	all, err := repo.DistinctUIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"04AB", "BEEF", "DEAD"}, all)

	unknown, err := repo.DistinctUnauthorizedUIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"BEEF", "DEAD"}, unknown)
}
