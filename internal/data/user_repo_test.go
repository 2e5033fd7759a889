package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakgrove/campus-portal/internal/domain/model"
	"github.com/oakgrove/campus-portal/internal/testutil"
)

func TestUserRepoUpsert(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		created, err := repo.Upsert(ctx, model.UpsertUserParams{
			Username:     "alice",
			Affiliation:  "campus",
			DefaultGroup: "students",
			Attributes:   map[string]string{"email": "alice@campus.test", "theme": "dark"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "campus", created.Affiliation)
		require.NotNil(t, created.DefaultGroup)
		assert.Equal(t, "students", *created.DefaultGroup)
		assert.Equal(t, "dark", created.Attributes["theme"])

		// Second login: attributes merge additively, identity is stable.
		updated, err := repo.Upsert(ctx, model.UpsertUserParams{
			Username:    "alice",
			Affiliation: "campus",
			Attributes:  map[string]string{"email": "alice.smith@campus.test"},
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID, "upsert must not create a second record")
		assert.Equal(t, "alice.smith@campus.test", updated.Attributes["email"], "present keys overwrite")
		assert.Equal(t, "dark", updated.Attributes["theme"], "absent keys survive")
		require.NotNil(t, updated.DefaultGroup)
		assert.Equal(t, "students", *updated.DefaultGroup, "default group survives when omitted")
	})
}

func TestUserRepoDistinctAffiliationsAreDistinctUsers(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		campus, err := repo.Upsert(ctx, model.UpsertUserParams{Username: "alice", Affiliation: "campus"})
		require.NoError(t, err)
		partner, err := repo.Upsert(ctx, model.UpsertUserParams{Username: "alice", Affiliation: "partner"})
		require.NoError(t, err)

		assert.NotEqual(t, campus.ID, partner.ID)
	})
}

func TestUserRepoGetByKey(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		_, err := repo.GetByKey(ctx, "ghost", "campus")
		require.ErrorIs(t, err, ErrUserNotFound)

		_, err = repo.Upsert(ctx, model.UpsertUserParams{Username: "bob", Affiliation: "campus"})
		require.NoError(t, err)

		got, err := repo.GetByKey(ctx, "bob", "campus")
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Username)
	})
}

func TestUserRepoUpsertValidatesInput(t *testing.T) {
	repo := NewUserRepo(nil)

	_, err := repo.Upsert(context.Background(), model.UpsertUserParams{Affiliation: "campus"})
	require.Error(t, err)

	_, err = repo.Upsert(context.Background(), model.UpsertUserParams{Username: "alice"})
	require.Error(t, err)
}

func TestLoginLogRepoRecordAndList(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := NewFixedTimeProvider(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
		repo := NewLoginLogRepoWithTimeProvider(db, tp)

		for i := 0; i < 3; i++ {
			tp.AddTime(time.Minute)
			require.NoError(t, repo.Record(ctx, model.LoginLogEntry{
				Username:    "alice",
				Affiliation: "campus",
				Mechanism:   "casA",
				Success:     true,
			}))
		}
		require.NoError(t, repo.Record(ctx, model.LoginLogEntry{
			Username:    "bob",
			Affiliation: "campus",
			Mechanism:   "casA",
			Success:     true,
		}))

		entries, err := repo.ListRecent(ctx, "alice", "campus", 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt) ||
			entries[0].CreatedAt.Equal(entries[1].CreatedAt), "newest first")
		for _, e := range entries {
			assert.Equal(t, "alice", e.Username)
		}
	})
}

func TestLoginLogRecordRequiresKey(t *testing.T) {
	repo := NewLoginLogRepo(nil)
	err := repo.Record(context.Background(), model.LoginLogEntry{Username: "alice"})
	require.Error(t, err)
}
