package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oakgrove/campus-portal/internal/data/pgxutil"
	"github.com/oakgrove/campus-portal/internal/domain/model"
)

// ErrUserNotFound is returned when no record exists for a (username, affiliation) key.
var ErrUserNotFound = errors.New("user not found")

// UserRepo provides database operations for local user records.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userUpsertQuery = `
	INSERT INTO users (id, username, affiliation, default_group, attributes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)
	ON CONFLICT (username, affiliation) DO UPDATE SET
		attributes    = users.attributes || EXCLUDED.attributes,
		default_group = COALESCE(EXCLUDED.default_group, users.default_group),
		updated_at    = EXCLUDED.updated_at
	RETURNING id, username, affiliation, default_group, attributes, created_at, updated_at`

const userGetByKeyQuery = `
	SELECT id, username, affiliation, default_group, attributes, created_at, updated_at
	FROM users
	WHERE username = $1 AND affiliation = $2`

// Upsert creates the user record for (username, affiliation) or updates it
// in place. The single statement makes the read-then-write atomic, so two
// simultaneous logins for the same subject cannot lose an update. Attribute
// merging is additive: keys present in params overwrite, keys absent on
// this login are kept from the stored record.
func (r *UserRepo) Upsert(ctx context.Context, params model.UpsertUserParams) (*model.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	attrs := params.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	var defaultGroup *string
	if params.DefaultGroup != "" {
		defaultGroup = &params.DefaultGroup
	}
	now := r.timeProvider.Now().UTC()

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userUpsertQuery,
			uuid.NewString(),
			params.Username,
			params.Affiliation,
			defaultGroup,
			attrs,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, mapUserWriteErr(err)
	}
	return &out, nil
}

// GetByKey retrieves a user by its (username, affiliation) key.
func (r *UserRepo) GetByKey(ctx context.Context, username, affiliation string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userGetByKeyQuery, username, affiliation)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &out, nil
}

func mapUserWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		// Only the synthetic id column can collide; the natural key is the
		// upsert conflict target.
		return fmt.Errorf("user id collision: %w", err)
	}
	return fmt.Errorf("failed to upsert user: %w", err)
}
