package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oakgrove/campus-portal/internal/data/pgxutil"
	"github.com/oakgrove/campus-portal/internal/domain/model"
)

// LoginLogRepo appends and reads login audit entries. The table is
// append-only; nothing in the login flow mutates or deletes rows.
type LoginLogRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewLoginLogRepo creates a new LoginLogRepo with real time provider.
func NewLoginLogRepo(db *sql.DB) *LoginLogRepo {
	return &LoginLogRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewLoginLogRepoWithTimeProvider creates a LoginLogRepo with a custom time provider.
func NewLoginLogRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *LoginLogRepo {
	return &LoginLogRepo{DB: db, timeProvider: tp}
}

const loginLogInsertQuery = `
	INSERT INTO login_log (id, username, affiliation, mechanism, success, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

const loginLogListRecentQuery = `
	SELECT id, username, affiliation, mechanism, success, created_at
	FROM login_log
	WHERE username = $1 AND affiliation = $2
	ORDER BY created_at DESC
	LIMIT $3`

// Record appends one audit entry.
func (r *LoginLogRepo) Record(ctx context.Context, entry model.LoginLogEntry) error {
	if entry.Username == "" || entry.Affiliation == "" {
		return errors.New("login log entry requires username and affiliation")
	}
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now().UTC()
	}

	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, loginLogInsertQuery,
			id, entry.Username, entry.Affiliation, entry.Mechanism, entry.Success, createdAt)
		return err
	}); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// ListRecent returns the most recent entries for a (username, affiliation) key.
func (r *LoginLogRepo) ListRecent(ctx context.Context, username, affiliation string, limit int) ([]model.LoginLogEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	var out []model.LoginLogEntry
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, loginLogListRecentQuery, username, affiliation, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.LoginLogEntry])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list login log: %w", err)
	}
	return out, nil
}
