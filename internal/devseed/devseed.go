package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/oakgrove/campus-portal/internal/data"
	"github.com/oakgrove/campus-portal/internal/domain/model"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB       *sql.DB
	users    *data.UserRepo
	loginLog *data.LoginLogRepo
}

// NewServices constructs the repositories used for seeding.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:       db,
		users:    data.NewUserRepo(db),
		loginLog: data.NewLoginLogRepo(db),
	}
}

// Run seeds a handful of local users and login history so the status and
// history endpoints have data to show in development. Seeding is idempotent;
// rerunning updates the same records.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedUsers(ctx, svcs, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedUsers(ctx context.Context, svcs Services, logger *slog.Logger) int {
	failures := 0
	seeds := []model.UpsertUserParams{
		{
			Username:     "alice",
			Affiliation:  "campus",
			DefaultGroup: "students",
			Attributes:   map[string]string{"displayName": "Alice Dev", "mail": "alice@campus.test", "theme": "dark"},
		},
		{
			Username:     "bob",
			Affiliation:  "campus",
			DefaultGroup: "staff",
			Attributes:   map[string]string{"displayName": "Bob Dev", "mail": "bob@campus.test"},
		},
		{
			Username:    "carol",
			Affiliation: "partner",
			Attributes:  map[string]string{"displayName": "Carol Partner"},
		},
	}

	for _, params := range seeds {
		user, err := svcs.users.Upsert(ctx, params)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed user",
					"username", params.Username, "affiliation", params.Affiliation, "error", err)
			}
			failures++
			continue
		}

		if err := svcs.loginLog.Record(ctx, model.LoginLogEntry{
			Username:    user.Username,
			Affiliation: user.Affiliation,
			Mechanism:   "dev-seed",
			Success:     true,
		}); err != nil && logger != nil {
			logger.WarnContext(ctx, "failed to seed login entry",
				"username", user.Username, "error", err)
		}

		if logger != nil {
			logger.InfoContext(ctx, "seeded user",
				"username", user.Username, "affiliation", user.Affiliation)
		}
	}
	return failures
}
