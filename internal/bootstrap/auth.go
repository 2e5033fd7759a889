package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakgrove/campus-portal/config"
	"github.com/oakgrove/campus-portal/internal/adapters/cas"
	"github.com/oakgrove/campus-portal/internal/data"
	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/service"
	"github.com/oakgrove/campus-portal/internal/sessiontoken"
)

// mechanismsFile is the on-disk shape of the mechanism table.
type mechanismsFile struct {
	Mechanisms map[string]domainauth.Mechanism `yaml:"mechanisms"`
}

// LoadMechanisms reads the identity provider table from a YAML file. Every
// entry is validated up front; a broken table is a startup error, never a
// per-request surprise.
func LoadMechanisms(path string, logger *slog.Logger) (map[string]domainauth.Mechanism, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mechanisms file: %w", err)
	}

	var file mechanismsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse mechanisms file %s: %w", path, err)
	}
	if len(file.Mechanisms) == 0 {
		return nil, fmt.Errorf("mechanisms file %s defines no mechanisms", path)
	}

	out := make(map[string]domainauth.Mechanism, len(file.Mechanisms))
	for id, m := range file.Mechanisms {
		m.ID = id
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mechanisms file %s: %w", path, err)
		}
		if !m.ValidatesSSL() && logger != nil {
			logger.Warn("TLS verification disabled for mechanism", "mechanism", id)
		}
		out[id] = m
	}
	return out, nil
}

// AuthDeps groups the dependencies for BuildAuthService.
type AuthDeps struct {
	Config config.AppConfig
	DB     *sql.DB
	Logger *slog.Logger
}

// AuthComponents is what BuildAuthService wires together.
type AuthComponents struct {
	Service  *service.CASService
	Users    *data.UserRepo
	LoginLog *data.LoginLogRepo
}

// BuildAuthService loads the mechanism table and the session keypair and
// wires the ticket login service. Either failing to load aborts startup.
func BuildAuthService(deps AuthDeps) (*AuthComponents, error) {
	mechanisms, err := LoadMechanisms(deps.Config.Auth.MechanismsFile, deps.Logger)
	if err != nil {
		return nil, err
	}

	codec, err := sessiontoken.Load(
		deps.Config.Auth.PrivateKeyFile,
		deps.Config.Auth.PublicKeyFile,
	)
	if err != nil {
		return nil, fmt.Errorf("load session keypair: %w", err)
	}

	users := data.NewUserRepo(deps.DB)
	loginLog := data.NewLoginLogRepo(deps.DB)

	svc := service.NewCASService(service.CASServiceOptions{
		Mechanisms: mechanisms,
		Validator:  cas.NewValidator(deps.Config.Auth.ValidateTimeout, deps.Logger),
		Users:      users,
		LoginLog:   loginLog,
		Sealer:     codec,
		ServiceURL: CallbackURL(deps.Config.HTTP.BaseURL),
		Logger:     deps.Logger,
	})

	return &AuthComponents{Service: svc, Users: users, LoginLog: loginLog}, nil
}

// CallbackURL derives the exact service URL tickets are issued against.
// It must match what the login page sends the browser to character for
// character, or validation fails at the provider.
func CallbackURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/casauth"
}
