package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

// DefaultAdminEmail is the account allowed to open and close vote
// rounds unless ADMIN_EMAIL overrides it.
const DefaultAdminEmail = "admin@truthbtoldhub.com"

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AdminEmail     string
	CredentialSalt string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("tbt-hub", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.AdminEmail, "admin-email", "", "Admin account email")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.CredentialSalt, "credential-salt", "", "Credential proof salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4017 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.AdminEmail == "" {
		cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
		if cfg.AdminEmail == "" {
			cfg.AdminEmail = DefaultAdminEmail
		}
	}

	// Secrets - MUST be provided
	if cfg.CredentialSalt == "" {
		cfg.CredentialSalt = os.Getenv("CREDENTIAL_SALT")
	}
	if cfg.CredentialSalt == "" {
		return Config{}, errors.New("CREDENTIAL_SALT required")
	}

	return cfg, nil
}
