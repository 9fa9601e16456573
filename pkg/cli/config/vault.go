package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/service/vault"
	"github.com/urfave/cli/v3"
)

// Vault holds configuration for the off-site secret store used for
// best-effort memory replication
type Vault struct {
	baseURL    string
	appID      string
	userSeed   string
	secretName string
}

// Flags returns CLI flags for vault configuration
func (v *Vault) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vault-base-url",
			Usage:       "Base URL of the secret store API",
			Sources:     cli.EnvVars("MNEMOSYNE_VAULT_BASE_URL"),
			Destination: &v.baseURL,
		},
		&cli.StringFlag{
			Name:        "vault-app-id",
			Usage:       "Application ID at the secret store",
			Sources:     cli.EnvVars("MNEMOSYNE_VAULT_APP_ID"),
			Destination: &v.appID,
		},
		&cli.StringFlag{
			Name:        "vault-user-seed",
			Usage:       "User seed identifying the replica owner",
			Sources:     cli.EnvVars("MNEMOSYNE_VAULT_USER_SEED"),
			Destination: &v.userSeed,
		},
		&cli.StringFlag{
			Name:        "vault-secret-name",
			Usage:       "Base name under which memory replicas are stored",
			Value:       "memory",
			Sources:     cli.EnvVars("MNEMOSYNE_VAULT_SECRET_NAME"),
			Destination: &v.secretName,
		},
	}
}

// IsConfigured reports whether replication should be enabled
func (v *Vault) IsConfigured() bool {
	return v.baseURL != "" || v.appID != "" || v.userSeed != ""
}

// LogAttrs returns log attributes for the vault configuration. The user
// seed is a credential and intentionally absent.
func (v *Vault) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("base_url", v.baseURL),
		slog.String("app_id", v.appID),
		slog.String("secret_name", v.secretName),
	}
}

// Configure creates the vault client. Returns nil when no vault flags
// are set (replication disabled); partial configuration is an error.
func (v *Vault) Configure() (interfaces.Vault, error) {
	if !v.IsConfigured() {
		return nil, nil
	}

	client, err := vault.New(v.baseURL, v.appID, v.userSeed, v.secretName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vault client")
	}

	return client, nil
}
