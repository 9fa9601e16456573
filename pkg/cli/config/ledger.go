package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/service/ledger"
	"github.com/urfave/cli/v3"
)

// Ledger holds configuration for the checksum anchoring ledger client
type Ledger struct {
	rpcURL         string
	privateKey     string
	contractAddr   string
	chainID        int
	confirmTimeout time.Duration
}

// Flags returns CLI flags for ledger configuration
func (l *Ledger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ledger-rpc-url",
			Usage:       "JSON-RPC endpoint of the anchoring ledger",
			Sources:     cli.EnvVars("MNEMOSYNE_LEDGER_RPC_URL"),
			Destination: &l.rpcURL,
		},
		&cli.StringFlag{
			Name:        "ledger-private-key",
			Usage:       "Hex-encoded signing key for anchor transactions",
			Sources:     cli.EnvVars("MNEMOSYNE_LEDGER_PRIVATE_KEY"),
			Destination: &l.privateKey,
		},
		&cli.StringFlag{
			Name:        "ledger-contract",
			Usage:       "Address of the deployed verifier contract",
			Sources:     cli.EnvVars("MNEMOSYNE_LEDGER_CONTRACT"),
			Destination: &l.contractAddr,
		},
		&cli.IntFlag{
			Name:        "ledger-chain-id",
			Usage:       "Chain ID of the anchoring ledger",
			Sources:     cli.EnvVars("MNEMOSYNE_LEDGER_CHAIN_ID"),
			Destination: &l.chainID,
		},
		&cli.DurationFlag{
			Name:        "ledger-confirm-timeout",
			Usage:       "How long to wait for anchor transaction confirmation",
			Value:       2 * time.Minute,
			Sources:     cli.EnvVars("MNEMOSYNE_LEDGER_CONFIRM_TIMEOUT"),
			Destination: &l.confirmTimeout,
		},
	}
}

// LogAttrs returns log attributes for the ledger configuration. The
// signing key is intentionally absent.
func (l *Ledger) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("rpc_url", l.rpcURL),
		slog.String("contract", l.contractAddr),
		slog.Int("chain_id", l.chainID),
		slog.Duration("confirm_timeout", l.confirmTimeout),
		slog.Bool("signer_configured", l.privateKey != ""),
	}
}

// Configure creates the ledger client from the configured flags
func (l *Ledger) Configure() (interfaces.Ledger, error) {
	if l.chainID == 0 {
		return nil, goerr.New("ledger-chain-id is required")
	}

	client, err := ledger.New(l.rpcURL, l.privateKey, l.contractAddr, int64(l.chainID),
		ledger.WithConfirmTimeout(l.confirmTimeout),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create ledger client")
	}

	return client, nil
}
