package usecase

import (
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
)

// UseCases bundles the pipeline and query use cases with their
// collaborators. All collaborator handles are explicit construction-time
// configuration; nothing is ambient process state.
type UseCases struct {
	repo      interfaces.Repository
	moderator interfaces.Moderator
	ledger    interfaces.Ledger
	vault     interfaces.Vault
}

type Option func(*UseCases)

// WithVault enables best-effort replication of flagged memories to the
// secret store. Without it the replication stage is skipped.
func WithVault(vault interfaces.Vault) Option {
	return func(uc *UseCases) {
		uc.vault = vault
	}
}

func New(repo interfaces.Repository, moderator interfaces.Moderator, ledger interfaces.Ledger, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		moderator: moderator,
		ledger:    ledger,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
