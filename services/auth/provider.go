package auth

import (
	"github.com/jmcordova/accounts-backend/config"
	"github.com/jmcordova/accounts-backend/services/hashing"
	"github.com/jmcordova/accounts-backend/services/logging"
	"github.com/jmcordova/accounts-backend/services/mail"
	"github.com/jmcordova/accounts-backend/services/token"
	"github.com/jmcordova/accounts-backend/store"
	"go.uber.org/fx"
)

func ProvideService(
	cfg *config.Config,
	accounts store.AccountStore,
	codes store.ResetCodeStore,
	hasher *hashing.Service,
	tokens *token.Service,
	sender *mail.Service,
	logger *logging.Service,
) *Service {
	return NewService(cfg, accounts, codes, hasher, tokens, sender, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideService),
)
