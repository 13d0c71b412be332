package mail

import (
	"github.com/jmcordova/accounts-backend/config"
	"github.com/jmcordova/accounts-backend/services/logging"
	"go.uber.org/fx"
)

func ProvideMailService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	return NewService(&cfg.Mail, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideMailService),
)
