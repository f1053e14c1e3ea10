package service

import (
	"github.com/snikitin/accounts-service/internal/config"
	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/internal/store"
)

type Services struct {
	AccountService AccountService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AccountService: NewAccountService(storages.AccountRepository, cfg.App, logger),
	}
}
