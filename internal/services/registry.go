package services

import (
	"finances/internal/auth"
	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/storage"
)

// Registry holds one service per API resource plus authentication.
type Registry struct {
	Auth                *AuthService
	Users               *UserService
	Accounts            *ResourceService[core.Account]
	Categories          *ResourceService[core.Category]
	Funds               *ResourceService[core.Fund]
	Years               *ResourceService[core.Year]
	MonthlyRecords      *ResourceService[core.MonthlyRecord]
	MonthlyBalances     *ResourceService[core.MonthlyBalance]
	CategoryAllocations *ResourceService[core.CategoryAllocation]
	FundContributions   *ResourceService[core.FundContribution]
}

// NewRegistry wires every service against one store. publisher may be nil.
func NewRegistry(store *storage.Store, tokens *auth.TokenService, publisher Publisher, logger *log.Logger) *Registry {
	users := storage.NewUserRepository(store)
	authService := NewAuthService(users, tokens, publisher, logger)

	return &Registry{
		Auth:                authService,
		Users:               NewUserService(users, authService, publisher, logger),
		Accounts:            NewResourceService(storage.NewRepository(store, storage.Accounts), publisher, logger),
		Categories:          NewResourceService(storage.NewRepository(store, storage.Categories), publisher, logger),
		Funds:               NewResourceService(storage.NewRepository(store, storage.Funds), publisher, logger),
		Years:               NewResourceService(storage.NewRepository(store, storage.Years), publisher, logger),
		MonthlyRecords:      NewResourceService(storage.NewRepository(store, storage.MonthlyRecords), publisher, logger),
		MonthlyBalances:     NewResourceService(storage.NewRepository(store, storage.MonthlyBalances), publisher, logger),
		CategoryAllocations: NewResourceService(storage.NewRepository(store, storage.CategoryAllocations), publisher, logger),
		FundContributions:   NewResourceService(storage.NewRepository(store, storage.FundContributions), publisher, logger),
	}
}
