package service

import (
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/cache"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/contract"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/policy"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/renewal"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/logger"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/notification"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/sideeffect"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Clock  types.Clock
	Cache  cache.Cache

	// Repositories
	LeaseRepo   lease.Repository
	UnitRepo    lease.UnitRepository
	RenewalRepo renewal.Repository
	PartyRepo   party.Repository
	PolicyRepo  policy.Repository

	// Collaborators
	Notifier          notification.Dispatcher
	ContractGenerator contract.Generator
	SideEffects       *sideeffect.Runner
}

// NewServiceParams creates a new ServiceParams
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	clock types.Clock,
	cache cache.Cache,
	leaseRepo lease.Repository,
	unitRepo lease.UnitRepository,
	renewalRepo renewal.Repository,
	partyRepo party.Repository,
	policyRepo policy.Repository,
	notifier notification.Dispatcher,
	contractGenerator contract.Generator,
	sideEffects *sideeffect.Runner,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		Clock:             clock,
		Cache:             cache,
		LeaseRepo:         leaseRepo,
		UnitRepo:          unitRepo,
		RenewalRepo:       renewalRepo,
		PartyRepo:         partyRepo,
		PolicyRepo:        policyRepo,
		Notifier:          notifier,
		ContractGenerator: contractGenerator,
		SideEffects:       sideEffects,
	}
}
