package service

import (
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/testutil"
)

// newTestServiceParams wires the suite's in-memory collaborators into ServiceParams
func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		DB:                s.GetDB(),
		Clock:             s.GetClock(),
		Cache:             s.GetCache(),
		LeaseRepo:         stores.LeaseRepo,
		UnitRepo:          stores.UnitRepo,
		RenewalRepo:       stores.RenewalRepo,
		PartyRepo:         stores.PartyRepo,
		PolicyRepo:        stores.PolicyRepo,
		Notifier:          s.GetNotifier(),
		ContractGenerator: s.GetContractGenerator(),
		SideEffects:       s.GetSideEffects(),
	}
}
