package service

import (
	"context"
)

// RenewalExpiryService closes renewal requests nobody answered in time
type RenewalExpiryService interface {
	// Run expires every open request past its response window and returns how
	// many were expired. Running it again is a no-op.
	Run(ctx context.Context) (int64, error)
}

type renewalExpiryService struct {
	ServiceParams
}

func NewRenewalExpiryService(params ServiceParams) RenewalExpiryService {
	return &renewalExpiryService{ServiceParams: params}
}

func (s *renewalExpiryService) Run(ctx context.Context) (int64, error) {
	now := s.Clock.Now()
	log := s.Logger.WithContext(ctx)

	expired, err := s.RenewalRepo.ExpireStale(ctx, now)
	if err != nil {
		log.Errorw("failed to expire renewal requests", "error", err)
		return 0, err
	}

	if expired > 0 {
		log.Infow("expired stale renewal requests", "count", expired, "as_of", now)
	} else {
		log.Debugw("no stale renewal requests", "as_of", now)
	}
	return expired, nil
}
