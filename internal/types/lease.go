package types

import (
	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
)

// LeaseStatus is the occupancy state of a lease
type LeaseStatus string

const (
	LeaseStatusActive     LeaseStatus = "ACTIVE"
	LeaseStatusExpired    LeaseStatus = "EXPIRED"
	LeaseStatusTerminated LeaseStatus = "TERMINATED"
)

func (s LeaseStatus) String() string {
	return string(s)
}

func (s LeaseStatus) Validate() error {
	switch s {
	case LeaseStatusActive, LeaseStatusExpired, LeaseStatusTerminated:
		return nil
	}
	return ierr.NewErrorf("invalid lease status %q", string(s)).
		WithHint("Lease status must be ACTIVE, EXPIRED or TERMINATED").
		Mark(ierr.ErrValidation)
}

// LeaseType tells an initial booking apart from a renewal
type LeaseType string

const (
	LeaseTypeOriginal LeaseType = "ORIGINAL"
	LeaseTypeRenewal  LeaseType = "RENEWAL"
)

func (t LeaseType) Validate() error {
	switch t {
	case LeaseTypeOriginal, LeaseTypeRenewal:
		return nil
	}
	return ierr.NewErrorf("invalid lease type %q", string(t)).
		WithHint("Lease type must be ORIGINAL or RENEWAL").
		Mark(ierr.ErrValidation)
}
