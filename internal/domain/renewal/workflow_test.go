package renewal

import (
	"testing"
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/lease"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/domain/party"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	now      = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	tenant   = party.AuthorizationContext{UserID: "tenant", IsTenant: true, TenantID: "tenant", LandlordID: "owner"}
	landlord = party.AuthorizationContext{UserID: "owner", IsLandlord: true, IsOwner: true, TenantID: "tenant", LandlordID: "owner"}
	outsider = party.AuthorizationContext{UserID: "stranger", TenantID: "tenant", LandlordID: "owner"}
)

func activeLease() *lease.Lease {
	return &lease.Lease{
		ID:         "lease_1",
		Status:     types.LeaseStatusActive,
		StartDate:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		RentAmount: decimal.NewFromInt(2000),
		LeaseType:  types.LeaseTypeOriginal,
	}
}

func openRequest(status types.RenewalStatus, role types.PartyRole) *RenewalRequest {
	return &RenewalRequest{
		ID:            "rnw_1",
		LeaseID:       "lease_1",
		InitiatorRole: role,
		Status:        status,
		ExpiresAt:     now.Add(48 * time.Hour),
	}
}

func TestDeriveWorkflowState(t *testing.T) {
	tests := []struct {
		name    string
		open    *RenewalRequest
		auth    party.AuthorizationContext
		request bool
		propose bool
		counter bool
		accept  bool
		decline bool
	}{
		{name: "tenant without open renewal", auth: tenant, request: true},
		{name: "landlord without open renewal", auth: landlord, propose: true},
		{
			name:    "tenant facing landlord proposal",
			open:    openRequest(types.RenewalStatusPending, types.PartyRoleLandlord),
			auth:    tenant,
			counter: true,
			accept:  true,
			decline: true,
		},
		{
			name: "landlord facing own proposal",
			open: openRequest(types.RenewalStatusPending, types.PartyRoleLandlord),
			auth: landlord,
		},
		{
			name:    "landlord facing tenant request",
			open:    openRequest(types.RenewalStatusPending, types.PartyRoleTenant),
			auth:    landlord,
			counter: true,
			decline: true,
		},
		{
			name:    "tenant facing landlord counter",
			open:    openRequest(types.RenewalStatusCountered, types.PartyRoleLandlord),
			auth:    tenant,
			counter: true,
			accept:  true,
			decline: true,
		},
		{
			name: "tenant facing own counter",
			open: openRequest(types.RenewalStatusCountered, types.PartyRoleTenant),
			auth: tenant,
		},
		{
			name: "outsider sees nothing",
			open: openRequest(types.RenewalStatusCountered, types.PartyRoleLandlord),
			auth: outsider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := DeriveWorkflowState(activeLease(), tt.open, tt.auth, now)
			assert.Equal(t, tt.request, state.CanRequestRenewal, "request")
			assert.Equal(t, tt.propose, state.CanProposeRenewal, "propose")
			assert.Equal(t, tt.counter, state.CanCounterRenewal, "counter")
			assert.Equal(t, tt.accept, state.CanAcceptRenewal, "accept")
			assert.Equal(t, tt.decline, state.CanDeclineRenewal, "decline")
		})
	}
}

func TestDeriveWorkflowStateIgnoresExpiredRequest(t *testing.T) {
	open := openRequest(types.RenewalStatusPending, types.PartyRoleLandlord)
	open.ExpiresAt = now.Add(-time.Minute)

	state := DeriveWorkflowState(activeLease(), open, tenant, now)
	assert.Nil(t, state.OpenRenewal)
	assert.True(t, state.CanRequestRenewal)
	assert.False(t, state.CanDeclineRenewal)
}

func TestDeriveWorkflowStateTermination(t *testing.T) {
	l := activeLease()
	state := DeriveWorkflowState(l, nil, landlord, now)
	assert.True(t, state.CanGiveTerminationNotice)
	assert.False(t, state.HasTerminationNotice)

	l.TerminationNoticeDate = lo.ToPtr(now)
	state = DeriveWorkflowState(l, nil, landlord, now)
	assert.False(t, state.CanGiveTerminationNotice)
	assert.True(t, state.HasTerminationNotice)

	l.Status = types.LeaseStatusExpired
	state = DeriveWorkflowState(l, nil, tenant, now)
	assert.False(t, state.CanRequestRenewal)
	assert.False(t, state.CanGiveTerminationNotice)
}

func TestDeriveWorkflowStateDoesNotMutate(t *testing.T) {
	l := activeLease()
	open := openRequest(types.RenewalStatusCountered, types.PartyRoleLandlord)
	leaseBefore, openBefore := *l, *open

	_ = DeriveWorkflowState(l, open, tenant, now)
	assert.Equal(t, leaseBefore, *l)
	assert.Equal(t, openBefore, *open)
}
