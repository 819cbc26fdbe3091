package policy

import (
	"time"

	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// Source tells which level of configuration a policy came from
type Source string

const (
	SourceOrganization Source = "organization"
	SourceProperty     Source = "property"
	SourceDefault      Source = "default"
)

// TerminationPolicy decides when a termination notice can take effect: at least
// MinNoticeDays after the notice, rounded forward to CutoffDay of a month
type TerminationPolicy struct {
	CutoffDay     int    `json:"cutoff_day"`
	MinNoticeDays int    `json:"min_notice_days"`
	Timezone      string `json:"timezone"`
	Source        Source `json:"source"`
}

// Location loads the policy timezone
func (p TerminationPolicy) Location() (*time.Location, error) {
	return types.LoadTimezone(p.Timezone)
}

// OrganizationOverride is the optional policy configured by the landlord organization.
// Nil fields fall back to the defaults.
type OrganizationOverride struct {
	CutoffDay     *int    `json:"cutoff_day,omitempty"`
	MinNoticeDays *int    `json:"min_notice_days,omitempty"`
	Timezone      *string `json:"timezone,omitempty"`
}

// IsSet returns true if the organization configured any policy field
func (o *OrganizationOverride) IsSet() bool {
	return o != nil && (o.CutoffDay != nil || o.MinNoticeDays != nil || o.Timezone != nil)
}

// Overrides collects every override that applies to one lease
type Overrides struct {
	Organization     *OrganizationOverride `json:"organization,omitempty"`
	PropertyTimezone *string               `json:"property_timezone,omitempty"`
}
