package policy

import (
	"testing"
	"time"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultPolicy = TerminationPolicy{CutoffDay: 10, MinNoticeDays: 30, Timezone: "Europe/Warsaw"}

func TestComputeEarliestEnd(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		policy TerminationPolicy
		want   time.Time
	}{
		{
			name:   "notice pushes past the cutoff into the next month",
			now:    time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
			policy: defaultPolicy,
			want:   time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), // 2025-03-10 00:00 CET
		},
		{
			name:   "local date is already the next month",
			now:    time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC),
			policy: TerminationPolicy{CutoffDay: 31, MinNoticeDays: 0, Timezone: "Europe/Warsaw"},
			want:   time.Date(2025, 2, 27, 23, 0, 0, 0, time.UTC), // 2025-02-28 00:00 CET
		},
		{
			name:   "same instant read in UTC stays in January",
			now:    time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC),
			policy: TerminationPolicy{CutoffDay: 31, MinNoticeDays: 0, Timezone: "UTC"},
			want:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "end lands on the day clocks change in New York",
			now:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			policy: TerminationPolicy{CutoffDay: 9, MinNoticeDays: 8, Timezone: "America/New_York"},
			want:   time.Date(2025, 3, 9, 5, 0, 0, 0, time.UTC), // midnight EST, before the 2am switch
		},
		{
			name:   "notice window crosses the European switch to summer time",
			now:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			policy: TerminationPolicy{CutoffDay: 31, MinNoticeDays: 30, Timezone: "Europe/Warsaw"},
			want:   time.Date(2025, 3, 30, 22, 0, 0, 0, time.UTC), // 2025-03-31 00:00 CEST
		},
		{
			name:   "summer time cutoff in the following month",
			now:    time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
			policy: defaultPolicy,
			want:   time.Date(2025, 5, 9, 22, 0, 0, 0, time.UTC), // 2025-05-10 00:00 CEST
		},
		{
			name:   "year rollover",
			now:    time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC),
			policy: defaultPolicy,
			want:   time.Date(2026, 1, 9, 23, 0, 0, 0, time.UTC),
		},
		{
			name:   "notice ends before the cutoff of the same month",
			now:    time.Date(2025, 12, 5, 12, 0, 0, 0, time.UTC),
			policy: defaultPolicy,
			want:   time.Date(2026, 1, 9, 23, 0, 0, 0, time.UTC),
		},
		{
			name:   "cutoff clamped to leap day",
			now:    time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			policy: TerminationPolicy{CutoffDay: 30, MinNoticeDays: 0, Timezone: "UTC"},
			want:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "notice ending on the cutoff day keeps the month",
			now:    time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC),
			policy: TerminationPolicy{CutoffDay: 10, MinNoticeDays: 0, Timezone: "UTC"},
			want:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEarliestEnd(tt.now, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestComputeEarliestEndIsMonotonic(t *testing.T) {
	prev := time.Time{}
	for now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); now.Year() == 2025; now = now.Add(7 * time.Hour) {
		got, err := ComputeEarliestEnd(now, defaultPolicy)
		require.NoError(t, err)
		assert.False(t, got.Before(prev), "earliest end moved backwards at %s", now)
		prev = got
	}
}

func TestComputeEarliestEndRejectsBadPolicy(t *testing.T) {
	_, err := ComputeEarliestEnd(time.Now(), TerminationPolicy{CutoffDay: 10, Timezone: "Mars/Olympus"})
	assert.True(t, ierr.IsValidation(err))

	_, err = ComputeEarliestEnd(time.Now(), TerminationPolicy{CutoffDay: 0, Timezone: "UTC"})
	assert.True(t, ierr.IsValidation(err))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		overrides *Overrides
		want      TerminationPolicy
		skipped   int
	}{
		{
			name: "no overrides",
			want: TerminationPolicy{CutoffDay: 10, MinNoticeDays: 30, Timezone: "Europe/Warsaw", Source: SourceDefault},
		},
		{
			name:      "empty overrides",
			overrides: &Overrides{Organization: &OrganizationOverride{}},
			want:      TerminationPolicy{CutoffDay: 10, MinNoticeDays: 30, Timezone: "Europe/Warsaw", Source: SourceDefault},
		},
		{
			name:      "property timezone",
			overrides: &Overrides{PropertyTimezone: lo.ToPtr("America/New_York")},
			want:      TerminationPolicy{CutoffDay: 10, MinNoticeDays: 30, Timezone: "America/New_York", Source: SourceProperty},
		},
		{
			name: "organization policy with property zone",
			overrides: &Overrides{
				Organization:     &OrganizationOverride{CutoffDay: lo.ToPtr(5), MinNoticeDays: lo.ToPtr(14)},
				PropertyTimezone: lo.ToPtr("Europe/Berlin"),
			},
			want: TerminationPolicy{CutoffDay: 5, MinNoticeDays: 14, Timezone: "Europe/Berlin", Source: SourceOrganization},
		},
		{
			name: "organization zone wins over property zone",
			overrides: &Overrides{
				Organization:     &OrganizationOverride{Timezone: lo.ToPtr("CET")},
				PropertyTimezone: lo.ToPtr("UTC"),
			},
			want: TerminationPolicy{CutoffDay: 10, MinNoticeDays: 30, Timezone: "Europe/Warsaw", Source: SourceOrganization},
		},
		{
			name: "invalid organization zone falls through",
			overrides: &Overrides{
				Organization:     &OrganizationOverride{CutoffDay: lo.ToPtr(1), Timezone: lo.ToPtr("Mars/Olympus")},
				PropertyTimezone: lo.ToPtr("UTC"),
			},
			want:    TerminationPolicy{CutoffDay: 1, MinNoticeDays: 30, Timezone: "UTC", Source: SourceOrganization},
			skipped: 1,
		},
		{
			name: "out of range organization values fall back to defaults",
			overrides: &Overrides{
				Organization: &OrganizationOverride{CutoffDay: lo.ToPtr(40), MinNoticeDays: lo.ToPtr(-1)},
			},
			want:    TerminationPolicy{CutoffDay: 10, MinNoticeDays: 30, Timezone: "Europe/Warsaw", Source: SourceOrganization},
			skipped: 2,
		},
		{
			name:      "blank property zone is ignored",
			overrides: &Overrides{PropertyTimezone: lo.ToPtr("  ")},
			want:      TerminationPolicy{CutoffDay: 10, MinNoticeDays: 30, Timezone: "Europe/Warsaw", Source: SourceDefault},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(defaultPolicy, tt.overrides)
			assert.Equal(t, tt.want, res.Policy)
			assert.Len(t, res.Skipped, tt.skipped)
		})
	}
}

func TestExplain(t *testing.T) {
	text := Explain(defaultPolicy)
	assert.Equal(t, text, Explain(defaultPolicy))
	assert.Contains(t, text, "at least 30 days of notice")
	assert.Contains(t, text, "day 10")
	assert.Contains(t, text, "Europe/Warsaw")

	assert.Contains(t, Explain(TerminationPolicy{CutoffDay: 1, MinNoticeDays: 0, Timezone: "UTC"}), "no minimum notice")
	assert.Contains(t, Explain(TerminationPolicy{CutoffDay: 1, MinNoticeDays: 1, Timezone: "UTC"}), "at least 1 day of notice")
}

func TestAnchorDate(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{"utc midnight east of utc", time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), warsaw, time.Date(2025, 4, 29, 22, 0, 0, 0, time.UTC)},
		{"late utc evening rolls into next local day", time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), warsaw, time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)},
		{"dst change day keeps its local midnight", time.Date(2025, 11, 2, 23, 59, 0, 0, newYork), newYork, time.Date(2025, 11, 2, 4, 0, 0, 0, time.UTC)},
		{"utc morning west of utc is the previous local day", time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC), newYork, time.Date(2025, 5, 31, 4, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnchorDate(tt.in, tt.loc))
		})
	}
}
