package policy

import (
	"testing"
	"time"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckProposedEnd(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	earliest, err := ComputeEarliestEnd(now, defaultPolicy)
	require.NoError(t, err)

	t.Run("earlier date is a violation with guidance", func(t *testing.T) {
		_, err := CheckProposedEnd(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), earliest, defaultPolicy)
		require.Error(t, err)
		assert.True(t, ierr.IsPolicyViolation(err))

		violation, ok := AsViolation(err)
		require.True(t, ok)

		again, err2 := ComputeEarliestEnd(now, defaultPolicy)
		require.NoError(t, err2)
		assert.Equal(t, again, violation.EarliestEnd)
		assert.Equal(t, Explain(defaultPolicy), violation.Explanation)

		assert.Contains(t, ierr.GetHint(err), "2025-03-10")
		details := ierr.GetReportableDetails(err)
		assert.Equal(t, "2025-03-10", details["earliest_end_day"])
	})

	t.Run("earliest date itself is accepted", func(t *testing.T) {
		end, err := CheckProposedEnd(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), earliest, defaultPolicy)
		require.NoError(t, err)
		assert.Equal(t, earliest, end)
	})

	t.Run("earliest instant fed back is accepted", func(t *testing.T) {
		// 2025-03-09T23:00Z is 2025-03-10 in Warsaw
		require.Equal(t, time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), earliest)
		end, err := CheckProposedEnd(earliest, earliest, defaultPolicy)
		require.NoError(t, err)
		assert.Equal(t, earliest, end)
	})

	t.Run("date is read in the policy zone", func(t *testing.T) {
		// 23:30 Warsaw on Mar 9 is still the day before the earliest end
		_, err := CheckProposedEnd(time.Date(2025, 3, 9, 22, 30, 0, 0, time.UTC), earliest, defaultPolicy)
		require.Error(t, err)
		assert.True(t, ierr.IsPolicyViolation(err))

		violation, ok := AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, "proposed end 2025-03-09 is before earliest allowed end 2025-03-10", violation.Error())
	})

	t.Run("later date is kept, not clamped", func(t *testing.T) {
		end, err := CheckProposedEnd(time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), earliest, defaultPolicy)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 4, 29, 22, 0, 0, 0, time.UTC), end)
	})

	t.Run("other errors are not violations", func(t *testing.T) {
		_, ok := AsViolation(ierr.NewError("boom").Mark(ierr.ErrInternal))
		assert.False(t, ok)
	})
}
