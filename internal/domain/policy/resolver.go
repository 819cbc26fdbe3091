package policy

import (
	"fmt"
	"strings"
	"time"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
)

// Resolution is a resolved policy plus the overrides that were ignored as invalid
type Resolution struct {
	Policy  TerminationPolicy
	Skipped []string
}

// Resolve applies organization override, then property timezone, then defaults.
// Missing overrides fall through silently; invalid ones fall through and are
// reported in Skipped.
func Resolve(defaults TerminationPolicy, overrides *Overrides) Resolution {
	res := Resolution{Policy: defaults}
	res.Policy.Source = SourceDefault
	if overrides == nil {
		return res
	}

	var timezones []string
	if org := overrides.Organization; org.IsSet() {
		res.Policy.Source = SourceOrganization
		if org.CutoffDay != nil {
			if *org.CutoffDay >= 1 && *org.CutoffDay <= 31 {
				res.Policy.CutoffDay = *org.CutoffDay
			} else {
				res.Skipped = append(res.Skipped, fmt.Sprintf("organization cutoff day %d out of range", *org.CutoffDay))
			}
		}
		if org.MinNoticeDays != nil {
			if *org.MinNoticeDays >= 0 {
				res.Policy.MinNoticeDays = *org.MinNoticeDays
			} else {
				res.Skipped = append(res.Skipped, fmt.Sprintf("organization notice days %d negative", *org.MinNoticeDays))
			}
		}
		if org.Timezone != nil {
			timezones = append(timezones, *org.Timezone)
		}
	}
	if overrides.PropertyTimezone != nil {
		timezones = append(timezones, *overrides.PropertyTimezone)
	}

	// the organization's own zone sits first when it is set
	for _, tz := range timezones {
		if strings.TrimSpace(tz) == "" {
			continue
		}
		if err := types.ValidateTimezone(tz); err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("timezone %q: %v", tz, err))
			continue
		}
		res.Policy.Timezone = types.ResolveTimezone(tz)
		if res.Policy.Source == SourceDefault {
			res.Policy.Source = SourceProperty
		}
		break
	}
	return res
}

// ComputeEarliestEnd returns the earliest instant a notice given at now can take
// effect: midnight of the cutoff day in the policy zone, normalised to UTC
func ComputeEarliestEnd(now time.Time, p TerminationPolicy) (time.Time, error) {
	loc, err := p.Location()
	if err != nil {
		return time.Time{}, err
	}
	if p.CutoffDay < 1 || p.CutoffDay > 31 || p.MinNoticeDays < 0 {
		return time.Time{}, ierr.NewErrorf("invalid termination policy cutoff=%d notice=%d", p.CutoffDay, p.MinNoticeDays).
			WithHint("Termination policy is misconfigured").
			Mark(ierr.ErrValidation)
	}

	local := now.In(loc)
	// wall clock arithmetic keeps DST shifts out of the day count
	noticed := time.Date(local.Year(), local.Month(), local.Day()+p.MinNoticeDays, 0, 0, 0, 0, loc)

	year, month := noticed.Year(), noticed.Month()
	if noticed.Day() > p.CutoffDay {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	end := time.Date(year, month, clampDay(year, month, p.CutoffDay), 0, 0, 0, 0, loc)
	return end.UTC(), nil
}

// Explain renders the policy as stable human readable text
func Explain(p TerminationPolicy) string {
	notice := "no minimum notice"
	switch p.MinNoticeDays {
	case 0:
	case 1:
		notice = "at least 1 day of notice"
	default:
		notice = fmt.Sprintf("at least %d days of notice", p.MinNoticeDays)
	}
	return fmt.Sprintf(
		"Terminations require %s and take effect on day %d of a month (%s). "+
			"A notice that does not reach day %d of a month in time moves the end to day %d of the following month; "+
			"in shorter months the last day of the month applies.",
		notice, p.CutoffDay, p.Timezone, p.CutoffDay, p.CutoffDay,
	)
}

// AnchorDate reads the calendar date of t in loc and places it at midnight
// in loc, normalised to UTC
func AnchorDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
}

func clampDay(year int, month time.Month, day int) int {
	last := daysIn(year, month)
	if day > last {
		return last
	}
	return day
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
