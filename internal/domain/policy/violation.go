package policy

import (
	"fmt"
	"time"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/cockroachdb/errors"
)

// ViolationError carries the guidance a caller needs after proposing a
// termination date the policy does not allow
type ViolationError struct {
	ProposedEnd time.Time         `json:"proposed_end"`
	EarliestEnd time.Time         `json:"earliest_end"`
	Explanation string            `json:"explanation"`
	Policy      TerminationPolicy `json:"policy"`
}

func (e *ViolationError) Error() string {
	loc, err := e.Policy.Location()
	if err != nil {
		loc = time.UTC
	}
	return fmt.Sprintf("proposed end %s is before earliest allowed end %s",
		e.ProposedEnd.In(loc).Format(time.DateOnly), e.EarliestEnd.In(loc).Format(time.DateOnly))
}

// CheckProposedEnd compares the calendar date of proposed, read in the policy zone,
// with earliest. It returns the anchored proposed end, or a policy violation.
func CheckProposedEnd(proposed, earliest time.Time, p TerminationPolicy) (time.Time, error) {
	loc, err := p.Location()
	if err != nil {
		return time.Time{}, err
	}

	anchored := AnchorDate(proposed, loc)
	if !anchored.Before(earliest) {
		return anchored, nil
	}

	violation := &ViolationError{
		ProposedEnd: anchored,
		EarliestEnd: earliest,
		Explanation: Explain(p),
		Policy:      p,
	}
	earliestLocal := earliest.In(loc).Format(time.DateOnly)
	return time.Time{}, ierr.WithError(violation).
		WithHintf("The earliest possible termination date is %s. %s", earliestLocal, violation.Explanation).
		WithReportableDetails(map[string]interface{}{
			"earliest_end":     earliest,
			"earliest_end_day": earliestLocal,
			"proposed_end":     anchored,
			"explanation":      violation.Explanation,
		}).
		Mark(ierr.ErrPolicyViolation)
}

// AsViolation extracts the violation guidance from an error chain
func AsViolation(err error) (*ViolationError, bool) {
	var violation *ViolationError
	if errors.As(err, &violation) {
		return violation, true
	}
	return nil, false
}
