package booking

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/pkordes/bnb/internal/domain"
)

// Request fields a rejection can be attached to.
const (
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
)

// Rejection messages. These strings are part of the API contract; clients
// match on them verbatim.
const (
	MsgEndNotAfterStart = "endDate cannot be on or before startDate"
	MsgStartConflict    = "Start date conflicts with an existing booking"
	MsgEndConflict      = "End date conflicts with an existing booking"
	MsgStartInPast      = "startDate cannot be in the past"
)

// Kind classifies a verdict.
type Kind int

const (
	KindAccepted Kind = iota
	KindStructural
	KindConflict
	KindTemporal
)

func (k Kind) String() string {
	switch k {
	case KindAccepted:
		return "accepted"
	case KindStructural:
		return "structural"
	case KindConflict:
		return "conflict"
	case KindTemporal:
		return "temporal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Verdict is the outcome of Check. Reasons is empty when Kind is KindAccepted
// and otherwise maps FieldStartDate and/or FieldEndDate to a message.
type Verdict struct {
	Kind    Kind
	Reasons map[string]string
}

// Accepted reports whether the candidate may be reserved.
func (v Verdict) Accepted() bool { return v.Kind == KindAccepted }

// Err returns nil for an accepted verdict and a *RejectedError otherwise.
func (v Verdict) Err() error {
	if v.Accepted() {
		return nil
	}
	return &RejectedError{Kind: v.Kind, Reasons: maps.Clone(v.Reasons)}
}

// RejectedError carries a rejected verdict through the service layer.
// It matches domain.ErrConflict for overlaps and domain.ErrValidation for
// structural and temporal rejections.
type RejectedError struct {
	Kind    Kind
	Reasons map[string]string
}

func (e *RejectedError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Reasons))
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Reasons[f])
	}
	return fmt.Sprintf("booking rejected (%s): %s", e.Kind, strings.Join(parts, "; "))
}

func (e *RejectedError) Unwrap() error {
	if e.Kind == KindConflict {
		return domain.ErrConflict
	}
	return domain.ErrValidation
}

// Check decides whether candidate may be reserved given the reservations
// already held on the same spot. existing must not contain the reservation
// being edited. now is compared at day granularity.
//
// Rules are evaluated in order and the first failing category wins:
// structural validity, overlap with existing reservations, then start date
// in the past.
func Check(candidate Interval, existing []Interval, now time.Time) Verdict {
	if !candidate.Start.Before(candidate.End) {
		return reject(KindStructural, map[string]string{FieldEndDate: MsgEndNotAfterStart})
	}

	var startHit, endHit bool
	for _, e := range existing {
		s, en := overlap(candidate, e)
		startHit = startHit || s
		endHit = endHit || en
		if startHit && endHit {
			break
		}
	}
	if startHit || endHit {
		reasons := make(map[string]string, 2)
		if startHit {
			reasons[FieldStartDate] = MsgStartConflict
		}
		if endHit {
			reasons[FieldEndDate] = MsgEndConflict
		}
		return reject(KindConflict, reasons)
	}

	// The key is endDate on purpose; existing clients read it from there.
	if candidate.Start.Before(Day(now)) {
		return reject(KindTemporal, map[string]string{FieldEndDate: MsgStartInPast})
	}

	return Verdict{Kind: KindAccepted}
}

// overlap evaluates the four overlap predicates of c against one existing
// reservation e and reports which candidate fields they implicate.
//
// A shared boundary implicates only the field that touches. An existing
// bound strictly inside the candidate, or a candidate nested inside an
// existing stay, shares nights with the whole requested range and
// implicates both fields.
func overlap(c, e Interval) (start, end bool) {
	if e.touches(c.End) {
		end = true
	}
	if e.touches(c.Start) {
		start = true
	}
	if c.strictlyInside(e.End) || c.strictlyInside(e.Start) {
		return true, true
	}
	if e.Start.Before(c.Start) && e.End.After(c.End) {
		return true, true
	}
	return start, end
}

func reject(k Kind, reasons map[string]string) Verdict {
	return Verdict{Kind: k, Reasons: reasons}
}
