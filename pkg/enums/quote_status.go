package enums

import "fmt"

// QuoteStatus models a single supplier offer attached to an RFQ.
//
// pending -> accepted | rejected | countered | expired
// countered -> accepted | rejected | countered | expired
//
// countered loops on itself so both sides can keep revising the price; each
// round is recorded as a quote revision.
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusCountered QuoteStatus = "countered"
	QuoteStatusExpired   QuoteStatus = "expired"
)

var validQuoteStatuses = []QuoteStatus{
	QuoteStatusPending,
	QuoteStatusAccepted,
	QuoteStatusRejected,
	QuoteStatusCountered,
	QuoteStatusExpired,
}

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusPending:   {QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusCountered, QuoteStatusExpired},
	QuoteStatusCountered: {QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusCountered, QuoteStatusExpired},
}

// String implements fmt.Stringer.
func (s QuoteStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known QuoteStatus.
func (s QuoteStatus) IsValid() bool {
	for _, candidate := range validQuoteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s QuoteStatus) IsTerminal() bool {
	return len(quoteTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to target is a legal step.
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	for _, candidate := range quoteTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseQuoteStatus converts raw input into a QuoteStatus.
func ParseQuoteStatus(value string) (QuoteStatus, error) {
	for _, candidate := range validQuoteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote status %q", value)
}
