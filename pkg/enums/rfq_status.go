package enums

import "fmt"

// RFQStatus models the negotiation lifecycle of a request for quote.
//
// pending -> quoted -> accepted -> converted
// quoted  -> rejected
// any non-terminal state may move to expired once the deadline passes.
type RFQStatus string

const (
	RFQStatusPending   RFQStatus = "pending"
	RFQStatusQuoted    RFQStatus = "quoted"
	RFQStatusAccepted  RFQStatus = "accepted"
	RFQStatusRejected  RFQStatus = "rejected"
	RFQStatusExpired   RFQStatus = "expired"
	RFQStatusConverted RFQStatus = "converted"
)

var validRFQStatuses = []RFQStatus{
	RFQStatusPending,
	RFQStatusQuoted,
	RFQStatusAccepted,
	RFQStatusRejected,
	RFQStatusExpired,
	RFQStatusConverted,
}

var rfqTransitions = map[RFQStatus][]RFQStatus{
	RFQStatusPending:  {RFQStatusQuoted, RFQStatusExpired},
	RFQStatusQuoted:   {RFQStatusAccepted, RFQStatusRejected, RFQStatusExpired},
	RFQStatusAccepted: {RFQStatusConverted, RFQStatusExpired},
}

// String implements fmt.Stringer.
func (s RFQStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RFQStatus.
func (s RFQStatus) IsValid() bool {
	for _, candidate := range validRFQStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s RFQStatus) IsTerminal() bool {
	return len(rfqTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to target is a legal step.
func (s RFQStatus) CanTransitionTo(target RFQStatus) bool {
	for _, candidate := range rfqTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseRFQStatus converts raw input into an RFQStatus.
func ParseRFQStatus(value string) (RFQStatus, error) {
	for _, candidate := range validRFQStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rfq status %q", value)
}
