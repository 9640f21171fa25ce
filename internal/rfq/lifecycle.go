// Package rfq implements the request-for-quote negotiation: pure lifecycle
// predicates, the service coordinating RFQ and quote state transitions, and
// the sweep that expires stale negotiations.
package rfq

import "time"

// DefaultExpiryDays is applied when an RFQ or quote is created without an
// explicit deadline.
const DefaultExpiryDays = 30

// MeetsMOQ reports whether the requested quantity satisfies the supplier's
// minimum order quantity.
func MeetsMOQ(quantity, moq int) bool {
	return quantity >= moq
}

// ValidPrice reports whether a proposed unit price is positive.
func ValidPrice(priceCents int) bool {
	return priceCents > 0
}

// ExpiryFrom derives a deadline of now plus the given number of days.
// Non-positive days fall back to DefaultExpiryDays.
func ExpiryFrom(now time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultExpiryDays
	}
	return now.AddDate(0, 0, days)
}

// IsExpired reports whether the deadline has passed. The deadline may be a
// time.Time or its RFC3339 textual form; unparseable or absent values are
// treated as not expired so a bad timestamp never force-expires a live
// negotiation.
func IsExpired(now time.Time, expiresAt any) bool {
	switch v := expiresAt.(type) {
	case time.Time:
		return !v.IsZero() && now.After(v)
	case *time.Time:
		if v == nil {
			return false
		}
		return !v.IsZero() && now.After(*v)
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return false
		}
		return now.After(parsed)
	default:
		return false
	}
}
