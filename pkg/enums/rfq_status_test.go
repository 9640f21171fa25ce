package enums

import "testing"

func TestRFQStatusTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to RFQStatus }{
		{RFQStatusPending, RFQStatusQuoted},
		{RFQStatusPending, RFQStatusExpired},
		{RFQStatusQuoted, RFQStatusAccepted},
		{RFQStatusQuoted, RFQStatusRejected},
		{RFQStatusQuoted, RFQStatusExpired},
		{RFQStatusAccepted, RFQStatusConverted},
		{RFQStatusAccepted, RFQStatusExpired},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to RFQStatus }{
		{RFQStatusPending, RFQStatusAccepted},
		{RFQStatusPending, RFQStatusConverted},
		{RFQStatusRejected, RFQStatusQuoted},
		{RFQStatusExpired, RFQStatusQuoted},
		{RFQStatusConverted, RFQStatusExpired},
		{RFQStatusAccepted, RFQStatusRejected},
	}
	for _, tt := range denied {
		if tt.from.CanTransitionTo(tt.to) {
			t.Fatalf("expected %s -> %s to be rejected", tt.from, tt.to)
		}
	}
}

func TestRFQStatusTerminalStates(t *testing.T) {
	t.Parallel()

	for _, status := range []RFQStatus{RFQStatusRejected, RFQStatusExpired, RFQStatusConverted} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range []RFQStatus{RFQStatusPending, RFQStatusQuoted, RFQStatusAccepted} {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}

func TestQuoteStatusTransitions(t *testing.T) {
	t.Parallel()

	for _, target := range []QuoteStatus{QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusCountered, QuoteStatusExpired} {
		if !QuoteStatusPending.CanTransitionTo(target) {
			t.Fatalf("expected pending -> %s to be allowed", target)
		}
		if !QuoteStatusCountered.CanTransitionTo(target) {
			t.Fatalf("expected countered -> %s to be allowed", target)
		}
	}
	for _, status := range []QuoteStatus{QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	if QuoteStatusCountered.IsTerminal() {
		t.Fatal("countered must allow further negotiation")
	}
	if QuoteStatusAccepted.CanTransitionTo(QuoteStatusRejected) {
		t.Fatal("accepted quotes must not be re-resolved")
	}
}

func TestParseRFQStatus(t *testing.T) {
	t.Parallel()

	if status, err := ParseRFQStatus("quoted"); err != nil || status != RFQStatusQuoted {
		t.Fatalf("expected quoted, got %v (%v)", status, err)
	}
	if _, err := ParseRFQStatus("haggling"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
