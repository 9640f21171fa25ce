package rfq

import (
	"testing"
	"time"
)

func TestMeetsMOQ(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		quantity int
		moq      int
		want     bool
	}{
		{"below", 5, 10, false},
		{"equal", 10, 10, true},
		{"above", 11, 10, true},
		{"moq of one", 1, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MeetsMOQ(tc.quantity, tc.moq); got != tc.want {
				t.Fatalf("MeetsMOQ(%d, %d) = %v, want %v", tc.quantity, tc.moq, got, tc.want)
			}
		})
	}
}

func TestValidPrice(t *testing.T) {
	t.Parallel()

	if ValidPrice(0) {
		t.Fatal("zero price should be invalid")
	}
	if ValidPrice(-100) {
		t.Fatal("negative price should be invalid")
	}
	if !ValidPrice(1) {
		t.Fatal("one cent should be valid")
	}
}

func TestExpiryFrom(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	if got := ExpiryFrom(now, 7); !got.Equal(now.AddDate(0, 0, 7)) {
		t.Fatalf("expected now+7d, got %v", got)
	}
	// Zero and negative day counts fall back to the default window.
	if got := ExpiryFrom(now, 0); !got.Equal(now.AddDate(0, 0, DefaultExpiryDays)) {
		t.Fatalf("expected default window, got %v", got)
	}
	if got := ExpiryFrom(now, -3); !got.Equal(now.AddDate(0, 0, DefaultExpiryDays)) {
		t.Fatalf("expected default window for negative days, got %v", got)
	}
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	if IsExpired(now, ExpiryFrom(now, 30)) {
		t.Fatal("a freshly derived deadline must not be expired")
	}
	if !IsExpired(now, now.Add(-time.Minute)) {
		t.Fatal("a past deadline must be expired")
	}
	if IsExpired(now, now.Add(time.Minute)) {
		t.Fatal("a future deadline must not be expired")
	}
}

func TestIsExpiredTextual(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	if !IsExpired(now, "2026-01-01T00:00:00Z") {
		t.Fatal("past RFC3339 string must be expired")
	}
	if IsExpired(now, "2026-03-01T00:00:00Z") {
		t.Fatal("future RFC3339 string must not be expired")
	}
	if IsExpired(now, "not-a-date") {
		t.Fatal("unparseable string must not be treated as expired")
	}
}

func TestIsExpiredEdgeInputs(t *testing.T) {
	t.Parallel()

	now := time.Now()

	if IsExpired(now, time.Time{}) {
		t.Fatal("zero time must not be expired")
	}
	if IsExpired(now, nil) {
		t.Fatal("nil must not be expired")
	}
	past := now.Add(-time.Hour)
	if !IsExpired(now, &past) {
		t.Fatal("pointer to past time must be expired")
	}
	var nilTime *time.Time
	if IsExpired(now, nilTime) {
		t.Fatal("nil *time.Time must not be expired")
	}
}
