package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero should be nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("ptr = %v", p)
	}
}

func TestMillisRoundTrip(t *testing.T) {
	t.Parallel()

	in := time.Date(2014, 1, 1, 10, 0, 0, 123_000_000, time.UTC)
	if got := FromMillis(Millis(in)); !got.Equal(in) {
		t.Fatalf("round trip = %v want %v", got, in)
	}
	if Millis(time.Time{}) != 0 || !FromMillis(0).IsZero() {
		t.Fatalf("zero handling wrong")
	}
	if MillisPtr(nil) != nil {
		t.Fatalf("nil ptr should map to nil")
	}
	if MillisPtr(&in) != in.UnixMilli() {
		t.Fatalf("ptr millis wrong")
	}
}
