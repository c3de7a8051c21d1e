package config

import (
	"testing"
	"time"
)

func TestGetenvDurationsDefault(t *testing.T) {
	def := []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond}

	got := getenvDurations("MAIL_RETRY_DELAYS_UNSET", def)
	if len(got) != 2 || got[0] != 500*time.Millisecond || got[1] != 1500*time.Millisecond {
		t.Fatalf("expected default schedule, got %v", got)
	}
}

func TestGetenvDurationsParsesList(t *testing.T) {
	t.Setenv("TEST_RETRY_DELAYS", "250ms, 1s ,2s")

	got := getenvDurations("TEST_RETRY_DELAYS", nil)
	want := []time.Duration{250 * time.Millisecond, time.Second, 2 * time.Second}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestGetenvDurationsRejectsMalformedList(t *testing.T) {
	t.Setenv("TEST_RETRY_DELAYS", "500ms,banana")

	def := []time.Duration{time.Second}
	got := getenvDurations("TEST_RETRY_DELAYS", def)
	if len(got) != 1 || got[0] != time.Second {
		t.Fatalf("expected fallback to default on malformed entry, got %v", got)
	}
}

func TestNormalizeProvider(t *testing.T) {
	if normalizeProvider(" Resend ") != ProviderResend {
		t.Fatalf("expected resend")
	}
	if normalizeProvider("sendgrid") != ProviderNoop {
		t.Fatalf("unknown providers fall back to noop")
	}
}
