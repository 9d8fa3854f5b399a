package redis

import (
	"strings"
	"testing"
	"time"
)

func TestThrottleStoreKeyLayout(t *testing.T) {
	store := NewThrottleStore(nil, ThrottleConfig{KeyPrefix: "accounts:rate_limit"})

	if got := store.key("auth_login_ip:192.0.2.1"); got != "accounts:rate_limit:auth_login_ip:192.0.2.1" {
		t.Fatalf("unexpected key %q", got)
	}

	bare := NewThrottleStore(nil, ThrottleConfig{})
	if got := bare.key("register_ip:192.0.2.1"); got != "register_ip:192.0.2.1" {
		t.Fatalf("unexpected unprefixed key %q", got)
	}
}

func TestThrottleStoreRetentionPerRule(t *testing.T) {
	store := NewThrottleStore(nil, ThrottleConfig{
		Default: 2 * time.Minute,
		Rules: map[string]time.Duration{
			"password_reset_ip": 2 * time.Hour,
		},
	})

	if got := store.retentionFor("password_reset_ip:192.0.2.1"); got != 2*time.Hour {
		t.Fatalf("expected reset retention 2h, got %v", got)
	}
	if got := store.retentionFor("auth_login_ip:192.0.2.1"); got != 2*time.Minute {
		t.Fatalf("expected default retention 2m, got %v", got)
	}
	if got := store.retentionFor("no-rule-segment"); got != 2*time.Minute {
		t.Fatalf("expected default retention for bare identifier, got %v", got)
	}
}

func TestThrottleMemberRoundTrip(t *testing.T) {
	at := time.Date(2026, 4, 2, 12, 30, 0, 123456789, time.UTC)

	member := throttleMember(at.UnixNano())
	parsed, err := throttleMemberTime(member)
	if err != nil {
		t.Fatalf("parse member: %v", err)
	}
	if !parsed.Equal(at) {
		t.Fatalf("expected %v, got %v", at, parsed)
	}

	other := throttleMember(at.UnixNano())
	if member == other {
		t.Fatal("expected distinct members for the same instant")
	}
	if !strings.Contains(member, ":") {
		t.Fatalf("member %q missing suffix separator", member)
	}
}

func TestThrottleMemberTimeRejectsGarbage(t *testing.T) {
	if _, err := throttleMemberTime("not-a-number:suffix"); err == nil {
		t.Fatal("expected error for malformed member")
	}
}
