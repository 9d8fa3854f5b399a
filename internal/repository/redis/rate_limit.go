package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

// ThrottleConfig controls key layout and retention for throttle
// entries. Retention is keyed by rule name (the segment before the
// first colon of an identifier, e.g. auth_login_ip); rules without an
// entry fall back to Default.
type ThrottleConfig struct {
	KeyPrefix string
	Default   time.Duration
	Rules     map[string]time.Duration
}

// ThrottleStore persists login, registration, and password-reset
// attempts in Redis sorted sets scored by attempt time.
type ThrottleStore struct {
	client *redis.Client
	cfg    ThrottleConfig
}

// NewThrottleStore constructs a store over the provided Redis client.
func NewThrottleStore(client *redis.Client, cfg ThrottleConfig) *ThrottleStore {
	return &ThrottleStore{client: client, cfg: cfg}
}

// RecordAttempt appends an attempt for the identifier and refreshes the
// key's retention. Members carry a random suffix so attempts landing on
// the same nanosecond are counted separately.
func (s *ThrottleStore) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	nanos := at.UnixNano()
	member := redis.Z{Score: float64(nanos), Member: throttleMember(nanos)}

	key := s.key(identifier)
	if err := s.client.ZAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	if retention := s.retentionFor(identifier); retention > 0 {
		if err := s.client.Expire(ctx, key, retention).Err(); err != nil {
			return fmt.Errorf("refresh retention: %w", err)
		}
	}

	return nil
}

// CountAttempts returns how many attempts fall inside the window ending
// at the reference time, boundaries inclusive.
func (s *ThrottleStore) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}

	count, err := s.client.ZCount(ctx, s.key(identifier),
		strconv.FormatInt(reference.Add(-window).UnixNano(), 10),
		strconv.FormatInt(reference.UnixNano(), 10),
	).Result()
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}

	return int(count), nil
}

// TrimWindow drops attempts that fell out of the window. The boundary
// itself is kept so trim and count agree on edge attempts.
func (s *ThrottleStore) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	if window <= 0 {
		return errors.New("window must be positive")
	}

	threshold := fmt.Sprintf("(%d", reference.Add(-window).UnixNano())
	if err := s.client.ZRemRangeByScore(ctx, s.key(identifier), "-inf", threshold).Err(); err != nil {
		return fmt.Errorf("trim window: %w", err)
	}

	return nil
}

// OldestAttempt returns the earliest attempt remaining inside the
// active window, used to compute when the window reopens.
func (s *ThrottleStore) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	if window <= 0 {
		return time.Time{}, false, errors.New("window must be positive")
	}

	members, err := s.client.ZRangeByScore(ctx, s.key(identifier), &redis.ZRangeBy{
		Min:   strconv.FormatInt(reference.Add(-window).UnixNano(), 10),
		Max:   strconv.FormatInt(reference.UnixNano(), 10),
		Count: 1,
	}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("oldest attempt: %w", err)
	}

	if len(members) == 0 {
		return time.Time{}, false, nil
	}

	at, err := throttleMemberTime(members[0])
	if err != nil {
		return time.Time{}, false, err
	}

	return at, true, nil
}

func (s *ThrottleStore) key(identifier string) string {
	if s.cfg.KeyPrefix == "" {
		return identifier
	}
	return s.cfg.KeyPrefix + ":" + identifier
}

func (s *ThrottleStore) retentionFor(identifier string) time.Duration {
	if rule, _, ok := strings.Cut(identifier, ":"); ok {
		if retention, ok := s.cfg.Rules[rule]; ok {
			return retention
		}
	}
	return s.cfg.Default
}

func throttleMember(nanos int64) string {
	return strconv.FormatInt(nanos, 10) + ":" + uuid.NewString()
}

func throttleMemberTime(member string) (time.Time, error) {
	raw, _, _ := strings.Cut(member, ":")
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse attempt member %q: %w", member, err)
	}
	return time.Unix(0, nanos), nil
}

var _ port.RateLimitStore = (*ThrottleStore)(nil)
