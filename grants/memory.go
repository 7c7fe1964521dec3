package grants

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-grant-server/internal/logging"
	"github.com/rs/zerolog"
)

type entry struct {
	grant Grant
	timer *time.Timer
}

// MemoryStore is a Store backed by a map guarded by a single mutex. Every
// entry owns a timer that evicts it at expiry; TakeIfPresent also checks the
// expiry time itself, so a timer that has not fired yet never lets a stale
// grant through.
type MemoryStore struct {
	mu     sync.Mutex
	grants map[string]*entry
	closed bool

	redeemed    uint64
	expired     uint64
	overwritten uint64

	nowTime  func() time.Time
	onExpire func(key string)
	logger   zerolog.Logger
}

var _ Store = (*MemoryStore)(nil)

// MemoryStoreOption configures a MemoryStore instance.
type MemoryStoreOption func(*MemoryStore)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.nowTime = nowFunc
	}
}

// WithExpiryHook registers a function called once for every grant that is
// dropped because its TTL elapsed. It runs outside the store lock.
func WithExpiryHook(hook func(key string)) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.onExpire = hook
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore returns an empty store. Call Close to stop pending timers.
func NewMemoryStore(options ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		grants:  make(map[string]*entry),
		nowTime: time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Put(key, scope string, ttl time.Duration) {
	now := s.nowTime()
	e := &entry{grant: Grant{
		Scope:     scope,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if prev, ok := s.grants[key]; ok {
		prev.timer.Stop()
		s.overwritten++
		s.logger.Warn().Str("key", logging.KeyPrefix(key)).Msg("Grant overwritten before redemption")
	}
	s.grants[key] = e
	// The callback blocks on s.mu, so it cannot run before e.timer is set.
	e.timer = time.AfterFunc(ttl, func() { s.expire(key, e) })

	s.logger.Debug().Str("key", logging.KeyPrefix(key)).Time("expiresAt", e.grant.ExpiresAt).Msg("Grant stored")
}

func (s *MemoryStore) TakeIfPresent(key string) (*Grant, bool) {
	s.mu.Lock()
	e, ok := s.grants[key]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	delete(s.grants, key)
	e.timer.Stop()

	if !s.nowTime().Before(e.grant.ExpiresAt) {
		s.expired++
		hook := s.onExpire
		s.mu.Unlock()

		s.logger.Debug().Str("key", logging.KeyPrefix(key)).Msg("Grant expired at redemption")
		if hook != nil {
			hook(key)
		}
		return nil, false
	}

	s.redeemed++
	grant := e.grant
	s.mu.Unlock()

	s.logger.Debug().Str("key", logging.KeyPrefix(key)).Msg("Grant redeemed")
	return &grant, true
}

// expire is the timer callback. It only removes e if e is still the entry at
// key; a redeemed or replaced grant makes it a no-op.
func (s *MemoryStore) expire(key string, e *entry) {
	s.mu.Lock()
	current, ok := s.grants[key]
	if !ok || current != e {
		s.mu.Unlock()
		return
	}
	delete(s.grants, key)
	s.expired++
	hook := s.onExpire
	s.mu.Unlock()

	s.logger.Debug().Str("key", logging.KeyPrefix(key)).Msg("Grant expired")
	if hook != nil {
		hook(key)
	}
}

// Len returns the number of pending grants.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grants)
}

func (s *MemoryStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Pending:     len(s.grants),
		Redeemed:    s.redeemed,
		Expired:     s.expired,
		Overwritten: s.overwritten,
	}
}

// Close stops every timer and drops all pending grants. The store stays
// usable afterwards but ignores Put and reports every key as absent.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.grants {
		e.timer.Stop()
		delete(s.grants, key)
	}
	s.closed = true
	return nil
}
