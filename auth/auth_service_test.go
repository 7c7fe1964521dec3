package auth_test

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-grant-server/auth"
	"github.com/jrsteele09/go-grant-server/grants"
	"github.com/jrsteele09/go-grant-server/internal/config"
	"github.com/jrsteele09/go-grant-server/token"
	"github.com/stretchr/testify/require"
)

var (
	testClientID     = strings.Repeat("a", 20)
	testClientSecret = strings.Repeat("b", 40)
)

const (
	testScope = "read"
	testState = "xyz"
)

// switchableSource fails on demand so tests can simulate an exhausted
// entropy pool between two calls.
type switchableSource struct {
	fail atomic.Bool
}

func (s *switchableSource) RandomHexString(length int) (string, error) {
	if s.fail.Load() {
		return token.NewGenerator(token.WithEntropySource(failingReader{})).RandomHexString(length)
	}
	return token.RandomHexString(length)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, store grants.Store, options ...auth.AuthorizationServiceOption) *auth.AuthorizationService {
	t.Helper()

	if store == nil {
		memoryStore := grants.NewMemoryStore()
		t.Cleanup(func() { _ = memoryStore.Close() })
		store = memoryStore
	}
	service, err := auth.NewAuthorizationService(store, options...)
	require.NoError(t, err)
	return service
}

func TestNewAuthorizationService_MissingStore(t *testing.T) {
	_, err := auth.NewAuthorizationService(nil)
	require.Error(t, err)
}

func TestNewAuthorizationService_Defaults(t *testing.T) {
	service := newTestService(t, nil)
	require.Equal(t, auth.BindingClientSecret, service.Binding())
	require.Equal(t, config.DefaultGrantTTL, service.GrantTTL())
}

func TestIssue_ClientIDBindingScenario(t *testing.T) {
	service := newTestService(t, nil, auth.WithBinding(auth.BindingClientID))

	code, err := service.IssueAuthorizationCode(testClientID, "", testScope, testState)
	require.NoError(t, err)
	require.Len(t, code.Code, config.DefaultCodeLength)

	result, err := service.IssueAccessToken(code.Code, testState, testClientID, "")
	require.NoError(t, err)
	require.Equal(t, testScope, result.Scope)
	require.Len(t, result.Token, config.DefaultTokenLength)
	require.Equal(t, token.Hash(result.Token), result.TokenHash)

	_, err = service.IssueAccessToken(code.Code, testState, testClientID, "")
	require.ErrorIs(t, err, auth.ErrInvalidAuthorizationCode)
}

func TestIssue_ClientSecretBinding(t *testing.T) {
	service := newTestService(t, nil)

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)

	result, err := service.IssueAccessToken(code.Code, testState, testClientID, testClientSecret)
	require.NoError(t, err)
	require.Equal(t, testScope, result.Scope)
}

func TestIssueAuthorizationCode_ShortClientID(t *testing.T) {
	service := newTestService(t, nil)

	code, err := service.IssueAuthorizationCode("short", testClientSecret, testScope, testState)
	require.Nil(t, code)
	require.ErrorIs(t, err, auth.ErrInvalidClientID)
}

func TestIssueAuthorizationCode_ShortSecret(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.IssueAuthorizationCode(testClientID, "", testScope, testState)
	require.ErrorIs(t, err, auth.ErrInvalidClientSecret)
}

func TestIssueAuthorizationCode_SecretIgnoredInClientIDMode(t *testing.T) {
	service := newTestService(t, nil, auth.WithBinding(auth.BindingClientID))

	_, err := service.IssueAuthorizationCode(testClientID, "tiny", testScope, testState)
	require.NoError(t, err)
}

func TestIssueAuthorizationCode_LongerValuesAccepted(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.IssueAuthorizationCode(testClientID+"extra", testClientSecret+"extra", testScope, testState)
	require.NoError(t, err)
}

func TestIssueAuthorizationCode_ExpiresAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(t, nil,
		auth.WithGrantTTL(30*time.Second),
		auth.WithNowTime(func() time.Time { return now }),
	)

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)
	require.Equal(t, now.Add(30*time.Second), code.ExpiresAt)
}

func TestIssueAuthorizationCode_CustomLengths(t *testing.T) {
	service := newTestService(t, nil, auth.WithLengths(config.Lengths{ClientID: 4, ClientSecret: 8, Code: 12, Token: 16}))

	code, err := service.IssueAuthorizationCode("abcd", "abcdefgh", testScope, testState)
	require.NoError(t, err)
	require.Len(t, code.Code, 12)

	result, err := service.IssueAccessToken(code.Code, testState, "abcd", "abcdefgh")
	require.NoError(t, err)
	require.Len(t, result.Token, 16)
}

func TestIssueAccessToken_Mismatches(t *testing.T) {
	otherClient := strings.Repeat("c", 20)
	otherSecret := strings.Repeat("d", 40)

	cases := []struct {
		name                   string
		code, state, id, secret func(code string) string
	}{
		{name: "wrong state", state: func(string) string { return "abc" }},
		{name: "empty state", state: func(string) string { return "" }},
		{name: "wrong client", id: func(string) string { return otherClient }},
		{name: "wrong secret", secret: func(string) string { return otherSecret }},
		{name: "unknown code", code: func(string) string { return strings.Repeat("0", 20) }},
		{name: "truncated code", code: func(c string) string { return c[:19] }},
	}

	pick := func(f func(string) string, code, fallback string) string {
		if f == nil {
			return fallback
		}
		return f(code)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := newTestService(t, nil)
			code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
			require.NoError(t, err)

			_, err = service.IssueAccessToken(
				pick(tc.code, code.Code, code.Code),
				pick(tc.state, code.Code, testState),
				pick(tc.id, code.Code, testClientID),
				pick(tc.secret, code.Code, testClientSecret),
			)
			require.ErrorIs(t, err, auth.ErrInvalidAuthorizationCode)

			// A failed attempt does not consume the grant.
			_, err = service.IssueAccessToken(code.Code, testState, testClientID, testClientSecret)
			require.NoError(t, err)
		})
	}
}

func TestIssueAccessToken_SecretIgnoredInClientIDMode(t *testing.T) {
	service := newTestService(t, nil, auth.WithBinding(auth.BindingClientID))

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)

	_, err = service.IssueAccessToken(code.Code, testState, testClientID, "something else")
	require.NoError(t, err)
}

func TestIssueAccessToken_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := grants.NewMemoryStore(grants.WithNowTime(clock.Now))
	defer store.Close()
	service := newTestService(t, store, auth.WithGrantTTL(time.Minute), auth.WithNowTime(clock.Now))

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)

	clock.Advance(time.Minute + time.Second)

	_, err = service.IssueAccessToken(code.Code, testState, testClientID, testClientSecret)
	require.ErrorIs(t, err, auth.ErrInvalidAuthorizationCode)
}

func TestIssueAccessToken_ExpiredByTimer(t *testing.T) {
	store := grants.NewMemoryStore()
	defer store.Close()
	service := newTestService(t, store, auth.WithGrantTTL(10*time.Millisecond))

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 5*time.Millisecond)

	_, err = service.IssueAccessToken(code.Code, testState, testClientID, testClientSecret)
	require.ErrorIs(t, err, auth.ErrInvalidAuthorizationCode)
}

func TestIssueAuthorizationCode_RandomnessUnavailable(t *testing.T) {
	source := &switchableSource{}
	source.fail.Store(true)
	store := grants.NewMemoryStore()
	defer store.Close()
	service := newTestService(t, store, auth.WithGenerator(source))

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.Nil(t, code)
	require.ErrorIs(t, err, auth.ErrRandomnessUnavailable)
	require.Zero(t, store.Len())
}

func TestIssueAccessToken_RandomnessUnavailableKeepsGrant(t *testing.T) {
	source := &switchableSource{}
	service := newTestService(t, nil, auth.WithGenerator(source))

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)

	source.fail.Store(true)
	_, err = service.IssueAccessToken(code.Code, testState, testClientID, testClientSecret)
	require.ErrorIs(t, err, auth.ErrRandomnessUnavailable)

	source.fail.Store(false)
	result, err := service.IssueAccessToken(code.Code, testState, testClientID, testClientSecret)
	require.NoError(t, err)
	require.Equal(t, testScope, result.Scope)
}

func TestIssueAccessToken_ConcurrentRedemption(t *testing.T) {
	service := newTestService(t, nil)

	code, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)

	var (
		wins atomic.Int32
		wg   sync.WaitGroup
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.IssueAccessToken(code.Code, testState, testClientID, testClientSecret); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), wins.Load())
}

func TestIssueAuthorizationCode_Distinct(t *testing.T) {
	service := newTestService(t, nil)

	a, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)
	b, err := service.IssueAuthorizationCode(testClientID, testClientSecret, testScope, testState)
	require.NoError(t, err)
	require.NotEqual(t, a.Code, b.Code)

	first, err := service.IssueAccessToken(a.Code, testState, testClientID, testClientSecret)
	require.NoError(t, err)
	second, err := service.IssueAccessToken(b.Code, testState, testClientID, testClientSecret)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)
}

func TestGenerateClientCredentials(t *testing.T) {
	service := newTestService(t, nil, auth.WithLengths(config.Lengths{ClientID: 10, ClientSecret: 30}))

	credential, err := service.GenerateClientCredentials()
	require.NoError(t, err)
	require.Len(t, credential.ID, 10)
	require.Len(t, credential.Secret, 30)
}

func TestParseBindingMode(t *testing.T) {
	mode, err := auth.ParseBindingMode("")
	require.NoError(t, err)
	require.Equal(t, auth.BindingClientSecret, mode)

	mode, err = auth.ParseBindingMode(config.BindingModeClientID)
	require.NoError(t, err)
	require.Equal(t, auth.BindingClientID, mode)
	require.Equal(t, config.BindingModeClientID, mode.String())

	_, err = auth.ParseBindingMode("tenant")
	require.Error(t, err)
}
