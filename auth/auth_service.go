package auth

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-grant-server/clients"
	"github.com/jrsteele09/go-grant-server/grants"
	"github.com/jrsteele09/go-grant-server/internal/config"
	"github.com/jrsteele09/go-grant-server/internal/logging"
	"github.com/jrsteele09/go-grant-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// keySeparator joins the grant key fields so that characters cannot move
// between adjacent fields and still produce the same digest.
const keySeparator = "\x00"

// AuthorizationCode is returned to the resource owner's user agent after
// consent. The code must reach the client but must never be persisted.
type AuthorizationCode struct {
	Code      string
	ExpiresAt time.Time
}

// AccessTokenResult is the outcome of a successful exchange. Token is handed
// to the client once; TokenHash is the form to persist and compare against.
type AccessTokenResult struct {
	Scope     string
	Token     string
	TokenHash string
}

// AuthorizationService issues authorization codes and exchanges them, once,
// for access tokens.
type AuthorizationService struct {
	grants      grants.Store
	random      token.RandomSource
	credentials *clients.CredentialIssuer
	lengths     config.Lengths
	grantTTL    time.Duration
	binding     BindingMode
	metrics     *Metrics
	logger      zerolog.Logger
	nowTime     func() time.Time
}

// AuthorizationServiceOption defines a function type to modify the AuthorizationService instance.
type AuthorizationServiceOption func(*AuthorizationService)

// WithGenerator replaces the crypto/rand backed generator.
func WithGenerator(random token.RandomSource) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.random = random
	}
}

// WithLengths sets the hex digit counts of IDs, secrets, codes and tokens.
// Non-positive fields keep their defaults.
func WithLengths(lengths config.Lengths) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.lengths = lengths.WithDefaults()
	}
}

// WithGrantTTL sets how long an issued code stays redeemable.
func WithGrantTTL(ttl time.Duration) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		if ttl > 0 {
			as.grantTTL = ttl
		}
	}
}

// WithBinding selects the key binding mode. It applies to issuance and
// redemption alike.
func WithBinding(binding BindingMode) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.binding = binding
	}
}

// WithMetrics records issuance and redemption counters.
func WithMetrics(metrics *Metrics) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.metrics = metrics
	}
}

func WithLogger(logger zerolog.Logger) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.nowTime = nowFunc
	}
}

// NewAuthorizationService builds a service over store. Defaults: crypto/rand
// generator, 20/40/20/40 hex digit lengths, 120s grant TTL and secret-bound
// grant keys.
func NewAuthorizationService(store grants.Store, options ...AuthorizationServiceOption) (*AuthorizationService, error) {
	if store == nil {
		return nil, errors.New("[NewAuthorizationService] grant store is required")
	}

	as := &AuthorizationService{
		grants:   store,
		random:   token.NewGenerator(),
		lengths:  config.DefaultLengths(),
		grantTTL: config.DefaultGrantTTL,
		binding:  BindingClientSecret,
		logger:   zerolog.Nop(),
		nowTime:  time.Now,
	}

	for _, opt := range options {
		opt(as)
	}

	as.credentials = clients.NewCredentialIssuer(as.random, as.lengths.ClientID, as.lengths.ClientSecret)
	return as, nil
}

// Binding reports the key binding mode in use.
func (as *AuthorizationService) Binding() BindingMode {
	return as.binding
}

// GrantTTL reports how long issued codes stay redeemable.
func (as *AuthorizationService) GrantTTL() time.Duration {
	return as.grantTTL
}

// CredentialIssuer returns the issuer sized to this service's lengths.
func (as *AuthorizationService) CredentialIssuer() *clients.CredentialIssuer {
	return as.credentials
}

// GenerateClientCredentials mints a client ID and secret sized to the
// configured lengths. Persisting them is the caller's job.
func (as *AuthorizationService) GenerateClientCredentials() (*clients.Credential, error) {
	credential, err := as.credentials.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "[AuthorizationService.GenerateClientCredentials] Generate")
	}
	return credential, nil
}

// IssueAuthorizationCode records a pending grant for scope and returns the
// code that redeems it. The caller must already have authenticated the
// resource owner and obtained consent for scope. In the client-ID binding
// mode clientSecret is ignored.
func (as *AuthorizationService) IssueAuthorizationCode(clientID, clientSecret, scope, state string) (*AuthorizationCode, error) {
	if err := as.validateClient(clientID, clientSecret); err != nil {
		as.metrics.codeRejected(err)
		return nil, err
	}

	code, err := as.random.RandomHexString(as.lengths.Code)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthorizationService.IssueAuthorizationCode] RandomHexString")
	}

	key := as.grantKey(code, state, clientID, clientSecret)
	as.grants.Put(key, scope, as.grantTTL)
	as.metrics.codeIssued()

	as.logger.Debug().
		Str("clientId", clientID).
		Str("key", logging.KeyPrefix(key)).
		Str("binding", as.binding.String()).
		Msg("Authorization code issued")

	return &AuthorizationCode{
		Code:      code,
		ExpiresAt: as.nowTime().Add(as.grantTTL),
	}, nil
}

// IssueAccessToken consumes the grant behind code and returns a new access
// token. Every failure to find a live grant, whatever the cause, is reported
// as ErrInvalidAuthorizationCode. The caller must already have verified the
// client's ID and secret against its registration.
func (as *AuthorizationService) IssueAccessToken(code, state, clientID, clientSecret string) (*AccessTokenResult, error) {
	// Drawn before the grant is taken so an entropy failure leaves the
	// grant redeemable.
	accessToken, err := as.random.RandomHexString(as.lengths.Token)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthorizationService.IssueAccessToken] RandomHexString")
	}

	key := as.grantKey(code, state, clientID, clientSecret)
	grant, ok := as.grants.TakeIfPresent(key)
	if !ok {
		as.metrics.redemptionFailed()
		as.logger.Debug().Str("clientId", clientID).Str("key", logging.KeyPrefix(key)).Msg("Authorization code rejected")
		return nil, errors.WithStack(ErrInvalidAuthorizationCode)
	}

	as.metrics.tokenIssued()
	as.logger.Debug().Str("clientId", clientID).Str("key", logging.KeyPrefix(key)).Msg("Access token issued")

	return &AccessTokenResult{
		Scope:     grant.Scope,
		Token:     accessToken,
		TokenHash: token.Hash(accessToken),
	}, nil
}

func (as *AuthorizationService) validateClient(clientID, clientSecret string) error {
	if len(clientID) < as.lengths.ClientID {
		return errors.Wrapf(ErrInvalidClientID, "[AuthorizationService] client id must be at least %d characters", as.lengths.ClientID)
	}
	if as.binding == BindingClientSecret && len(clientSecret) < as.lengths.ClientSecret {
		return errors.Wrapf(ErrInvalidClientSecret, "[AuthorizationService] client secret must be at least %d characters", as.lengths.ClientSecret)
	}
	return nil
}

// grantKey is the only key derivation; issuance and redemption share it.
func (as *AuthorizationService) grantKey(code, state, clientID, clientSecret string) string {
	parts := []string{code, state, clientID}
	if as.binding == BindingClientSecret {
		parts = append(parts, clientSecret)
	}
	return token.Hash(strings.Join(parts, keySeparator))
}
