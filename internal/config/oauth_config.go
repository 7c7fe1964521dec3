package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	clientIDLengthKey     = "client_id_length"
	clientSecretLengthKey = "client_secret_length"
	codeLengthKey         = "code_length"
	tokenLengthKey        = "token_length"
	grantTTLKey           = "grant_ttl"
	bindingModeKey        = "binding_mode"
)

// Default hex digit counts and grant lifetime.
const (
	DefaultClientIDLength     = 20
	DefaultClientSecretLength = 40
	DefaultCodeLength         = 20
	DefaultTokenLength        = 40
	DefaultGrantTTL           = 120 * time.Second
)

// Binding modes select which client fields participate in the grant key.
const (
	BindingModeClientSecret = "client_secret"
	BindingModeClientID     = "client_id"
)

// Lengths holds the hex digit counts of every generated artifact.
type Lengths struct {
	ClientID     int
	ClientSecret int
	Code         int
	Token        int
}

// DefaultLengths returns ID_LEN=20, SECRET_LEN=40, CODE_LEN=20, TOKEN_LEN=40.
func DefaultLengths() Lengths {
	return Lengths{
		ClientID:     DefaultClientIDLength,
		ClientSecret: DefaultClientSecretLength,
		Code:         DefaultCodeLength,
		Token:        DefaultTokenLength,
	}
}

// WithDefaults replaces every non-positive field with its default.
func (l Lengths) WithDefaults() Lengths {
	d := DefaultLengths()
	if l.ClientID <= 0 {
		l.ClientID = d.ClientID
	}
	if l.ClientSecret <= 0 {
		l.ClientSecret = d.ClientSecret
	}
	if l.Code <= 0 {
		l.Code = d.Code
	}
	if l.Token <= 0 {
		l.Token = d.Token
	}
	return l
}

type OAuthConfig interface {
	GetLengths() Lengths
	GetGrantTTL() time.Duration
	GetBindingMode() string
}

type OAuth struct {
	v *viper.Viper
}

var _ OAuthConfig = OAuth{}

func (o OAuth) GetLengths() Lengths {
	l := Lengths{
		ClientID:     o.v.GetInt(clientIDLengthKey),
		ClientSecret: o.v.GetInt(clientSecretLengthKey),
		Code:         o.v.GetInt(codeLengthKey),
		Token:        o.v.GetInt(tokenLengthKey),
	}
	if withDefaults := l.WithDefaults(); withDefaults != l {
		log.Warn().Interface("configured", l).Interface("using", withDefaults).Msg("Non-positive lengths replaced with defaults")
		return withDefaults
	}
	return l
}

// GetGrantTTL expects a Go duration string such as "2m" or "90s".
func (o OAuth) GetGrantTTL() time.Duration {
	raw := strings.TrimSpace(o.v.GetString(grantTTLKey))
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		log.Warn().Str("grant_ttl", raw).Dur("using", DefaultGrantTTL).Msg("Invalid grant TTL")
		return DefaultGrantTTL
	}
	return ttl
}

func (o OAuth) GetBindingMode() string {
	mode := strings.ToLower(strings.TrimSpace(o.v.GetString(bindingModeKey)))
	switch mode {
	case BindingModeClientSecret, BindingModeClientID:
		return mode
	default:
		log.Warn().Str("binding_mode", mode).Str("using", BindingModeClientSecret).Msg("Unknown binding mode")
		return BindingModeClientSecret
	}
}
