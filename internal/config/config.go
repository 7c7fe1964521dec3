package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Security
}

// New loads configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables take precedence over the file.
func New() Config {
	return FromViper(Load())
}

// FromViper builds a Config over an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return mainConfig{
		EnvVars:  EnvVars{v: v},
		Cors:     Cors{v: v},
		OAuth:    OAuth{v: v},
		Security: Security{v: v},
	}
}

// Load returns a viper instance with defaults registered and environment
// lookup enabled.
func Load() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString(configFileKey); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Failed to read config file, using environment and defaults")
		}
	}
	return v
}

// SetDefaults registers every known key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(portKey, defaultPort)
	v.SetDefault(appNameKey, defaultAppName)
	v.SetDefault(envKey, defaultEnv)
	v.SetDefault(logLevelKey, defaultLogLevel)
	v.SetDefault(allowedOriginsKey, "")
	v.SetDefault(clientIDLengthKey, DefaultClientIDLength)
	v.SetDefault(clientSecretLengthKey, DefaultClientSecretLength)
	v.SetDefault(codeLengthKey, DefaultCodeLength)
	v.SetDefault(tokenLengthKey, DefaultTokenLength)
	v.SetDefault(grantTTLKey, DefaultGrantTTL.String())
	v.SetDefault(bindingModeKey, BindingModeClientSecret)
	v.SetDefault(consentAPIKeyKey, "")
}
