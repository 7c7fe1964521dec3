package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileKey = "config_file"
	portKey       = "port"
	appNameKey    = "app_name"
	envKey        = "env"
	logLevelKey   = "log_level"

	defaultPort     = "8080"
	defaultAppName  = "Go Grant Server"
	defaultEnv      = "DEV"
	defaultLogLevel = "info"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := strings.TrimSpace(e.v.GetString(portKey))
	if port == "" {
		port = defaultPort
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameKey)
}

func (e EnvVars) GetEnv() string {
	env := strings.ToUpper(strings.TrimSpace(e.v.GetString(envKey)))
	if env == "" {
		return defaultEnv
	}
	return env
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(strings.TrimSpace(e.v.GetString(logLevelKey)))
}
