package config

import "github.com/spf13/viper"

const consentAPIKeyKey = "consent_api_key"

type SecurityConfig interface {
	// GetConsentAPIKey is the shared key the consent front end presents when
	// it asks for codes or client registrations. Empty disables those routes.
	GetConsentAPIKey() string
}

type Security struct {
	v *viper.Viper
}

var _ SecurityConfig = Security{}

func (s Security) GetConsentAPIKey() string {
	return s.v.GetString(consentAPIKeyKey)
}
