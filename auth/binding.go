package auth

import (
	"fmt"

	"github.com/jrsteele09/go-grant-server/internal/config"
)

// BindingMode selects which client fields are folded into the grant key.
type BindingMode int

const (
	// BindingClientSecret binds a code to the client ID and secret, so a code
	// leaked without the secret cannot be redeemed.
	BindingClientSecret BindingMode = iota
	// BindingClientID binds a code to the client ID only.
	BindingClientID
)

func (b BindingMode) String() string {
	switch b {
	case BindingClientSecret:
		return config.BindingModeClientSecret
	case BindingClientID:
		return config.BindingModeClientID
	default:
		return fmt.Sprintf("BindingMode(%d)", int(b))
	}
}

// ParseBindingMode maps a configuration value onto a BindingMode.
func ParseBindingMode(s string) (BindingMode, error) {
	switch s {
	case config.BindingModeClientSecret, "":
		return BindingClientSecret, nil
	case config.BindingModeClientID:
		return BindingClientID, nil
	default:
		return BindingClientSecret, fmt.Errorf("unknown binding mode %q", s)
	}
}
