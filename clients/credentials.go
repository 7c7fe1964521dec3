package clients

import (
	"github.com/jrsteele09/go-grant-server/internal/config"
	"github.com/jrsteele09/go-grant-server/token"
	"github.com/pkg/errors"
)

// Default credential sizes in hex digits, like GitHub OAuth2 clients.
const (
	IDLength     = config.DefaultClientIDLength
	SecretLength = config.DefaultClientSecretLength
)

// Credential is a client ID and secret pair. The caller owns persistence.
type Credential struct {
	ID     string `json:"client_id"`
	Secret string `json:"client_secret"`
}

// CredentialIssuer splits one random draw into an ID and a secret.
type CredentialIssuer struct {
	random       token.RandomSource
	idLength     int
	secretLength int
}

// NewCredentialIssuer returns an issuer producing IDs of idLength and secrets
// of secretLength hex digits. Non-positive lengths use the defaults.
func NewCredentialIssuer(random token.RandomSource, idLength, secretLength int) *CredentialIssuer {
	if random == nil {
		random = token.NewGenerator()
	}
	if idLength <= 0 {
		idLength = IDLength
	}
	if secretLength <= 0 {
		secretLength = SecretLength
	}
	return &CredentialIssuer{
		random:       random,
		idLength:     idLength,
		secretLength: secretLength,
	}
}

// Generate draws idLength+secretLength hex digits once; the ID is the
// leading part and the secret the remainder, so the two never overlap.
func (ci *CredentialIssuer) Generate() (*Credential, error) {
	raw, err := ci.random.RandomHexString(ci.idLength + ci.secretLength)
	if err != nil {
		return nil, errors.Wrap(err, "[CredentialIssuer.Generate] RandomHexString")
	}
	return &Credential{
		ID:     raw[:ci.idLength],
		Secret: raw[ci.idLength:],
	}, nil
}

// GenerateCredentials issues a 20 digit ID and 40 digit secret.
func GenerateCredentials(random token.RandomSource) (*Credential, error) {
	return NewCredentialIssuer(random, IDLength, SecretLength).Generate()
}
