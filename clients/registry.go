package clients

import (
	"time"

	apperrors "github.com/jrsteele09/go-grant-server/internal/errors"
	"github.com/jrsteele09/go-grant-server/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Registry issues client credentials and verifies presented pairs against
// the stored hashes.
type Registry struct {
	repo       Repo
	issuer     *CredentialIssuer
	bcryptCost int
	nowTime    func() time.Time
}

// RegistryOption defines a function type to modify the Registry instance.
type RegistryOption func(*Registry)

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) RegistryOption {
	return func(r *Registry) {
		r.bcryptCost = cost
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowTime = nowFunc
	}
}

func NewRegistry(repo Repo, issuer *CredentialIssuer, options ...RegistryOption) (*Registry, error) {
	if repo == nil {
		return nil, errors.New("[NewRegistry] client repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewRegistry] credential issuer is required")
	}
	r := &Registry{
		repo:       repo,
		issuer:     issuer,
		bcryptCost: bcrypt.DefaultCost,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Register issues a new credential pair and stores the client. The returned
// secret is the only copy; it cannot be recovered later.
func (r *Registry) Register(description string) (*Credential, error) {
	credential, err := r.issuer.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "[Registry.Register] issuer.Generate")
	}

	secretHash, err := r.hashSecret(credential.Secret)
	if err != nil {
		return nil, errors.Wrap(err, "[Registry.Register] hashSecret")
	}

	if err := r.repo.Upsert(&Client{
		ID:          credential.ID,
		Description: description,
		SecretHash:  secretHash,
		CreatedAt:   r.nowTime(),
	}); err != nil {
		return nil, errors.Wrap(err, "[Registry.Register] repo.Upsert")
	}
	return credential, nil
}

// Verify checks a presented ID and secret. Unknown clients and wrong secrets
// both report ErrInvalidClient.
func (r *Registry) Verify(clientID, secret string) (*Client, error) {
	client, err := r.repo.Get(clientID)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidClient, "[Registry.Verify] unknown client")
	}
	// Secrets are pre-hashed so bcrypt's 72 byte input limit never truncates.
	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(token.Hash(secret))); err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidClient, "[Registry.Verify] secret mismatch")
	}
	return client, nil
}

// Lookup returns the registered client or ErrInvalidClient.
func (r *Registry) Lookup(clientID string) (*Client, error) {
	client, err := r.repo.Get(clientID)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidClient, "[Registry.Lookup] unknown client")
	}
	return client, nil
}

// Revoke removes a client registration.
func (r *Registry) Revoke(clientID string) error {
	if err := r.repo.Delete(clientID); err != nil {
		return errors.Wrap(err, "[Registry.Revoke] repo.Delete")
	}
	return nil
}

func (r *Registry) hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token.Hash(secret)), r.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
