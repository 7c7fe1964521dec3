package token

import "time"

// IssuedToken is the durable record of an access token. Only the hash of the
// token is kept; the raw value is handed to the client once and forgotten.
type IssuedToken struct {
	Hash     string    // token.Hash of the access token
	ClientID string    // Client the token was issued to
	Scope    string    // Scope granted at authorization time
	IssuedAt time.Time // When the exchange happened
}

// Repo stores issued token records keyed by token hash.
type Repo interface {
	Upsert(issued *IssuedToken) error
	Get(hash string) (*IssuedToken, error)
	Delete(hash string) error
	List(offset, limit int) ([]*IssuedToken, error)
}
