package clients

import "time"

// Client is a registered OAuth2 client. The secret itself is never stored;
// SecretHash is a bcrypt hash of token.Hash(secret).
type Client struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	SecretHash  string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
