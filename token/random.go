package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	apperrors "github.com/jrsteele09/go-grant-server/internal/errors"
	"github.com/pkg/errors"
)

// RandomSource produces random lowercase hex strings of an exact length.
type RandomSource interface {
	RandomHexString(length int) (string, error)
}

// Generator draws hex strings from a cryptographically secure entropy source.
type Generator struct {
	entropy io.Reader
}

var _ RandomSource = (*Generator)(nil)

// GeneratorOption defines a function type to modify the Generator instance.
type GeneratorOption func(*Generator)

// WithEntropySource replaces crypto/rand.Reader. Only tests should need this.
func WithEntropySource(r io.Reader) GeneratorOption {
	return func(g *Generator) {
		g.entropy = r
	}
}

// NewGenerator returns a Generator reading from crypto/rand.Reader unless
// overridden by options.
func NewGenerator(options ...GeneratorOption) *Generator {
	g := &Generator{entropy: rand.Reader}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// RandomHexString returns exactly length lowercase hex characters. It reads
// ceil(length/2) bytes and truncates the encoding, so an odd length discards
// the final nibble. A failing entropy source is reported as
// ErrRandomnessUnavailable; there is no weaker fallback.
func (g *Generator) RandomHexString(length int) (string, error) {
	if length < 0 {
		return "", errors.Wrapf(apperrors.ErrInvalidLength, "[Generator.RandomHexString] length %d", length)
	}
	if length == 0 {
		return "", nil
	}

	buf := make([]byte, (length+1)/2)
	if _, err := io.ReadFull(g.entropy, buf); err != nil {
		return "", fmt.Errorf("[Generator.RandomHexString] %w: %w", apperrors.ErrRandomnessUnavailable, err)
	}
	return hex.EncodeToString(buf)[:length], nil
}

var defaultGenerator = NewGenerator()

// RandomHexString draws from the process-wide crypto/rand backed generator.
func RandomHexString(length int) (string, error) {
	return defaultGenerator.RandomHexString(length)
}
