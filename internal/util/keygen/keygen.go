package keygen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// Alphanumeric is the mixed-case letter and digit alphabet.
const Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// LowerAlphanumeric is the lowercase letter and digit alphabet.
const LowerAlphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// ErrEmptyAlphabet is returned when there is nothing to draw from.
var ErrEmptyAlphabet = errors.New("alphabet is empty")

// Generator draws random strings from an entropy source.
type Generator struct {
	reader io.Reader
}

// New returns a Generator reading from r. A nil r selects crypto/rand.
func New(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{reader: r}
}

// String returns n characters drawn uniformly from alphabet.
func (g *Generator) String(alphabet string, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("invalid length %d", n)
	}
	symbols := []rune(alphabet)
	if len(symbols) == 0 {
		return "", ErrEmptyAlphabet
	}

	max := big.NewInt(int64(len(symbols)))
	out := make([]rune, n)
	for i := range out {
		idx, err := rand.Int(g.reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random data: %w", err)
		}
		out[i] = symbols[idx.Int64()]
	}
	return string(out), nil
}

// RandomString draws n characters from alphabet using crypto/rand.
func RandomString(alphabet string, n int) (string, error) {
	return New(nil).String(alphabet, n)
}
