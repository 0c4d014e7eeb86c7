package keygen

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRandomString_Length(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		alphabet string
		n        int
	}{
		{"password", Alphanumeric, 16},
		{"storage postfix", LowerAlphanumeric, 8},
		{"empty", Alphanumeric, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := RandomString(tt.alphabet, tt.n)
			if err != nil {
				t.Fatalf("RandomString(%d) failed: %v", tt.n, err)
			}
			if len(s) != tt.n {
				t.Errorf("expected length %d, got %d", tt.n, len(s))
			}
			for _, r := range s {
				if !strings.ContainsRune(tt.alphabet, r) {
					t.Errorf("character %q not in alphabet", r)
				}
			}
		})
	}
}

func TestRandomString_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := RandomString("", 4); !errors.Is(err, ErrEmptyAlphabet) {
		t.Errorf("expected ErrEmptyAlphabet, got %v", err)
	}
	if _, err := RandomString(Alphanumeric, -1); err == nil {
		t.Error("negative length should fail")
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()
	seed := bytes.Repeat([]byte{0x00}, 64)

	a, err := New(bytes.NewReader(seed)).String("ab", 8)
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	b, err := New(bytes.NewReader(seed)).String("ab", 8)
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	if a != b {
		t.Errorf("same entropy should give same output: %q != %q", a, b)
	}
}

func TestGenerator_ShortEntropy(t *testing.T) {
	t.Parallel()

	_, err := New(bytes.NewReader(nil)).String(Alphanumeric, 4)
	if err == nil {
		t.Error("exhausted entropy source should fail")
	}
}

func TestRandomString_Uniqueness(t *testing.T) {
	t.Parallel()
	first, err := RandomString(Alphanumeric, 16)
	if err != nil {
		t.Fatalf("first RandomString failed: %v", err)
	}
	second, err := RandomString(Alphanumeric, 16)
	if err != nil {
		t.Fatalf("second RandomString failed: %v", err)
	}
	if first == second {
		t.Error("two generated secrets should differ")
	}
}
