// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package joincode

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// Alphabet holds the symbols a join code is drawn from.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Length is the number of symbols in a join code.
	Length = 6

	// bytes at or above this value are discarded so every symbol is equally likely
	maxUnbiased = 256 - 256%len(Alphabet)
)

// Generator produces candidate join codes. Uniqueness is not checked here;
// callers insert and retry on collision.
type Generator interface {
	Generate() (string, error)
}

// GeneratorFunc adapts a plain function to a Generator.
type GeneratorFunc func() (string, error)

func (f GeneratorFunc) Generate() (string, error) {
	return f()
}

// Random draws codes from a cryptographic random source.
type Random struct {
	src io.Reader
}

// NewRandom returns a generator reading from crypto/rand.
func NewRandom() *Random {
	return &Random{src: rand.Reader}
}

// NewRandomFrom returns a generator reading from src.
func NewRandomFrom(src io.Reader) *Random {
	return &Random{src: src}
}

// Generate returns a fresh code of Length symbols from Alphabet.
func (g *Random) Generate() (string, error) {
	code := make([]byte, 0, Length)
	buf := make([]byte, Length*2)

	for len(code) < Length {
		if _, err := io.ReadFull(g.src, buf); err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			code = append(code, Alphabet[int(b)%len(Alphabet)])
			if len(code) == Length {
				break
			}
		}
	}

	return string(code), nil
}

// Valid reports whether code has the shape of a join code. Matching is
// case-sensitive: lowercase letters are never valid.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}
