// Package codegen produces random short codes.
// Generators are safe for concurrent use.
package codegen

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// Alphabet is the set of symbols a generated code is drawn from.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the length of a generated code.
	DefaultLength = 7
)

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generator generates short codes.
type Generator interface {
	Generate(length int) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(length int) (string, error)

func (f GeneratorFunc) Generate(length int) (string, error) { return f(length) }

type base62Generator struct{}

// NewBase62 returns a Generator that draws every symbol uniformly from Alphabet
// using crypto/rand.
func NewBase62() Generator {
	return base62Generator{}
}

func (base62Generator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b), nil
}
