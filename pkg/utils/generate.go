package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"cinema-reservation/pkg/apperror"
)

// ==================== CONFIRMATION CODE ====================

const (
	ConfirmationCodePrefix = "CINE-"

	confirmationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	confirmationCodeLength   = 5
)

var confirmationCodePattern = regexp.MustCompile(`^CINE-[A-Z0-9]{5}$`)

func IsConfirmationCode(code string) bool {
	return confirmationCodePattern.MatchString(code)
}

// CodeExistsFunc reports whether a reservation already holds code.
type CodeExistsFunc func(ctx context.Context, code string) (bool, error)

// CodeGenerator draws CINE-XXXXX codes until one is not taken.
// The unique index on reservations stays the authoritative guarantee.
type CodeGenerator struct {
	maxAttempts int
	intn        func(n int) (int, error)
}

func NewCodeGenerator(maxAttempts int) *CodeGenerator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &CodeGenerator{maxAttempts: maxAttempts, intn: cryptoIntn}
}

// WithRandom replaces the random source, intn must return a value in [0, n).
func (g *CodeGenerator) WithRandom(intn func(n int) (int, error)) *CodeGenerator {
	return &CodeGenerator{maxAttempts: g.maxAttempts, intn: intn}
}

func (g *CodeGenerator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate issues one lookup per attempt and returns the first free candidate.
func (g *CodeGenerator) Generate(ctx context.Context, exists CodeExistsFunc) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code, err := g.randomCode()
		if err != nil {
			return "", fmt.Errorf("draw confirmation code: %w", err)
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check confirmation code %s: %w", code, err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", apperror.ErrCodeSpaceExhausted, g.maxAttempts)
}

func (g *CodeGenerator) randomCode() (string, error) {
	var sb strings.Builder
	sb.Grow(len(ConfirmationCodePrefix) + confirmationCodeLength)
	sb.WriteString(ConfirmationCodePrefix)

	for i := 0; i < confirmationCodeLength; i++ {
		idx, err := g.intn(len(confirmationCodeAlphabet))
		if err != nil {
			return "", err
		}
		sb.WriteByte(confirmationCodeAlphabet[idx])
	}

	return sb.String(), nil
}

func cryptoIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
