package utils

import (
	"context"
	"errors"
	"testing"

	"cinema-reservation/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a random source that replays idx values in order.
func sequence(idx ...int) func(int) (int, error) {
	i := 0
	return func(int) (int, error) {
		v := idx[i%len(idx)]
		i++
		return v, nil
	}
}

func TestIsConfirmationCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"CINE-7K2PQ", true},
		{"CINE-00000", true},
		{"CINE-ZZZZZ", true},
		{"CINE-7k2pq", false},
		{"CINE-7K2P", false},
		{"CINE-7K2PQX", false},
		{"BOOK-7K2PQ", false},
		{"CINE_7K2PQ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConfirmationCode(tt.code))
		})
	}
}

func TestCodeGenerator_Format(t *testing.T) {
	gen := NewCodeGenerator(10)
	seen := make(map[string]struct{})

	for i := 0; i < 200; i++ {
		code, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
			return false, nil
		})
		require.NoError(t, err)
		assert.Regexp(t, `^CINE-[A-Z0-9]{5}$`, code)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 190, "codes should be spread over the alphabet")
}

func TestCodeGenerator_RetriesOnCollision(t *testing.T) {
	// first draw is CINE-AAAAA (taken), second CINE-BBBBB
	gen := NewCodeGenerator(10).WithRandom(sequence(0, 0, 0, 0, 0, 1, 1, 1, 1, 1))

	var lookups []string
	code, err := gen.Generate(context.Background(), func(_ context.Context, c string) (bool, error) {
		lookups = append(lookups, c)
		return c == "CINE-AAAAA", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "CINE-BBBBB", code)
	assert.Equal(t, []string{"CINE-AAAAA", "CINE-BBBBB"}, lookups)
}

func TestCodeGenerator_Exhausted(t *testing.T) {
	gen := NewCodeGenerator(3)

	calls := 0
	_, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrCodeSpaceExhausted)
	assert.Equal(t, 3, calls)
}

func TestCodeGenerator_LookupError(t *testing.T) {
	gen := NewCodeGenerator(5)
	boom := errors.New("connection reset")

	_, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestCodeGenerator_RandomSourceError(t *testing.T) {
	gen := NewCodeGenerator(5).WithRandom(func(int) (int, error) {
		return 0, errors.New("entropy unavailable")
	})

	_, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
		t.Fatal("lookup must not run without a candidate")
		return false, nil
	})

	assert.ErrorContains(t, err, "entropy unavailable")
}
