package equation

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle/internal/arith"
)

func TestValidFragment(t *testing.T) {
	valid := []string{"1", "1+2", "10-4", "48-32", "9/3*10", "100", "20*30"}
	invalid := []string{"", "01", "1+02", "+1", "1+", "1+-2", "1**2", "00", "-3", "5/",
		"0", "0*5", "9/3*0", "9-0", "1+0+2"}
	for _, s := range valid {
		assert.True(t, ValidFragment(s), "%q should be valid", s)
	}
	for _, s := range invalid {
		assert.False(t, ValidFragment(s), "%q should be invalid", s)
	}
}

func TestWalkerIsFiniteAndRestartable(t *testing.T) {
	w := NewWalker(2)
	var first []string
	for s, ok := w.Next(); ok; s, ok = w.Next() {
		first = append(first, s)
	}
	// two-symbol fragments must be two digits without a leading zero
	assert.Len(t, first, 90)
	assert.Equal(t, uint64(14*14), w.Advanced())

	_, ok := w.Next()
	assert.False(t, ok, "exhausted walker stays exhausted")

	w.Reset()
	var second []string
	for s, ok := w.Next(); ok; s, ok = w.Next() {
		second = append(second, s)
	}
	assert.Equal(t, first, second)
}

func TestWalkerCoversEveryFragmentOnce(t *testing.T) {
	seen := map[string]int{}
	w := NewWalker(3)
	for s, ok := w.Next(); ok; s, ok = w.Next() {
		seen[s]++
		assert.True(t, ValidFragment(s))
	}
	for s, n := range seen {
		assert.Equal(t, 1, n, s)
	}
	assert.Contains(t, seen, "1+2")
	assert.Contains(t, seen, "100")
	assert.NotContains(t, seen, "0*5")
	assert.NotContains(t, seen, "9-0")
	assert.NotContains(t, seen, "1+0+")
}

func TestEnumerateLengthFive(t *testing.T) {
	var advanced atomic.Int64
	u, err := Enumerate(context.Background(), 5, Options{Workers: 3, Progress: func(n int64) { advanced.Add(n) }})
	require.NoError(t, err)

	assert.True(t, u.Contains("1+2=3"))
	assert.True(t, u.Contains("10=10"))
	assert.True(t, u.Contains("5-5=0"), "zero is a legal right-hand value")
	assert.False(t, u.Contains("0*5=0"), "lone zero operand")
	assert.False(t, u.Contains("0*0=0"), "lone zero operand")
	assert.False(t, u.Contains("9-0=9"), "lone zero operand")
	assert.False(t, u.Contains("01+2=3"), "leading zero")
	assert.False(t, u.Contains("1+-2=1"), "double sign")
	assert.False(t, u.Contains("1/0=0"), "division by zero")
	assert.False(t, u.Contains("2-5=-3"), "negative right-hand side")
	assert.False(t, u.Contains("7/2=3"), "fractional value")
	assert.Equal(t, SearchSpace(5), advanced.Load())

	for _, eq := range u.Words() {
		require.Len(t, eq, 5)
		lhs, rhs, ok := strings.Cut(eq, "=")
		require.True(t, ok, eq)
		assert.True(t, ValidFragment(lhs), eq)
		ok, err := arith.Check(eq)
		require.NoError(t, err, eq)
		assert.True(t, ok, eq)
		assert.False(t, len(rhs) > 1 && rhs[0] == '0', eq)
	}
}

func TestWalkerSingleSymbol(t *testing.T) {
	var got []string
	w := NewWalker(1)
	for s, ok := w.Next(); ok; s, ok = w.Next() {
		got = append(got, s)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, got)
}

func TestEnumerateHasNoZeroOperands(t *testing.T) {
	u, err := Enumerate(context.Background(), 7, Options{Workers: 4})
	require.NoError(t, err)
	for _, eq := range u.Words() {
		lhs, _, _ := strings.Cut(eq, "=")
		atStart := true
		for i := 0; i < len(lhs); i++ {
			c := lhs[i]
			require.False(t, atStart && c == '0', "%s has an operand starting with 0", eq)
			atStart = strings.IndexByte("+-*/", c) >= 0
		}
	}
	assert.True(t, u.Contains("12+3=15"))
	assert.False(t, u.Contains("0*0*0=0"))
	assert.False(t, u.Contains("0*1=0"))
}

func TestEnumerateIsDeterministic(t *testing.T) {
	a, err := Enumerate(context.Background(), 6, Options{Workers: 1})
	require.NoError(t, err)
	b, err := Enumerate(context.Background(), 6, Options{Workers: 7})
	require.NoError(t, err)
	assert.Equal(t, a.Words(), b.Words())
	assert.True(t, a.Contains("48/8=6"))
	assert.True(t, a.Contains("9*9=81"))
}

func TestEnumerateRejectsLength(t *testing.T) {
	_, err := Enumerate(context.Background(), 2, Options{})
	assert.ErrorIs(t, err, ErrLength)
	_, err = Enumerate(context.Background(), MaxLength+1, Options{})
	assert.ErrorIs(t, err, ErrLength)
}

func TestEnumerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Enumerate(ctx, 7, Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchSpace(t *testing.T) {
	// lhs widths 3, 2, 1
	assert.Equal(t, int64(14*14*14+14*14+14), SearchSpace(5))
	assert.Equal(t, int64(14), SearchSpace(3))
}
