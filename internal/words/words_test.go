package words

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniverseSortsAndDedups(t *testing.T) {
	u, err := NewUniverse(5, []string{"3-1=2", "1+2=3", "2+1=3", "1+2=3"})
	require.NoError(t, err)

	assert.Equal(t, 5, u.Length())
	assert.Equal(t, 3, u.Len())
	assert.Equal(t, []string{"1+2=3", "2+1=3", "3-1=2"}, u.Words())
	assert.True(t, u.Contains("2+1=3"))
	assert.False(t, u.Contains("2+2=4"))

	i, ok := u.Index("3-1=2")
	require.True(t, ok)
	assert.Equal(t, "3-1=2", u.Word(i))
}

func TestNewUniverseRejectsWrongLength(t *testing.T) {
	_, err := NewUniverse(5, []string{"1+2=3", "10+2=12"})
	assert.ErrorIs(t, err, ErrWordLength)
}

func TestSetOperations(t *testing.T) {
	u, err := NewUniverse(5, []string{"1+2=3", "2+1=3", "3-1=2", "4-1=3"})
	require.NoError(t, err)

	all := u.All()
	assert.Equal(t, 4, all.Len())

	c := all.Clone()
	i, _ := u.Index("2+1=3")
	assert.True(t, c.Remove(i))
	assert.False(t, c.Remove(i))
	assert.False(t, c.Contains("2+1=3"))
	assert.True(t, all.Contains("2+1=3"), "clone must not alias")
	assert.Equal(t, []string{"1+2=3", "3-1=2", "4-1=3"}, c.Words())
	assert.Equal(t, []int{0, 2, 3}, c.Indices())
	assert.False(t, c.Equal(all))

	var seen []string
	c.Each(func(_ int, w string) bool {
		seen = append(seen, w)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"1+2=3", "3-1=2"}, seen)
}

func TestSubset(t *testing.T) {
	u, err := NewUniverse(5, []string{"1+2=3", "2+1=3", "3-1=2"})
	require.NoError(t, err)

	s, err := u.Subset([]string{"3-1=2", "1+2=3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1+2=3", "3-1=2"}, s.Words())
	assert.Same(t, u, s.Universe())

	_, err = u.Subset([]string{"9-9=0"})
	assert.ErrorIs(t, err, ErrUnknownWord)
}

func TestReadLines(t *testing.T) {
	in := "# nerdle pool\n1+2=3\n\n  3-1=2  \n# trailing\n"
	got, err := ReadLines(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"1+2=3", "3-1=2"}, got)

	path := filepath.Join(t.TempDir(), "pool.txt")
	require.NoError(t, os.WriteFile(path, []byte(in), 0o644))
	got, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"1+2=3", "3-1=2"}, got)
}

func TestWriters(t *testing.T) {
	u, err := NewUniverse(5, []string{"3-1=2", "1+2=3"})
	require.NoError(t, err)

	var lines bytes.Buffer
	require.NoError(t, WriteLines(&lines, u))
	assert.Equal(t, "1+2=3\n3-1=2\n", lines.String())

	var table bytes.Buffer
	require.NoError(t, WriteTable(&table, "tables", "Equations5", u))
	out := table.String()
	assert.Contains(t, out, "package tables\n")
	assert.Contains(t, out, "var Equations5 = []string{\n")
	assert.Contains(t, out, "\t\"1+2=3\",\n\t\"3-1=2\",\n}")
}
