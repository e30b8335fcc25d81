package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyContent(t *testing.T) {
	entries, err := Parse("")
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParse_SkipsCommentsAndBlankLines(t *testing.T) {
	content := "#Minecraft server properties\n\nmotd=Hello=World\n! legacy comment\nmax-players = 10\n"
	entries, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "motd", Value: "Hello=World"},
		{Key: "max-players", Value: "10"},
	}, entries)
}

func TestParse_RejectsLineWithoutSeparator(t *testing.T) {
	_, err := Parse("motd=ok\nbroken\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParse_EmptyValueAllowed(t *testing.T) {
	entries, err := Parse("level-seed=\n")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "level-seed", Value: ""}}, entries)
}

func TestFormat(t *testing.T) {
	got := Format([]Entry{{Key: "a", Value: "1"}, {Key: "b", Value: ""}})
	assert.Equal(t, "a=1\nb=\n", got)
}

func TestPatch_NoUpdates(t *testing.T) {
	assert.Equal(t, "a=1\n", Patch("a=1\n", nil))
}

func TestPatch_ReplacesInPlaceAndAppends(t *testing.T) {
	got := Patch("a=1\nb=2\n", []Entry{{Key: "b", Value: "3"}, {Key: "c", Value: "4"}})
	assert.Equal(t, "a=1\nb=3\nc=4\n", got)
}

func TestPatch_DropsLaterDuplicates(t *testing.T) {
	got := Patch("a=1\nb=2\na=9\n", []Entry{{Key: "a", Value: "5"}})
	assert.Equal(t, "a=5\nb=2\n", got)
}

func TestPatch_LastUpdateWins(t *testing.T) {
	got := Patch("", []Entry{{Key: "pvp", Value: "true"}, {Key: "pvp", Value: "false"}})
	assert.Equal(t, "pvp=false\n", got)
}

func TestPatch_KeepsComments(t *testing.T) {
	got := Patch("# header\na=1\n", []Entry{{Key: "a", Value: "2"}})
	assert.Equal(t, "# header\na=2\n", got)
}

func TestLookup(t *testing.T) {
	entries := []Entry{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}}
	value, ok := Lookup(entries, "a")
	assert.True(t, ok)
	assert.Equal(t, "2", value)

	_, ok = Lookup(entries, "b")
	assert.False(t, ok)
}
