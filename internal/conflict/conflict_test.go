package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustConflict(t *testing.T, text string) *Conflict {
	t.Helper()
	sections, err := Parse("f", text)
	require.NoError(t, err)
	cs := Conflicts(sections)
	require.Len(t, cs, 1)
	return cs[0].Conflict
}

// ---------------------------------------------------------------------------
// Side derivations
// ---------------------------------------------------------------------------

func TestSide_ResolveDiff(t *testing.T) {
	s := &Side{Kind: SideDiff, Lines: []string{"+a", "-b", " c"}}
	s.Resolve()
	assert.Equal(t, []string{"a", "c"}, s.ContentLines())
	assert.Equal(t, []string{"b", "c"}, s.BaseLines())

	// Idempotent.
	s.Resolve()
	assert.Equal(t, []string{"a", "c"}, s.ContentLines())
	assert.Equal(t, []string{"b", "c"}, s.BaseLines())
}

func TestSide_LiteralHasNoBase(t *testing.T) {
	s := &Side{Kind: SideLiteral, Lines: []string{"+a", "b"}}
	assert.Equal(t, []string{"+a", "b"}, s.ContentLines())
	assert.Nil(t, s.BaseLines())
}

func TestConflict_BaseContent(t *testing.T) {
	c := mustConflict(t, "<<<<<<< Conflict 1 of 1\n+++++++\nx\n+++++++\ny\n>>>>>>> Conflict 1 of 1 ends\n")
	_, ok := c.BaseContent()
	assert.False(t, ok, "all-literal conflicts have no base")
	assert.Equal(t, []string{"x\n"}, c.BaseOrFirstSide())

	_, err := c.Side(2)
	assert.Error(t, err)
	assert.Nil(t, c.SideContent(-1))
}

// ---------------------------------------------------------------------------
// Squeeze
// ---------------------------------------------------------------------------

func TestSqueezed_CommonAffixes(t *testing.T) {
	c := mustConflict(t, twoWay)
	want := "<<<<<<< Conflict 1 of 1\n" +
		"%%%%%%% Changes from base to side #1\n" +
		"-\told()\n" +
		"+\tnewA()\n" +
		"+++++++ Contents of side #2\n" +
		"\tnewB()\n" +
		">>>>>>> Conflict 1 of 1 ends\n" +
		"\tcommon()\n"
	assert.Equal(t, want, c.Squeezed())
}

func TestSqueezed_CommonPrefix(t *testing.T) {
	c := mustConflict(t, "<<<<<<< Conflict 1 of 1\n+++++++ a\nhead\nx\n+++++++ b\nhead\ny\n>>>>>>> Conflict 1 of 1 ends\n")
	want := "head\n" +
		"<<<<<<< Conflict 1 of 1\n+++++++ a\nx\n+++++++ b\ny\n>>>>>>> Conflict 1 of 1 ends\n"
	assert.Equal(t, want, c.Squeezed())
}

func TestSqueezed_IdenticalSides(t *testing.T) {
	c := mustConflict(t, "<<<<<<< Conflict 1 of 1\n+++++++\nx\ny\n+++++++\nx\ny\n>>>>>>> Conflict 1 of 1 ends\n")
	assert.Equal(t, "x\ny\n", c.Squeezed())
}

func TestSqueezed_NoCommonLinesIsVerbatim(t *testing.T) {
	text := "<<<<<<< Conflict 1 of 1\n+++++++\nx\n+++++++\ny\n>>>>>>> Conflict 1 of 1 ends\n"
	c := mustConflict(t, text)
	assert.Equal(t, text, c.Squeezed())
}

func TestSqueezed_MoreThanTwoSidesIsVerbatim(t *testing.T) {
	text := "<<<<<<< Conflict 1 of 1\n+++++++\nx\n+++++++\nx\n+++++++\nx\n>>>>>>> Conflict 1 of 1 ends\n"
	c := mustConflict(t, text)
	assert.Equal(t, text, c.Squeezed())
}

func TestSqueezed_Pure(t *testing.T) {
	c := mustConflict(t, twoWay)
	first := c.Squeezed()
	assert.Equal(t, first, c.Squeezed())
	assert.Equal(t, twoWay[len("func a() {\n"):len(twoWay)-len("}\n")], c.Text())
}

func TestRenderSqueezed(t *testing.T) {
	text := "a\n<<<<<<< Conflict 1 of 1\n+++++++\nx\n+++++++\nx\n>>>>>>> Conflict 1 of 1 ends\nb\n"
	sections, err := Parse("f", text)
	require.NoError(t, err)
	assert.Equal(t, "a\nx\nb\n", RenderSqueezed(sections))
}

// ---------------------------------------------------------------------------
// Resolution state
// ---------------------------------------------------------------------------

func TestConflictSection_ResolveAndRestore(t *testing.T) {
	cs := NewConflictSection(mustConflict(t, twoWay))
	require.Len(t, cs.Probabilities, StrategyCount(2))
	before := append([]float64(nil), cs.Probabilities...)

	cs.MarkResolved(2, "x")
	assert.True(t, cs.Resolved)
	assert.Equal(t, 2, cs.Strategy)
	assert.Equal(t, []float64{0, 0, 1, 0, 0}, cs.Probabilities)

	cs.Unresolve()
	assert.False(t, cs.Resolved)
	assert.Equal(t, 0, cs.Strategy)
	assert.Equal(t, before, cs.Probabilities)
}

// ---------------------------------------------------------------------------
// Markers and lines
// ---------------------------------------------------------------------------

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a\n", "b\r\n", "c\r", "d"}, SplitLines("a\nb\r\nc\rd"))
	assert.Nil(t, SplitLines(""))
}

func TestContainsConflict(t *testing.T) {
	assert.True(t, ContainsConflict(twoWay))
	assert.False(t, ContainsConflict("<<<<<<< HEAD\nx\n=======\ny\n>>>>>>> b\n"))
	assert.False(t, ContainsConflict("plain"))
}

func TestRange(t *testing.T) {
	r := LineRange(2, 5)
	assert.True(t, r.Contains(LineRange(3, 4)))
	assert.False(t, r.Contains(LineRange(1, 4)))
	assert.Equal(t, LineRange(4, 7), r.Shift(2))
}

func TestConflict_RelocateAndShift(t *testing.T) {
	c := mustConflict(t, twoWay)
	want := c.Range
	sideStart := c.Sides[0].Range.Start.Line

	c.Shift(3)
	assert.Equal(t, want.Start.Line+3, c.Range.Start.Line)
	assert.Equal(t, want.End.Line+3, c.Range.End.Line)
	assert.Equal(t, sideStart+3, c.Sides[0].Range.Start.Line)

	c.Relocate(want.Start.Line)
	assert.Equal(t, want, c.Range)
	assert.Equal(t, sideStart, c.Sides[0].Range.Start.Line)
}
