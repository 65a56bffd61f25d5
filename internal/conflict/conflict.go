package conflict

import (
	"fmt"
	"strings"
)

// Position is a zero-based line/character location in a file.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is an inclusive span of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineRange returns a range covering whole lines start..end.
func LineRange(start, end int) Range {
	return Range{Start: Position{Line: start}, End: Position{Line: end}}
}

// Contains reports whether other lies entirely within r, comparing lines only.
func (r Range) Contains(other Range) bool {
	return r.Start.Line <= other.Start.Line && other.End.Line <= r.End.Line
}

// Shift moves the range by delta lines.
func (r Range) Shift(delta int) Range {
	r.Start.Line += delta
	r.End.Line += delta
	return r
}

// String renders the range as one-based "(start-end)" lines.
func (r Range) String() string {
	return fmt.Sprintf("(%d-%d)", r.Start.Line+1, r.End.Line+1)
}

// Conflict is one jj conflict marker block.
type Conflict struct {
	// Path identifies the file the conflict was parsed from.
	Path string `json:"path"`

	// Number and Total are the "Conflict N of M" values of the start marker.
	Number int `json:"number"`
	Total  int `json:"total"`

	// StartTrailer and EndTrailer hold the text following the start and end
	// markers, verbatim.
	StartTrailer string `json:"startTrailer"`
	EndTrailer   string `json:"endTrailer"`

	Sides []*Side `json:"sides"`
	Range Range   `json:"range"`

	startEOL string
	endEOL   string
}

// SideCount returns the number of sides.
func (c *Conflict) SideCount() int {
	return len(c.Sides)
}

// Side returns side i or an error when i is out of bounds.
func (c *Conflict) Side(i int) (*Side, error) {
	if i < 0 || i >= len(c.Sides) {
		return nil, fmt.Errorf("side index %d out of bounds (%d sides)", i, len(c.Sides))
	}
	return c.Sides[i], nil
}

// SideContent returns the content lines of side i, or nil when out of bounds.
func (c *Conflict) SideContent(i int) []string {
	if i < 0 || i >= len(c.Sides) {
		return nil
	}
	return c.Sides[i].ContentLines()
}

// BaseContent returns the base lines of the first diff side. ok is false when
// every side is literal.
func (c *Conflict) BaseContent() (lines []string, ok bool) {
	for _, s := range c.Sides {
		if s.Kind == SideDiff {
			return s.BaseLines(), true
		}
	}
	return nil, false
}

// BaseOrFirstSide returns the base content, falling back to the first side's
// content, or nil when the conflict has no sides.
func (c *Conflict) BaseOrFirstSide() []string {
	if base, ok := c.BaseContent(); ok {
		return base
	}
	return c.SideContent(0)
}

// AddSymbol attaches a symbol to side i. Out-of-range indexes are ignored.
func (c *Conflict) AddSymbol(i int, sym Symbol) {
	if i >= 0 && i < len(c.Sides) {
		c.Sides[i].Symbols = append(c.Sides[i].Symbols, sym)
	}
}

// Text reconstructs the conflict block exactly as it was parsed.
func (c *Conflict) Text() string {
	var sb strings.Builder
	sb.WriteString(c.startLine())
	for _, s := range c.Sides {
		sb.WriteString(s.header())
		for _, line := range s.Lines {
			sb.WriteString(line)
		}
	}
	sb.WriteString(c.endLine())
	return sb.String()
}

func (c *Conflict) startLine() string {
	eol := c.startEOL
	if eol == "" {
		eol = "\n"
	}
	return MarkerStart + c.StartTrailer + eol
}

func (c *Conflict) endLine() string {
	return MarkerEnd + c.EndTrailer + c.endEOL
}

// ComputeRanges lays the sides out starting at startLine: one line for the
// start marker, then per side one marker line, one optional description line
// and the raw body lines. A side's end character is the length of its last
// content line. The conflict's range spans startLine..endLine.
func (c *Conflict) ComputeRanges(startLine, endLine int) {
	line := startLine + 1
	for _, s := range c.Sides {
		line++
		if s.Kind == SideDiff && s.HasDiffDescription {
			line++
		}
		if n := len(s.Lines); n > 0 {
			last := trimEOL(s.Lines[n-1])
			if content := s.ContentLines(); len(content) > 0 {
				last = trimEOL(content[len(content)-1])
			}
			s.Range = Range{
				Start: Position{Line: line},
				End:   Position{Line: line + n - 1, Character: len(last)},
			}
		} else {
			s.Range = LineRange(line, line)
		}
		line += len(s.Lines)
	}
	c.Range = Range{
		Start: Position{Line: startLine},
		End:   Position{Line: endLine, Character: len(MarkerEnd) + len(c.EndTrailer)},
	}
}

// LineCount returns how many source lines the block occupies.
func (c *Conflict) LineCount() int {
	return c.Range.End.Line - c.Range.Start.Line + 1
}

// Relocate recomputes the block's ranges as if it started at startLine.
func (c *Conflict) Relocate(startLine int) {
	c.ComputeRanges(startLine, startLine+len(SplitLines(c.Text()))-1)
}

// Shift moves the block and its sides by delta lines.
func (c *Conflict) Shift(delta int) {
	c.Range = c.Range.Shift(delta)
	for _, s := range c.Sides {
		s.Range = s.Range.Shift(delta)
	}
}
