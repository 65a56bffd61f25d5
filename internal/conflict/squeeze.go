package conflict

import "strings"

// Squeezed returns an alternate rendering of the block with the lines shared
// by both sides of a 2-way conflict moved outside the markers. When the sides
// are identical the markers are dropped and only the common lines remain.
// Blocks with more than two sides are rendered verbatim. Squeezed does not
// modify c.
func (c *Conflict) Squeezed() string {
	switch len(c.Sides) {
	case 0:
		return ""
	case 2:
	default:
		return c.Text()
	}

	a := c.Sides[0].ContentLines()
	b := c.Sides[1].ContentLines()
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	top := 0
	for top < shorter && a[top] == b[top] {
		top++
	}
	bottom := 0
	for bottom < shorter-top && a[len(a)-1-bottom] == b[len(b)-1-bottom] {
		bottom++
	}

	var sb strings.Builder
	if top+bottom == longer {
		for _, line := range a {
			sb.WriteString(line)
		}
		return sb.String()
	}

	for _, line := range a[:top] {
		sb.WriteString(line)
	}
	sb.WriteString(c.startLine())
	for _, s := range c.Sides {
		sb.WriteString(s.header())
		lo, hi := top, len(s.Lines)-bottom
		if lo > len(s.Lines) {
			lo = len(s.Lines)
		}
		if hi < lo {
			hi = lo
		}
		for _, line := range s.Lines[lo:hi] {
			sb.WriteString(line)
		}
	}
	sb.WriteString(c.endLine())
	if bottom > 0 && c.endEOL == "" {
		sb.WriteString("\n")
	}
	for _, line := range a[len(a)-bottom:] {
		sb.WriteString(line)
	}
	return sb.String()
}
