package conflict

// SideKind distinguishes the two side encodings jj writes.
type SideKind string

const (
	// SideDiff holds tagged lines ("+", "-", " ") against an implicit base.
	SideDiff SideKind = "diff"
	// SideLiteral holds the side's text verbatim.
	SideLiteral SideKind = "literal"
)

// Identifier is one capture returned by an identifier extractor.
type Identifier struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Symbol is a document symbol that lies within a side, together with the
// places it is referenced from.
type Symbol struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Range      Range   `json:"range"`
	References []Range `json:"references,omitempty"`
}

// Side is one alternative inside a conflict block.
type Side struct {
	Kind SideKind `json:"kind"`

	// Lines are the raw body lines with their terminators. Diff lines still
	// carry their tag.
	Lines []string `json:"lines"`

	// Description is the trimmed text after the side marker.
	Description string `json:"description,omitempty"`

	// HasDiffDescription records a "\\\\\\\" line after a diff marker.
	HasDiffDescription bool `json:"hasDiffDescription,omitempty"`

	Identifiers []Identifier `json:"identifiers,omitempty"`
	Symbols     []Symbol     `json:"symbols,omitempty"`
	Range       Range        `json:"range"`

	markerTail string // marker remainder, untrimmed
	markerEOL  string
	descLine   string // raw "\\\\\\\" line
	resolved   []string
}

// NewSide returns an empty side of the given kind.
func NewSide(kind SideKind) *Side {
	return &Side{Kind: kind}
}

// Resolve recomputes the resolved content of a diff side from its tagged
// lines: additions and context are kept without their tag, removals are
// dropped. Untagged lines are kept as context. Calling it again yields the
// same result.
func (s *Side) Resolve() {
	if s.Kind != SideDiff {
		s.resolved = nil
		return
	}
	resolved := make([]string, 0, len(s.Lines))
	for _, line := range s.Lines {
		if line == "" {
			resolved = append(resolved, line)
			continue
		}
		switch line[0] {
		case '-':
		case '+', ' ':
			resolved = append(resolved, line[1:])
		default:
			resolved = append(resolved, line)
		}
	}
	s.resolved = resolved
}

// ContentLines returns the side's text: resolved lines for diff sides, raw
// lines for literal sides.
func (s *Side) ContentLines() []string {
	if s.Kind == SideDiff {
		if s.resolved == nil && len(s.Lines) > 0 {
			s.Resolve()
		}
		return s.resolved
	}
	return s.Lines
}

// BaseLines reconstructs the base a diff side was computed against: removed
// and context lines with the tag stripped. Literal sides have no base.
func (s *Side) BaseLines() []string {
	if s.Kind != SideDiff {
		return nil
	}
	base := make([]string, 0, len(s.Lines))
	for _, line := range s.Lines {
		if line == "" {
			base = append(base, line)
			continue
		}
		switch line[0] {
		case '-', ' ':
			base = append(base, line[1:])
		}
	}
	return base
}

// IdentifierTexts returns the text of every extracted identifier, in order.
func (s *Side) IdentifierTexts() []string {
	out := make([]string, len(s.Identifiers))
	for i, id := range s.Identifiers {
		out[i] = id.Text
	}
	return out
}

// markerLine renders the side marker as it appeared in the source.
func (s *Side) markerLine() string {
	marker := MarkerLiteral
	if s.Kind == SideDiff {
		marker = MarkerDiff
	}
	tail := s.markerTail
	if tail == "" && s.Description != "" {
		tail = " " + s.Description
	}
	eol := s.markerEOL
	if eol == "" {
		eol = "\n"
	}
	return marker + tail + eol
}

// header renders the marker line plus the optional description line.
func (s *Side) header() string {
	h := s.markerLine()
	if s.Kind == SideDiff && s.HasDiffDescription {
		desc := s.descLine
		if desc == "" {
			desc = MarkerDiffDesc + "\n"
		}
		h += desc
	}
	return h
}
