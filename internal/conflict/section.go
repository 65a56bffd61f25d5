package conflict

import "strings"

// SectionKind tags the variant held by a Section.
type SectionKind int

const (
	KindText SectionKind = iota
	KindConflict
)

func (k SectionKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Section is one entry of a parsed file. Exactly one of Text or Conflict is
// set, as indicated by Kind. A file's sections cover its text without gaps
// or overlaps.
type Section struct {
	Kind     SectionKind
	Text     *TextSection
	Conflict *ConflictSection
}

// TextSection is a run of lines outside any conflict block.
type TextSection struct {
	Lines     []string
	StartLine int
}

// ConflictSection wraps a parsed Conflict with the resolution state that
// changes while the user edits the file.
type ConflictSection struct {
	Conflict *Conflict

	// Index is the stable node id used in the relation graph.
	Index string

	Resolved     bool
	ResolvedText string

	// Probabilities is the belief over the strategy taxonomy, one entry per
	// strategy (see StrategyCount).
	Probabilities []float64

	// Strategy is the index of the currently inferred strategy; 0 is Unknown.
	Strategy int

	prior []float64
}

// StrategyCount is the size of the strategy taxonomy for a conflict with
// sideCount sides: Unknown, one entry per side, Accept None and Accept All.
func StrategyCount(sideCount int) int {
	return sideCount + 3
}

// NewConflictSection wraps c with a uniform strategy belief.
func NewConflictSection(c *Conflict) *ConflictSection {
	n := StrategyCount(c.SideCount())
	probs := make([]float64, n)
	for i := range probs {
		probs[i] = 1 / float64(n)
	}
	return &ConflictSection{Conflict: c, Probabilities: probs}
}

// MarkResolved records the strategy the user applied and seeds the section's
// own belief with all mass on it. The previous belief is kept so Unresolve
// can restore it.
func (cs *ConflictSection) MarkResolved(strategy int, text string) {
	if !cs.Resolved {
		cs.prior = append([]float64(nil), cs.Probabilities...)
	}
	cs.Resolved = true
	cs.ResolvedText = text
	cs.Strategy = strategy
	for i := range cs.Probabilities {
		cs.Probabilities[i] = 0
	}
	if strategy >= 0 && strategy < len(cs.Probabilities) {
		cs.Probabilities[strategy] = 1
	}
}

// Unresolve resets the section to Unknown and restores the belief it held
// before it was resolved.
func (cs *ConflictSection) Unresolve() {
	if cs.prior != nil {
		copy(cs.Probabilities, cs.prior)
		cs.prior = nil
	}
	cs.Resolved = false
	cs.ResolvedText = ""
	cs.Strategy = 0
}

// Text returns the squeezed rendering of the conflict.
func (cs *ConflictSection) Text() string {
	return cs.Conflict.Squeezed()
}

// NewTextSection returns a text variant.
func NewTextSection(lines []string, startLine int) Section {
	return Section{Kind: KindText, Text: &TextSection{Lines: lines, StartLine: startLine}}
}

// NewConflictVariant returns a conflict variant.
func NewConflictVariant(cs *ConflictSection) Section {
	return Section{Kind: KindConflict, Conflict: cs}
}

// Lines returns the content lines a section contributes to structural
// analysis: text lines for text sections, base-or-first-side lines for
// conflicts.
func (s Section) Lines() []string {
	switch s.Kind {
	case KindText:
		return s.Text.Lines
	case KindConflict:
		return s.Conflict.Conflict.BaseOrFirstSide()
	default:
		return nil
	}
}

// Conflicts returns the conflict sections in order.
func Conflicts(sections []Section) []*ConflictSection {
	var out []*ConflictSection
	for _, s := range sections {
		if s.Kind == KindConflict {
			out = append(out, s.Conflict)
		}
	}
	return out
}

// Render reproduces the source text the sections were parsed from.
func Render(sections []Section) string {
	var sb strings.Builder
	for _, s := range sections {
		switch s.Kind {
		case KindText:
			for _, line := range s.Text.Lines {
				sb.WriteString(line)
			}
		case KindConflict:
			sb.WriteString(s.Conflict.Conflict.Text())
		}
	}
	return sb.String()
}

// RenderSqueezed is Render with every conflict block squeezed.
func RenderSqueezed(sections []Section) string {
	var sb strings.Builder
	for _, s := range sections {
		switch s.Kind {
		case KindText:
			for _, line := range s.Text.Lines {
				sb.WriteString(line)
			}
		case KindConflict:
			sb.WriteString(s.Conflict.Conflict.Squeezed())
		}
	}
	return sb.String()
}
