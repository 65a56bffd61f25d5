package conflict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sentinel errors wrapped by ParseError.
var (
	ErrUnexpectedLine    = errors.New("unexpected line")
	ErrConflictStillOpen = errors.New("conflict still open")
)

// ParseError reports malformed marker grammar. Line and StartLine are
// zero-based; Error prints them one-based.
type ParseError struct {
	Path      string
	Line      int
	StartLine int
	Text      string
	Err       error
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrConflictStillOpen) {
		return fmt.Sprintf("%s: conflict still open at end of input (started at line %d)", e.Path, e.StartLine+1)
	}
	return fmt.Sprintf("%s:%d: %v %q in conflict starting at line %d", e.Path, e.Line+1, e.Err, e.Text, e.StartLine+1)
}

func (e *ParseError) Unwrap() error { return e.Err }

type parseState int

const (
	stateOutside parseState = iota
	stateAwaitingSection
	stateDiffHeader
	stateDiffContent
	stateLiteralContent
)

// parser is the line-oriented marker state machine. Lines are fed one at a
// time with their terminators; finish flushes trailing text.
type parser struct {
	path  string
	line  int
	state parseState

	sections  []Section
	text      []string
	textStart int

	cur      *Conflict
	curStart int
	side     *Side
}

func newParser(path string) *parser {
	return &parser{path: path}
}

// Parse splits text into ordered sections.
func Parse(path, text string) ([]Section, error) {
	p := newParser(path)
	for _, line := range SplitLines(text) {
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	return p.finish()
}

// ParseReader is Parse over a stream.
func ParseReader(path string, r io.Reader) ([]Section, error) {
	p := newParser(path)
	br := bufio.NewReader(r)
	for {
		chunk, err := br.ReadString('\n')
		for _, line := range SplitLines(chunk) {
			if ferr := p.feed(line); ferr != nil {
				return nil, ferr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return p.finish()
}

func (p *parser) feed(line string) error {
	defer func() { p.line++ }()
	body, eol := splitEOL(line)

	switch p.state {
	case stateOutside:
		if m := startPattern.FindStringSubmatch(body); m != nil {
			p.flushText()
			p.openConflict(body, eol, m)
			return nil
		}
		if len(p.text) == 0 {
			p.textStart = p.line
		}
		p.text = append(p.text, line)

	case stateAwaitingSection:
		if p.handleMarker(body, eol) {
			return nil
		}
		return &ParseError{Path: p.path, Line: p.line, StartLine: p.curStart, Text: body, Err: ErrUnexpectedLine}

	case stateDiffHeader:
		if strings.HasPrefix(body, MarkerDiffDesc) {
			p.side.HasDiffDescription = true
			p.side.descLine = line
			p.state = stateDiffContent
			return nil
		}
		if p.handleMarker(body, eol) {
			return nil
		}
		p.side.Lines = append(p.side.Lines, line)
		p.state = stateDiffContent

	case stateDiffContent, stateLiteralContent:
		if p.handleMarker(body, eol) {
			return nil
		}
		p.side.Lines = append(p.side.Lines, line)
	}
	return nil
}

// handleMarker consumes a side or end marker. It reports false when body is
// neither.
func (p *parser) handleMarker(body, eol string) bool {
	switch {
	case strings.HasPrefix(body, MarkerDiff):
		p.beginSide(SideDiff, body[len(MarkerDiff):], eol)
		p.state = stateDiffHeader
	case strings.HasPrefix(body, MarkerLiteral):
		p.beginSide(SideLiteral, body[len(MarkerLiteral):], eol)
		p.state = stateLiteralContent
	case endPattern.MatchString(body):
		p.closeConflict(body, eol)
		p.state = stateOutside
	default:
		return false
	}
	return true
}

func (p *parser) openConflict(body, eol string, m []string) {
	n, _ := strconv.Atoi(m[1])
	total, _ := strconv.Atoi(m[2])
	p.cur = &Conflict{
		Path:         p.path,
		Number:       n,
		Total:        total,
		StartTrailer: body[len(MarkerStart):],
		startEOL:     eol,
	}
	p.curStart = p.line
	p.state = stateAwaitingSection
}

func (p *parser) beginSide(kind SideKind, tail, eol string) {
	p.finalizeSide()
	s := NewSide(kind)
	s.markerTail = tail
	s.markerEOL = eol
	s.Description = strings.TrimSpace(tail)
	p.side = s
}

func (p *parser) finalizeSide() {
	if p.side == nil {
		return
	}
	p.side.Resolve()
	p.cur.Sides = append(p.cur.Sides, p.side)
	p.side = nil
}

func (p *parser) closeConflict(body, eol string) {
	p.finalizeSide()
	c := p.cur
	c.EndTrailer = body[len(MarkerEnd):]
	c.endEOL = eol
	c.ComputeRanges(p.curStart, p.line)
	p.sections = append(p.sections, NewConflictVariant(NewConflictSection(c)))
	p.cur = nil
}

func (p *parser) flushText() {
	if len(p.text) == 0 {
		return
	}
	p.sections = append(p.sections, NewTextSection(p.text, p.textStart))
	p.text = nil
}

func (p *parser) finish() ([]Section, error) {
	if p.state != stateOutside {
		return nil, &ParseError{Path: p.path, Line: p.line, StartLine: p.curStart, Err: ErrConflictStillOpen}
	}
	p.flushText()
	return p.sections, nil
}
