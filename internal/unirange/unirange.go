package unirange

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"

	"fontsieve/internal/faults"
)

// Interval is a closed range of codepoints.
type Interval struct {
	Lo rune
	Hi rune
}

// Len returns the number of codepoints in the interval.
func (iv Interval) Len() int {
	if iv.Hi < iv.Lo {
		return 0
	}
	return int(iv.Hi-iv.Lo) + 1
}

// Token returns the canonical token form of the interval.
func (iv Interval) Token() string {
	if iv.Lo == iv.Hi {
		return fmt.Sprintf("U+%X", iv.Lo)
	}
	return fmt.Sprintf("U+%X-%X", iv.Lo, iv.Hi)
}

// ParseToken parses a single range token of the form U+<hex> or
// U+<hex>-<hex>. The U+ prefix is optional.
func ParseToken(token string) (Interval, error) {
	trimmed := strings.TrimSpace(token)
	body := trimmed
	if len(body) >= 2 && (body[0] == 'U' || body[0] == 'u') && body[1] == '+' {
		body = body[2:]
	}
	if body == "" {
		return Interval{}, invalid(token, "empty codepoint", nil)
	}

	if start, end, ok := strings.Cut(body, "-"); ok {
		lo, err := parseCodepoint(start)
		if err != nil {
			return Interval{}, invalid(token, "range start", err)
		}
		hi, err := parseCodepoint(end)
		if err != nil {
			return Interval{}, invalid(token, "range end", err)
		}
		if lo > hi {
			return Interval{}, invalid(token, fmt.Sprintf("range start U+%X is after end U+%X", lo, hi), nil)
		}
		return Interval{Lo: lo, Hi: hi}, nil
	}

	value, err := parseCodepoint(body)
	if err != nil {
		return Interval{}, invalid(token, "codepoint", err)
	}
	return Interval{Lo: value, Hi: value}, nil
}

func parseCodepoint(value string) (rune, error) {
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %q as hex: %w", value, err)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("U+%X is not a Unicode scalar value", n)
	}
	return r, nil
}

func invalid(token, what string, err error) error {
	return faults.Wrap(faults.ErrConfiguration, "unirange", fmt.Sprintf("token %q", token), what, err)
}

// Selection is an immutable set of codepoints.
type Selection struct {
	table *unicode.RangeTable
}

// Parse builds a selection from range tokens. The first malformed token
// aborts parsing; no partial selection is returned.
func Parse(tokens []string) (*Selection, error) {
	tables := make([]*unicode.RangeTable, 0, len(tokens))
	for _, token := range tokens {
		iv, err := ParseToken(token)
		if err != nil {
			return nil, err
		}
		tables = append(tables, intervalTable(iv))
	}
	return &Selection{table: rangetable.Merge(tables...)}, nil
}

// FromIntervals builds a selection from already validated intervals.
func FromIntervals(intervals ...Interval) *Selection {
	tables := make([]*unicode.RangeTable, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Hi < iv.Lo {
			continue
		}
		tables = append(tables, intervalTable(iv))
	}
	return &Selection{table: rangetable.Merge(tables...)}
}

// intervalTable splits iv at the 16-bit boundary as unicode.RangeTable
// requires.
func intervalTable(iv Interval) *unicode.RangeTable {
	rt := &unicode.RangeTable{}
	if iv.Lo <= 0xFFFF {
		hi := iv.Hi
		if hi > 0xFFFF {
			hi = 0xFFFF
		}
		rt.R16 = []unicode.Range16{{Lo: uint16(iv.Lo), Hi: uint16(hi), Stride: 1}}
		if hi <= unicode.MaxLatin1 {
			rt.LatinOffset = 1
		}
	}
	if iv.Hi > 0xFFFF {
		lo := iv.Lo
		if lo < 0x10000 {
			lo = 0x10000
		}
		rt.R32 = []unicode.Range32{{Lo: uint32(lo), Hi: uint32(iv.Hi), Stride: 1}}
	}
	return rt
}

// Contains reports whether r is part of the selection.
func (s *Selection) Contains(r rune) bool {
	if s == nil || s.table == nil {
		return false
	}
	return unicode.Is(s.table, r)
}

// Len returns the number of codepoints in the selection.
func (s *Selection) Len() int {
	if s == nil || s.table == nil {
		return 0
	}
	n := 0
	for _, r := range s.table.R16 {
		n += int((r.Hi-r.Lo)/r.Stride) + 1
	}
	for _, r := range s.table.R32 {
		n += int((r.Hi-r.Lo)/r.Stride) + 1
	}
	return n
}

// Empty reports whether the selection holds no codepoints.
func (s *Selection) Empty() bool {
	return s.Len() == 0
}

// Visit calls fn for every codepoint in ascending order.
func (s *Selection) Visit(fn func(rune)) {
	if s == nil || s.table == nil {
		return
	}
	rangetable.Visit(s.table, fn)
}

// Intervals returns the maximal runs of consecutive codepoints in ascending
// order.
func (s *Selection) Intervals() []Interval {
	var out []Interval
	s.Visit(func(r rune) {
		if n := len(out); n > 0 && out[n-1].Hi == r-1 {
			out[n-1].Hi = r
			return
		}
		out = append(out, Interval{Lo: r, Hi: r})
	})
	return out
}

// Tokens returns the canonical token form of the selection. Parsing the
// result yields the same selection.
func (s *Selection) Tokens() []string {
	intervals := s.Intervals()
	tokens := make([]string, len(intervals))
	for i, iv := range intervals {
		tokens[i] = iv.Token()
	}
	return tokens
}

func (s *Selection) String() string {
	return strings.Join(s.Tokens(), ",")
}

// Table exposes the underlying range table. Callers must not modify it.
func (s *Selection) Table() *unicode.RangeTable {
	if s == nil || s.table == nil {
		return &unicode.RangeTable{}
	}
	return s.table
}
