package cru

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCursor(tokens ...Token) *cursor {
	return &cursor{tokens: tokens}
}

func TestSymbols(t *testing.T) {
	for _, text := range []string{"+", "P=", "H=", "S=", "//"} {
		assert.True(t, IsSymbol(text), text)
	}
	assert.False(t, IsSymbol("F1"))
	assert.False(t, IsSymbol("p="))

	sym, err := LookupSymbol("H=")
	require.NoError(t, err)
	assert.Equal(t, SymSchedule, sym)
	assert.Equal(t, 2, sym.Rank())
	assert.Equal(t, "H=", sym.String())

	_, err = LookupSymbol("X=")
	var unknown *UnknownSymbolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "X=", unknown.Text)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	assert.Equal(t, CodeUnknownSymbol, ErrorCode(err))
}

func TestTokenize(t *testing.T) {
	t.Run("Full line", func(t *testing.T) {
		tokens := Tokenize("1, C1 ,P=24,H= MA 14:00-16:00 ,F1,S=B103//")
		assert.Equal(t, []string{"1", "C1", "P=", "24", "H=", "MA 14:00-16:00", "F1", "S=", "B103"}, tokenTexts(tokens))
		assert.Equal(t, TokenMarker, tokens[2].Kind)
		assert.Equal(t, SymCapacity, tokens[2].Symbol)
		assert.Equal(t, TokenWeek, tokens[6].Kind)
		assert.Equal(t, SymRoom, tokens[7].Symbol)
	})

	t.Run("Unknown fields pass through", func(t *testing.T) {
		tokens := Tokenize("1,C1,24,Fx,S=B1")
		assert.Equal(t, []string{"1", "C1", "24", "Fx", "S=", "B1"}, tokenTexts(tokens))
		assert.Equal(t, TokenValue, tokens[2].Kind)
		assert.Equal(t, TokenValue, tokens[3].Kind)
	})

	t.Run("Leading fields are never markers", func(t *testing.T) {
		tokens := Tokenize("P=1,S=2")
		assert.Equal(t, TokenValue, tokens[0].Kind)
		assert.Equal(t, TokenValue, tokens[1].Kind)
	})

	t.Run("Only trailing end marker is stripped", func(t *testing.T) {
		tokens := Tokenize("1,C1,S=B//1//")
		assert.Equal(t, "B//1", tokens[3].Text)
	})
}

func TestGrammar_NonTerminals(t *testing.T) {
	t.Run("Index", func(t *testing.T) {
		idx, err := decodeIndex(newCursor(value("01")))
		require.NoError(t, err)
		assert.Equal(t, "01", idx)
	})

	t.Run("Type", func(t *testing.T) {
		tp, err := decodeType(newCursor(value("C1")))
		require.NoError(t, err)
		assert.Equal(t, "C1", tp)
	})

	t.Run("Capacity", func(t *testing.T) {
		n, err := decodeCapacity(newCursor(marker(SymCapacity), value("100")))
		require.NoError(t, err)
		assert.Equal(t, 100, n)
	})

	t.Run("Horaire", func(t *testing.T) {
		raw, err := decodeHoraire(newCursor(marker(SymSchedule), value("L 18:00-20:00")))
		require.NoError(t, err)
		assert.Equal(t, "L 18:00-20:00", raw)
	})

	t.Run("Semaine present", func(t *testing.T) {
		c := newCursor(Token{Kind: TokenWeek, Text: "F12"}, marker(SymRoom))
		week, ok := decodeSemaine(c)
		assert.True(t, ok)
		assert.Equal(t, "12", week)
		assert.Equal(t, 1, c.pos)
	})

	t.Run("Semaine absent leaves the stream untouched", func(t *testing.T) {
		c := newCursor(marker(SymRoom), value("H-201"))
		_, ok := decodeSemaine(c)
		assert.False(t, ok)
		assert.Equal(t, 0, c.pos)
	})

	t.Run("Salle", func(t *testing.T) {
		room, err := decodeSalle(newCursor(marker(SymRoom), value("H-201")))
		require.NoError(t, err)
		assert.Equal(t, "H-201", room)
	})
}

func TestCursor(t *testing.T) {
	c := newCursor(value("P="))
	err := c.expect(SymCapacity)
	var unexpected *UnexpectedSymbolError
	require.True(t, errors.As(err, &unexpected), "a value token spelled like a marker is not a marker")

	_, err = c.next("index")
	var eoi *EndOfInputError
	require.True(t, errors.As(err, &eoi))
	assert.Equal(t, "index", eoi.Want)
	assert.Empty(t, c.remaining())

	var traced []string
	c = &cursor{tokens: Tokenize("1,C1"), trace: func(t Token) { traced = append(traced, t.String()) }}
	_, _ = c.next("index")
	assert.Equal(t, []string{"1"}, traced)
	assert.Equal(t, []string{"C1"}, c.remaining())
}

func TestDecodeHoraire(t *testing.T) {
	cases := []struct {
		raw  string
		ok   bool
		want Schedule
	}{
		{"V 9:00-12:00", true, Schedule{"V", "9:00", "12:00"}},
		{"MA 14:00-16:00", true, Schedule{"MA", "14:00", "16:00"}},
		{"ME  08:30-10:30", true, Schedule{"ME", "08:30", "10:30"}},
		{"J\t8:00-9:00", true, Schedule{"J", "8:00", "9:00"}},
		{"18:00-20:00", false, Schedule{}},
		{"MER 8:00-9:00", false, Schedule{}},
		{"ma 8:00-9:00", false, Schedule{}},
		{"L8:00-9:00", false, Schedule{}},
		{"L 8:0-9:00", false, Schedule{}},
		{"L 8:00 - 9:00", false, Schedule{}},
		{"L 8:00-9:00 ", false, Schedule{}},
		{"L 123:00-9:00", false, Schedule{}},
		{"", false, Schedule{}},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := DecodeHoraire(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSegment(t *testing.T) {
	doc := "Seance header\n9,C1,orphan\n+AP01\n+ap02\n1,C1,P=1\n\n  \n+AP03\n1,x\n2,t3,P=4\nPage 3\n"

	sections := Segment(doc)

	require.Len(t, sections, 2)
	assert.Equal(t, "AP01", sections[0].Name)
	assert.Equal(t, 3, sections[0].Line)
	require.Len(t, sections[0].Lines, 1, "lowercase marker is not a section, its session stays in AP01")
	assert.Equal(t, SessionLine{Number: 5, Text: "1,C1,P=1"}, sections[0].Lines[0])

	assert.Equal(t, "AP03", sections[1].Name)
	require.Len(t, sections[1].Lines, 1)
	assert.Equal(t, "2,t3,P=4", sections[1].Lines[0].Text)
}

func TestClassifyLine(t *testing.T) {
	cases := map[string]lineKind{
		"+AP01":          lineSection,
		"+1A":            lineSection,
		"+":              lineIgnored,
		"+a":             lineIgnored,
		"12,C1,P=3":      lineSession,
		"1,c9":           lineSession,
		"1,C":            lineIgnored,
		",C1":            lineIgnored,
		"1 ,C1":          lineIgnored,
		"Page 1":         lineIgnored,
		"EDT.CRU V1.0":   lineIgnored,
		"Comportement x": lineIgnored,
	}
	for line, want := range cases {
		assert.Equal(t, want, classifyLine(line, DefaultBoilerplate), line)
	}
}
