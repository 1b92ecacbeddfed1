package cru

import "strings"

// TokenKind distinguishes the token classes produced by Tokenize.
type TokenKind int

const (
	TokenValue TokenKind = iota
	TokenMarker
	TokenWeek
)

// Token is one element of a session's token stream.
type Token struct {
	Kind   TokenKind
	Symbol Symbol // meaningful for TokenMarker only
	Text   string
}

func (t Token) String() string {
	if t.Kind == TokenMarker {
		return t.Symbol.String()
	}
	return t.Text
}

func value(text string) Token { return Token{Kind: TokenValue, Text: text} }

func marker(sym Symbol) Token { return Token{Kind: TokenMarker, Symbol: sym, Text: sym.String()} }

// Tokenize turns one session line into the stream consumed by the grammar.
func Tokenize(line string) []Token {
	fields := strings.Split(line, ",")
	tokens := make([]Token, 0, len(fields)+3)

	for i, f := range fields {
		f = strings.TrimSpace(f)
		if i < 2 {
			tokens = append(tokens, value(f))
			continue
		}

		switch {
		case strings.HasPrefix(f, SymCapacity.String()):
			tokens = append(tokens, marker(SymCapacity), value(f[2:]))
		case strings.HasPrefix(f, SymSchedule.String()):
			tokens = append(tokens, marker(SymSchedule), value(strings.TrimSpace(f[2:])))
		case isWeekField(f):
			tokens = append(tokens, Token{Kind: TokenWeek, Text: f})
		case strings.HasPrefix(f, SymRoom.String()):
			tokens = append(tokens, marker(SymRoom), value(strings.TrimSuffix(f[2:], SymEnd.String())))
		default:
			tokens = append(tokens, value(f))
		}
	}

	return tokens
}

// isWeekField recognizes "F" followed by at least one digit.
func isWeekField(f string) bool {
	return len(f) >= 2 && f[0] == 'F' && isDigit(f[1])
}

// weekNumber extracts the digit run following "F".
func weekNumber(f string) string {
	end := 1
	for end < len(f) && isDigit(f[end]) {
		end++
	}
	return f[1:end]
}
