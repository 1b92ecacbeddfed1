package cru

// Symbol is one of the fixed structural markers of the CRU grammar.
type Symbol int

const (
	SymSection  Symbol = iota // "+"
	SymCapacity               // "P="
	SymSchedule               // "H="
	SymRoom                   // "S="
	SymEnd                    // "//"
)

var symbolText = [...]string{
	SymSection:  "+",
	SymCapacity: "P=",
	SymSchedule: "H=",
	SymRoom:     "S=",
	SymEnd:      "//",
}

// String returns the marker as it appears in a CRU document.
func (s Symbol) String() string {
	if s < 0 || int(s) >= len(symbolText) {
		return "?"
	}
	return symbolText[s]
}

// Rank is the position of the marker in the symbol table.
func (s Symbol) Rank() int {
	return int(s)
}

// IsSymbol reports whether text is one of the structural markers.
func IsSymbol(text string) bool {
	_, err := LookupSymbol(text)
	return err == nil
}

// LookupSymbol maps marker text to its Symbol.
func LookupSymbol(text string) (Symbol, error) {
	for i, t := range symbolText {
		if t == text {
			return Symbol(i), nil
		}
	}
	return 0, &UnknownSymbolError{Text: text}
}
