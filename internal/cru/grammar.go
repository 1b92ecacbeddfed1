package cru

import "strconv"

// cursor walks an immutable token slice. Optional non-terminals use peek
// instead of consuming.
type cursor struct {
	tokens []Token
	pos    int
	trace  func(Token)
}

func (c *cursor) peek() (Token, bool) {
	if c.pos >= len(c.tokens) {
		return Token{}, false
	}
	return c.tokens[c.pos], true
}

func (c *cursor) next(want string) (Token, error) {
	t, ok := c.peek()
	if !ok {
		return Token{}, &EndOfInputError{Want: want}
	}
	c.pos++
	if c.trace != nil {
		c.trace(t)
	}
	return t, nil
}

func (c *cursor) expect(sym Symbol) error {
	t, err := c.next(sym.String())
	if err != nil {
		return err
	}
	if t.Kind != TokenMarker || t.Symbol != sym {
		return &UnexpectedSymbolError{Expected: sym, Found: t.String()}
	}
	return nil
}

// remaining returns the unconsumed tokens, for diagnostics.
func (c *cursor) remaining() []string {
	rest := make([]string, 0, len(c.tokens)-c.pos)
	for _, t := range c.tokens[c.pos:] {
		rest = append(rest, t.String())
	}
	return rest
}

// <Creneau> = Index Type Capacite Horaire [Semaine] Salle
func decodeSession(c *cursor) (fields, error) {
	var f fields
	var err error

	if f.index, err = decodeIndex(c); err != nil {
		return f, err
	}
	if f.sessionType, err = decodeType(c); err != nil {
		return f, err
	}
	if f.capacity, err = decodeCapacity(c); err != nil {
		return f, err
	}
	if f.scheduleRaw, err = decodeHoraire(c); err != nil {
		return f, err
	}
	f.schedule, f.decoded = DecodeHoraire(f.scheduleRaw)
	f.week, f.hasWeek = decodeSemaine(c)
	if f.room, err = decodeSalle(c); err != nil {
		return f, err
	}

	return f, nil
}

// <Index> = 1*DIGIT
func decodeIndex(c *cursor) (string, error) {
	t, err := c.next("index")
	return t.Text, err
}

// <Type> = ALPHA 1*DIGIT
func decodeType(c *cursor) (string, error) {
	t, err := c.next("type")
	return t.Text, err
}

// <Capacite> = "P=" 1*DIGIT
func decodeCapacity(c *cursor) (int, error) {
	if err := c.expect(SymCapacity); err != nil {
		return 0, err
	}
	t, err := c.next("capacity")
	if err != nil {
		return 0, err
	}
	return parseCapacity(t.Text)
}

func parseCapacity(s string) (int, error) {
	if s == "" {
		return 0, &CapacityError{Value: s}
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, &CapacityError{Value: s}
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &CapacityError{Value: s}
	}
	return n, nil
}

// <Horaire> = "H=" Jour WSP HeureDeb "-" HeureFin
func decodeHoraire(c *cursor) (string, error) {
	if err := c.expect(SymSchedule); err != nil {
		return "", err
	}
	t, err := c.next("schedule")
	return t.Text, err
}

// <Semaine> = "F" 1*DIGIT
func decodeSemaine(c *cursor) (string, bool) {
	t, ok := c.peek()
	if !ok || t.Kind != TokenWeek {
		return "", false
	}
	_, _ = c.next("week")
	return weekNumber(t.Text), true
}

// <Salle> = "S=" 1*(ALNUM / "_" / "-")
func decodeSalle(c *cursor) (string, error) {
	if err := c.expect(SymRoom); err != nil {
		return "", err
	}
	t, err := c.next("room")
	return t.Text, err
}
