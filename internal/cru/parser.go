// Package cru decodes CRU timetable documents into session records.
//
// A document is a sequence of "+SECTION" markers, each followed by session
// lines such as
//
//	1,C1,P=24,H=MA 14:00-16:00,F1,S=B103//
//
// Decoding is error tolerant: a malformed session is reported in the
// Result's diagnostics and parsing resumes with the next line.
package cru

import (
	"io"
	"log"
	"strings"
)

// Result holds the outcome of parsing one document.
type Result struct {
	Sessions    []*Session   `json:"sessions"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ErrorCount is the number of sessions that failed structural decoding.
func (r *Result) ErrorCount() int {
	return len(r.Diagnostics)
}

// Valid reports whether every session line decoded.
func (r *Result) Valid() bool {
	return r.ErrorCount() == 0
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger receiving diagnostics and traces.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTraceTokens logs the token stream of every session line.
func WithTraceTokens(on bool) Option {
	return func(p *Parser) { p.traceTokens = on }
}

// WithTraceSymbols logs every token consumed by the grammar.
func WithTraceSymbols(on bool) Option {
	return func(p *Parser) { p.traceSymbols = on }
}

// WithBoilerplate adds prefixes of non-data lines to skip.
func WithBoilerplate(prefixes ...string) Option {
	return func(p *Parser) {
		p.boilerplate = append(p.boilerplate, prefixes...)
	}
}

// Parser decodes a single document. It is not safe for concurrent use;
// create one Parser per document.
type Parser struct {
	logger       *log.Logger
	traceTokens  bool
	traceSymbols bool
	boilerplate  []string
	result       *Result
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger:      log.New(io.Discard, "", 0),
		boilerplate: append([]string(nil), DefaultBoilerplate...),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes doc with default options.
func Parse(doc string) *Result {
	return NewParser().Parse(doc)
}

// Parse decodes doc. It never fails as a whole; sessions that cannot be
// decoded are listed in Result.Diagnostics.
func (p *Parser) Parse(doc string) *Result {
	p.result = &Result{Sessions: []*Session{}, Diagnostics: []Diagnostic{}}
	for _, sec := range segment(doc, p.boilerplate) {
		p.parseSection(sec)
	}
	res := p.result
	p.result = nil
	return res
}

func (p *Parser) parseSection(sec Section) {
	for _, line := range sec.Lines {
		tokens := Tokenize(strings.TrimSpace(line.Text))
		if p.traceTokens {
			p.logger.Printf("tokens %s:%d %q", sec.Name, line.Number, tokenTexts(tokens))
		}

		c := &cursor{tokens: tokens}
		if p.traceSymbols {
			c.trace = func(t Token) { p.logger.Println(t.String()) }
		}

		f, err := decodeSession(c)
		if err != nil {
			p.report(sec.Name, line, c, err)
			continue
		}
		p.result.Sessions = append(p.result.Sessions, buildSession(sec.Name, line, f))
	}
}

func tokenTexts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}
