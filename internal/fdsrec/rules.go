// Package fdsrec finds, reads and replaces the reaction-related records of an
// FDS input file. The document is never parsed as a whole: each named rule
// matches one kind of record and reports where in the text it sits.
package fdsrec

import (
	"regexp"
	"strings"

	"github.com/starford/fdsreac/internal/stoich"
)

// Span is a half-open byte range [Start, End) into a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Match is a rule hit: the span of the whole match plus its capture groups.
type Match struct {
	Span
	Groups []string
}

// Rule is a named pattern for one kind of record or field.
type Rule struct {
	Name string
	re   *regexp.Regexp
}

func newRule(name, pattern string) Rule {
	return Rule{Name: name, re: regexp.MustCompile(pattern)}
}

// Find returns the first match in doc.
func (r Rule) Find(doc string) (Match, bool) {
	loc := r.re.FindStringSubmatchIndex(doc)
	if loc == nil {
		return Match{}, false
	}
	return toMatch(doc, loc), true
}

// FindAll returns every non-overlapping match in document order.
func (r Rule) FindAll(doc string) []Match {
	locs := r.re.FindAllStringSubmatchIndex(doc, -1)
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		out = append(out, toMatch(doc, loc))
	}
	return out
}

func toMatch(doc string, loc []int) Match {
	m := Match{Span: Span{Start: loc[0], End: loc[1]}}
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			m.Groups = append(m.Groups, "")
			continue
		}
		m.Groups = append(m.Groups, doc[loc[i]:loc[i+1]])
	}
	return m
}

const (
	// A record runs to its terminating slash; whatever follows on that line
	// (usually a comment) and the newline belong to it as well.
	recordTail = `[^/]*/[^\n]*(?:\n|\z)`
	number     = `([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`
	quoted     = `['"]`
)

var (
	reacFuelRule = newRule("reac-fuel",
		`(?is)&REAC\s[^/]*?\bFUEL\s*=\s*['"]([^'"]+)['"]`)

	heatRule = newRule("heat-of-combustion",
		`(?is)&REAC\s[^/]*?\bHEAT_OF_COMBUSTION\s*=\s*`+number)

	reacNuRule = newRule("reac-nu",
		`(?is)&REAC\s[^/]*?\bNU\s*\(\s*1\s*:\s*3\s*\)\s*=\s*-1(?:\.0*)?\s*,\s*`+number)

	productsRule = newRule("products",
		`(?is)&SPEC\s+ID\s*=\s*['"]PRODUCTS['"][^/]*?\bSPEC_ID\s*\(\s*1\s*:\s*(\d+)\s*\)\s*=\s*([^/]*?)\s*`+
			`\bVOLUME_FRACTION\s*\(\s*1\s*:\s*(\d+)\s*\)\s*=\s*([-+0-9.eE,\s]*?)\s*/`)

	reacRecordRule = newRule("reac-record", `(?is)&REAC\b`+recordTail)
	headRule       = newRule("head-record", `(?is)&HEAD\b`+recordTail)
	meshRule       = newRule("mesh-record", `(?is)&MESH\b`+recordTail)
)

// fuelMolarMassRule matches the MW field of the fuel's SPEC record.
func fuelMolarMassRule(fuelID string) Rule {
	return newRule("fuel-molar-mass",
		`(?is)&SPEC\s+ID\s*=\s*`+quoted+regexp.QuoteMeta(fuelID)+quoted+`[^/]*?\bMW\s*=\s*`+number)
}

// speciesRecordRule matches any SPEC record from the fixed vocabulary or for fuelID.
func speciesRecordRule(fuelID string) Rule {
	ids := make([]string, 0, len(stoich.LumpedSpecies)+3)
	for _, id := range stoich.LumpedSpecies {
		ids = append(ids, regexp.QuoteMeta(id))
	}
	ids = append(ids, stoich.Air, stoich.Products)
	if fuelID != "" {
		ids = append(ids, regexp.QuoteMeta(fuelID))
	}
	return newRule("species-record",
		`(?is)&SPEC\s+ID\s*=\s*`+quoted+`(?:`+strings.Join(ids, "|")+`)`+quoted+recordTail)
}
