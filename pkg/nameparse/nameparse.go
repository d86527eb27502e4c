// Package nameparse splits scientific name strings into canonical
// name, authorship and rank-dependent epithets.
//
// The parser runs gnparser first to separate authorship from the
// canonical form; names gnparser cannot handle fall back to a
// tokenizer that strips infraspecific markers, parenthetical subgenus
// groups, hybrid signs and stray numeric tokens. The rank then
// determines how many tokens the canonical name keeps; surplus tokens
// are reattached as authorship.
package nameparse

import (
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnrecon/pkg/schema"
)

// Parsed is the result of parsing one scientific name.
type Parsed struct {
	// CanonicalName has no authorship and no rank-qualifier tokens.
	CanonicalName string

	// Authorship is everything that was split off the name.
	Authorship string

	// Rank is the supplied or inferred rank of the name.
	Rank schema.Rank

	// RankInferred is true when no rank hint was given and the rank
	// was derived from the token count.
	RankInferred bool

	// LowConfidence marks the trinomial rank heuristic (variety for
	// Plantae, subspecies otherwise). Such records should go to
	// manual review rather than be trusted silently.
	LowConfidence bool

	// SpecificEpithet is the second canonical token for species-group
	// names.
	SpecificEpithet string

	// InfraspecificEpithet is the third canonical token for
	// infraspecific names.
	InfraspecificEpithet string
}

// Parser parses scientific names. It is not safe for concurrent use;
// use Pool for concurrent parsing.
//
// Each Parser keeps one gnparser instance per nomenclatural code; the
// codes disagree on infraspecific rank markers, so plant and fungal
// names go through the botanical parser.
type Parser struct {
	botanical  gnparser.GNparser
	zoological gnparser.GNparser
}

// New creates a Parser with its own gnparser instances.
func New() *Parser {
	botCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	zooCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Zoological))
	return &Parser{
		botanical:  gnparser.New(botCfg),
		zoological: gnparser.New(zooCfg),
	}
}

// Option adjusts a single Parse call.
type Option func(*parseInput)

type parseInput struct {
	rank    schema.Rank
	kingdom string
}

// OptRank supplies a rank hint. Without it the rank is inferred from
// the canonical token count.
func OptRank(r schema.Rank) Option {
	return func(pi *parseInput) {
		pi.rank = r
	}
}

// OptKingdom supplies the kingdom for the trinomial rank heuristic.
func OptKingdom(k string) Option {
	return func(pi *parseInput) {
		pi.kingdom = k
	}
}

// expectedTokens returns how many tokens the canonical form of a name
// at the given rank carries.
func expectedTokens(r schema.Rank) int {
	switch {
	case r == schema.RankSpecies:
		return 2
	case r.IsInfraspecific():
		return 3
	case r != schema.RankUnknown:
		return 1
	}
	return 0
}

// Parse splits a raw scientific name. It returns a ParseError when
// the name cannot be tokenized per the rank rules.
func (p *Parser) Parse(name string, opts ...Option) (Parsed, error) {
	var in parseInput
	for _, opt := range opts {
		opt(&in)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Parsed{}, &ParseError{Name: name, Reason: "empty name"}
	}

	canonical, authorship := p.splitAuthorship(name, in.kingdom)

	tokens := tokenize(canonical)
	if len(tokens) == 0 {
		return Parsed{}, &ParseError{Name: name, Reason: "no usable tokens"}
	}

	res := Parsed{Rank: in.rank, Authorship: authorship}

	if in.rank == schema.RankUnknown {
		var err error
		res.Rank, res.LowConfidence, err = inferRank(len(tokens), in.kingdom)
		if err != nil {
			return Parsed{}, &ParseError{Name: name, Reason: "rank cannot be inferred"}
		}
		res.RankInferred = true
	}

	want := expectedTokens(res.Rank)
	if len(tokens) < want {
		return Parsed{}, &ParseError{Name: name, Reason: "too few tokens for rank"}
	}
	if len(tokens) > want {
		// Anything beyond the expected token count is authorship
		// that gnparser did not recognize.
		extra := strings.Join(tokens[want:], " ")
		if res.Authorship == "" {
			res.Authorship = extra
		} else {
			res.Authorship = extra + " " + res.Authorship
		}
		tokens = tokens[:want]
	}

	res.CanonicalName = strings.Join(tokens, " ")
	if want >= 2 {
		res.SpecificEpithet = epithet(res.CanonicalName, tokens[0])
	}
	if want == 3 {
		binomial := tokens[0] + " " + tokens[1]
		res.InfraspecificEpithet = epithet(res.CanonicalName, binomial)
		res.SpecificEpithet = tokens[1]
	}

	return res, nil
}

// botanicalKingdoms route names through the botanical-code parser.
var botanicalKingdoms = map[string]bool{
	"plantae":   true,
	"fungi":     true,
	"chromista": true,
}

// splitAuthorship separates the canonical form from authorship,
// preferring gnparser's view of the name.
func (p *Parser) splitAuthorship(name, kingdom string) (string, string) {
	gnp := p.zoological
	if botanicalKingdoms[strings.ToLower(kingdom)] {
		gnp = p.botanical
	}
	parsed := gnp.ParseName(name)
	if parsed.Parsed && parsed.Canonical != nil {
		var au string
		if parsed.Authorship != nil {
			au = parsed.Authorship.Verbatim
		}
		return parsed.Canonical.Simple, au
	}
	return cleanName(name), ""
}

// epithet derives an epithet by removing a known prefix from the
// canonical name and trimming.
func epithet(canonical, prefix string) string {
	rest := strings.TrimPrefix(canonical, prefix)
	return strings.TrimSpace(rest)
}

// inferRank maps a token count to a rank. Trinomials default to
// variety for Plantae, subspecies otherwise; the result is a
// heuristic, not a certainty.
func inferRank(tokens int, kingdom string) (schema.Rank, bool, error) {
	switch tokens {
	case 1:
		return schema.RankGenus, false, nil
	case 2:
		return schema.RankSpecies, false, nil
	case 3:
		if strings.EqualFold(kingdom, "Plantae") {
			return schema.RankVariety, true, nil
		}
		return schema.RankSubspecies, true, nil
	}
	return schema.RankUnknown, false, &ParseError{
		Reason: "token count outside 1..3",
	}
}

// infraspecific markers and hybrid signs removed before tokenizing.
var skipTokens = map[string]bool{
	"var.":       true,
	"subsp.":     true,
	"ssp.":       true,
	"variety":    true,
	"subspecies": true,
	"x":          true,
	"×":          true,
}

// cleanName is the fallback normalizer for names gnparser rejects.
// It removes parenthetical subgenus groups, infraspecific markers,
// hybrid signs, and numeric tokens (collector or catalog numbers
// accidentally embedded in names).
func cleanName(name string) string {
	name = stripParens(name)

	var kept []string
	for _, tok := range strings.Fields(name) {
		if skipTokens[strings.ToLower(tok)] {
			continue
		}
		if hasDigit(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// tokenize splits a canonical form on whitespace, dropping leftover
// marker and numeric tokens.
func tokenize(canonical string) []string {
	var res []string
	for _, tok := range strings.Fields(canonical) {
		if skipTokens[strings.ToLower(tok)] || hasDigit(tok) {
			continue
		}
		res = append(res, tok)
	}
	return res
}

func stripParens(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
