// Package resolver joins raw entity labels against a reference table.
//
// Resolution runs an ordered list of matchers and stops at the first one
// that finds a candidate. Within a matcher the first candidate in table
// order wins. A Resolver is immutable after New and safe for concurrent use.
package resolver

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/textnorm"
)

// Step names the matcher that resolved a label.
type Step string

const (
	StepExact     Step = "exact"
	StepAlias     Step = "alias"
	StepSubstring Step = "substring"
	StepSpecial   Step = "special"
)

// minSubstringLen guards the containment step: both sides must be longer.
const minSubstringLen = 3

type candidate struct {
	entity domain.CanonicalEntity
	names  []string
	folded []string
	codes  []string
}

// label is a raw label prepared once per Resolve call.
type label struct {
	raw    string
	norm   string
	folded string
	code   string
	prefix string
}

// matcher is one step of the cascade. It returns the index of the matched
// candidate or -1.
type matcher struct {
	Step  Step
	Match func(l label, cands []candidate) int
}

// Resolver maps raw labels onto the entities of one reference table.
type Resolver struct {
	cands    []candidate
	matchers []matcher
}

// New prepares table for resolution. aliases maps a canonical name to its
// alternate spellings; nil disables the alias step.
func New(table []domain.CanonicalEntity, aliases AliasTable) *Resolver {
	r := &Resolver{cands: make([]candidate, 0, len(table))}
	for _, e := range table {
		r.cands = append(r.cands, newCandidate(e))
	}

	r.matchers = []matcher{
		{Step: StepExact, Match: matchExact},
		{Step: StepAlias, Match: newAliasMatcher(aliases, r.cands)},
		{Step: StepSubstring, Match: matchSubstring},
		{Step: StepSpecial, Match: newSpecialMatcher(specialRules, r.cands)},
	}

	return r
}

func newCandidate(e domain.CanonicalEntity) candidate {
	c := candidate{entity: e}
	for _, n := range []string{e.Name.ES, e.Name.EN} {
		nn := textnorm.Normalize(n)
		if nn == "" || contains(c.names, nn) {
			continue
		}
		c.names = append(c.names, nn)
		c.folded = append(c.folded, textnorm.Fold(n))
	}
	for _, code := range append([]string{e.Code, e.ISO3, e.ID}, e.AltCodes...) {
		cc := normCode(code)
		if cc == "" || contains(c.codes, cc) {
			continue
		}
		c.codes = append(c.codes, cc)
	}
	return c
}

func newLabel(raw string) label {
	l := label{
		raw:    raw,
		norm:   textnorm.Normalize(raw),
		folded: textnorm.Fold(raw),
		code:   normCode(raw),
	}

	// "28 Madrid" and "ES30 - Comunidad de Madrid" carry a code in front
	if i := strings.IndexFunc(l.norm, func(r rune) bool { return r == ' ' || r == '-' }); i > 0 {
		head := l.norm[:i]
		if strings.IndexFunc(head, unicode.IsDigit) >= 0 {
			l.prefix = normCode(head)
		}
	}

	return l
}

func normCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Resolve returns the entity raw refers to. ok is false when no step matched.
func (r *Resolver) Resolve(raw string) (domain.CanonicalEntity, bool) {
	e, _, ok := r.ResolveWithStep(raw)
	return e, ok
}

// ResolveWithStep also reports which cascade step produced the match.
func (r *Resolver) ResolveWithStep(raw string) (domain.CanonicalEntity, Step, bool) {
	l := newLabel(raw)
	if l.norm == "" {
		return domain.CanonicalEntity{}, "", false
	}

	for _, m := range r.matchers {
		if i := m.Match(l, r.cands); i >= 0 {
			return r.cands[i].entity, m.Step, true
		}
	}

	return domain.CanonicalEntity{}, "", false
}

// Entities returns the reference table in its original order.
func (r *Resolver) Entities() []domain.CanonicalEntity {
	out := make([]domain.CanonicalEntity, 0, len(r.cands))
	for _, c := range r.cands {
		out = append(out, c.entity)
	}
	return out
}

// Resolve is a one-shot helper. Callers resolving many labels against the
// same table should build a Resolver once.
func Resolve(raw string, table []domain.CanonicalEntity, aliases AliasTable) (domain.CanonicalEntity, bool) {
	return New(table, aliases).Resolve(raw)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
