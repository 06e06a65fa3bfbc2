package resolver

import (
	"sort"
	"strings"

	"github.com/ougirez/rdatlas/internal/pkg/textnorm"
)

func matchExact(l label, cands []candidate) int {
	for i, c := range cands {
		if contains(c.names, l.norm) {
			return i
		}
	}
	for i, c := range cands {
		if contains(c.codes, l.code) {
			return i
		}
	}
	if l.prefix != "" {
		for i, c := range cands {
			if contains(c.codes, l.prefix) {
				return i
			}
		}
	}
	return -1
}

func matchSubstring(l label, cands []candidate) int {
	if runeLen(l.norm) <= minSubstringLen {
		return -1
	}
	for i, c := range cands {
		for _, n := range c.names {
			if runeLen(n) <= minSubstringLen {
				continue
			}
			if strings.Contains(l.norm, n) || strings.Contains(n, l.norm) {
				return i
			}
		}
	}
	return -1
}

// AliasTable maps a canonical name to alternate spellings. A label equal to
// the key or to any value resolves like the key.
type AliasTable map[string][]string

// newAliasMatcher resolves every alias group against cands up front so the
// matcher itself is a map lookup.
func newAliasMatcher(aliases AliasTable, cands []candidate) func(label, []candidate) int {
	index := make(map[string]int)

	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		group := append([]string{k}, aliases[k]...)
		target := -1
		for i, c := range cands {
			for _, member := range group {
				if contains(c.names, textnorm.Normalize(member)) || contains(c.codes, normCode(member)) {
					target = i
					break
				}
			}
			if target >= 0 {
				break
			}
		}
		if target < 0 {
			continue
		}
		for _, member := range group {
			for _, form := range []string{textnorm.Normalize(member), textnorm.Fold(member)} {
				if form == "" {
					continue
				}
				if _, taken := index[form]; !taken {
					index[form] = target
				}
			}
		}
	}

	return func(l label, _ []candidate) int {
		if i, ok := index[l.norm]; ok {
			return i
		}
		if i, ok := index[l.folded]; ok {
			return i
		}
		return -1
	}
}

// specialRule matches when the folded label contains every token in all.
type specialRule struct {
	all    []string
	target string
}

// Labels where punctuation or word order defeat the other steps.
var specialRules = []specialRule{
	{all: []string{"ceuta"}, target: "ES63"},
	{all: []string{"melilla"}, target: "ES64"},
	{all: []string{"castilla", "mancha"}, target: "ES42"},
	{all: []string{"castilla", "leon"}, target: "ES41"},
	{all: []string{"balear"}, target: "ES53"},
	{all: []string{"valencian"}, target: "ES52"},
	{all: []string{"vasco"}, target: "ES21"},
	{all: []string{"euskadi"}, target: "ES21"},
	{all: []string{"navarr"}, target: "ES22"},
	{all: []string{"asturias"}, target: "ES12"},
	{all: []string{"murcia"}, target: "ES62"},
	{all: []string{"rioja"}, target: "ES23"},
	{all: []string{"canar"}, target: "ES70"},
	{all: []string{"european", "union", "27"}, target: "EU27_2020"},
	{all: []string{"union", "europea", "27"}, target: "EU27_2020"},
	{all: []string{"germany"}, target: "DE"},
	{all: []string{"czech"}, target: "CZ"},
}

func newSpecialMatcher(rules []specialRule, cands []candidate) func(label, []candidate) int {
	type compiled struct {
		all    []string
		target int
	}

	var active []compiled
	for _, rule := range rules {
		target := -1
		code := normCode(rule.target)
		for i, c := range cands {
			if contains(c.codes, code) {
				target = i
				break
			}
		}
		if target >= 0 {
			active = append(active, compiled{all: rule.all, target: target})
		}
	}

	return func(l label, _ []candidate) int {
		for _, rule := range active {
			ok := true
			for _, token := range rule.all {
				if !strings.Contains(l.folded, token) {
					ok = false
					break
				}
			}
			if ok {
				return rule.target
			}
		}
		return -1
	}
}
