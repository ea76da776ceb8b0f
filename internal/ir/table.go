package ir

import (
	"strings"
	"unicode/utf8"
)

// DefaultKey names the fallback entry of every table.
const DefaultKey = "default"

// Table is an allomorph table: key → surface string, with an optional
// "default" entry used when the key is missing.
//
// Every family reads its suffixes, particles and agreement markers through
// this one abstraction so the fallback order is the same everywhere:
// exact key, then "default", then "".
type Table map[string]string

// Lookup returns the exact entry for key.
func (t Table) Lookup(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Resolve returns the entry for key, falling back to the default entry.
// A nil table, or a table without either entry, yields ("", false).
func (t Table) Resolve(key string) (string, bool) {
	if v, ok := t[key]; ok {
		return v, true
	}
	if v, ok := t[DefaultKey]; ok {
		return v, true
	}
	return "", false
}

// Get is Resolve without the found flag.
func (t Table) Get(key string) string {
	v, _ := t.Resolve(key)
	return v
}

// TableSet groups tables by category (suffix type, tense, TAM dimension).
type TableSet map[string]Table

// Table returns the table for category, or nil.
func (s TableSet) Table(category string) Table {
	return s[category]
}

// Resolve looks key up inside category, with the category's default entry
// as fallback.
func (s TableSet) Resolve(category, key string) (string, bool) {
	return s[category].Resolve(key)
}

// Rule is a {from, to} replacement used by mutation and suffix rules.
type Rule struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// RuleList is an ordered list of replacement rules. Matching always prefers
// the longest From; among equally long candidates the earliest declared wins.
// This makes the result independent of whether the list was pre-sorted.
type RuleList []Rule

// MatchPrefix returns the longest rule whose From is a prefix of word.
func (rl RuleList) MatchPrefix(word string) (Rule, bool) {
	return rl.longest(word, strings.HasPrefix)
}

// MatchSuffix returns the longest rule whose From is a suffix of word.
func (rl RuleList) MatchSuffix(word string) (Rule, bool) {
	return rl.longest(word, strings.HasSuffix)
}

func (rl RuleList) longest(word string, match func(s, affix string) bool) (Rule, bool) {
	best := -1
	bestLen := -1
	for i, r := range rl {
		if r.From == "" || !match(word, r.From) {
			continue
		}
		if n := utf8.RuneCountInString(r.From); n > bestLen {
			best, bestLen = i, n
		}
	}
	if best < 0 {
		return Rule{}, false
	}
	return rl[best], true
}

// ReplacePrefix applies the longest matching prefix rule to word.
func (rl RuleList) ReplacePrefix(word string) (string, Rule, bool) {
	r, ok := rl.MatchPrefix(word)
	if !ok {
		return word, Rule{}, false
	}
	return r.To + word[len(r.From):], r, true
}

// ReplaceSuffix applies the longest matching suffix rule to word.
func (rl RuleList) ReplaceSuffix(word string) (string, Rule, bool) {
	r, ok := rl.MatchSuffix(word)
	if !ok {
		return word, Rule{}, false
	}
	return word[:len(word)-len(r.From)] + r.To, r, true
}

// SortedLongestFirst returns a copy sorted by From length, longest first,
// keeping declaration order among equals.
func (rl RuleList) SortedLongestFirst() RuleList {
	out := make(RuleList, len(rl))
	copy(out, rl)
	// insertion sort keeps it stable and the lists are short
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && utf8.RuneCountInString(out[j].From) > utf8.RuneCountInString(out[j-1].From); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
