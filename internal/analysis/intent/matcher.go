// Package intent resolves free-text storefront questions to canned answers.
//
// Matching runs three tiers in strict order: exact lookup of the normalized
// input, key-phrase containment, and fuzzy word overlap. The first tier that
// produces a hit wins and later tiers are not consulted.
package intent

import (
	"math"
	"strings"
)

// Tier names the strategy that produced a match.
type Tier string

const (
	TierNone   Tier = "none"
	TierExact  Tier = "exact"
	TierPhrase Tier = "phrase"
	TierFuzzy  Tier = "fuzzy"
)

// overlapThreshold is the share of a key's words that must appear in the input.
const overlapThreshold = 0.7

// Result describes how an input was resolved.
type Result struct {
	Key      string `json:"key,omitempty"`
	Response string `json:"response,omitempty"`
	Tier     Tier   `json:"tier"`
}

// Matched reports whether any tier produced a response.
func (r Result) Matched() bool {
	return r.Tier != TierNone
}

type indexedEntry struct {
	Entry
	words []string
}

// Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	entries []indexedEntry
	byKey   map[string]string
	phrases []PhraseRule
}

// NewMatcher indexes a validated knowledge base.
func NewMatcher(kb *KnowledgeBase) *Matcher {
	m := &Matcher{
		entries: make([]indexedEntry, 0, len(kb.Entries)),
		byKey:   make(map[string]string, len(kb.Entries)),
		phrases: append([]PhraseRule(nil), kb.Phrases...),
	}
	for _, entry := range kb.Entries {
		m.entries = append(m.entries, indexedEntry{Entry: entry, words: strings.Fields(entry.Key)})
		m.byKey[entry.Key] = entry.Response
	}
	return m
}

// Match returns the canned response for raw, or false when nothing matches.
func (m *Matcher) Match(raw string) (string, bool) {
	res := m.Resolve(raw)
	return res.Response, res.Matched()
}

// Resolve runs the three tiers and reports which one fired.
func (m *Matcher) Resolve(raw string) Result {
	input := Normalize(raw)
	if input == "" {
		return Result{Tier: TierNone}
	}

	if response, ok := m.byKey[input]; ok {
		return Result{Key: input, Response: response, Tier: TierExact}
	}

	for _, rule := range m.phrases {
		if strings.Contains(input, rule.Phrase) {
			return Result{Key: rule.Target, Response: m.byKey[rule.Target], Tier: TierPhrase}
		}
	}

	inputWords := strings.Fields(input)
	for _, entry := range m.entries {
		if overlaps(entry.words, inputWords) {
			return Result{Key: entry.Key, Response: entry.Response, Tier: TierFuzzy}
		}
	}

	return Result{Tier: TierNone}
}

// overlaps reports whether enough key words are present in the input, where
// a key word and an input word match if either contains the other.
func overlaps(keyWords, inputWords []string) bool {
	if len(keyWords) == 0 {
		return false
	}

	matching := 0
	for _, kw := range keyWords {
		for _, iw := range inputWords {
			if strings.Contains(iw, kw) || strings.Contains(kw, iw) {
				matching++
				break
			}
		}
	}

	return float64(matching) >= math.Ceil(float64(len(keyWords))*overlapThreshold)
}

// Normalize lowercases raw, drops the characters ? . , ! and collapses runs of
// whitespace to single spaces.
func Normalize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '?', '.', ',', '!':
			return -1
		}
		return r
	}, strings.ToLower(raw))
	return strings.Join(strings.Fields(stripped), " ")
}
