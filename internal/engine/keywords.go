package engine

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"resumescan/internal/dictionary"
	"resumescan/internal/types"
)

// KeywordSet maps a normalized keyword key to its display form. The display
// form is the dictionary spelling when the term came from a dictionary phrase,
// otherwise the first casing seen in the source text.
type KeywordSet map[string]string

// minTokenLen drops noise tokens like "a", "of", "to".
const minTokenLen = 3

// stopWords are tokens that carry no matching value on their own.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "was": true, "were": true,
	"will": true, "have": true, "has": true, "had": true, "can": true,
	"our": true, "your": true, "their": true, "his": true, "her": true,
	"its": true, "about": true, "into": true, "over": true, "under": true,
	"between": true, "through": true, "during": true, "before": true,
	"after": true, "above": true, "below": true, "all": true, "any": true,
	"both": true, "each": true, "more": true, "most": true, "other": true,
	"some": true, "such": true, "only": true, "own": true, "same": true,
	"than": true, "too": true, "very": true, "just": true, "also": true,
	"you": true, "they": true, "them": true, "who": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "how": true,
	"not": true, "but": true, "per": true, "via": true, "etc": true,
	"within": true, "across": true, "using": true, "able": true,
	"including": true, "include": true, "includes": true, "required": true,
	"requirements": true, "preferred": true, "plus": true, "must": true,
	"should": true, "would": true, "strong": true, "experience": true,
	"experienced": true, "years": true, "year": true, "work": true,
	"working": true, "team": true, "skills": true, "knowledge": true,
	"ability": true, "looking": true, "candidate": true, "role": true,
	"job": true, "position": true, "company": true, "new": true,
	"and/or": true, "well": true, "good": true, "great": true,
}

// stem collapses common plural and verb-tense variants by stripping a single
// trailing suffix. This is a lossy heuristic, not linguistic stemming; it
// trades exactness for zero dependencies and predictable behavior.
func stem(token string) string {
	for _, suffix := range []string{"ing", "ed"} {
		if strings.HasSuffix(token, suffix) && len(token)-len(suffix) >= 4 {
			return token[:len(token)-len(suffix)]
		}
	}
	if strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") &&
		len(token)-1 >= 4 {
		return token[:len(token)-1]
	}
	return token
}

// keywordRune reports whether r belongs inside a token. '+' and '#' are kept
// so terms like "c++" and "c#" survive tokenization.
func keywordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

// tokenize splits text into candidate tokens with original casing preserved.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if keywordRune(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// TermKey normalizes a skill or dictionary term to its matching key. A
// multi-word term stays atomic with collapsed spacing; a single word goes
// through the same stemming as free-text tokens.
func TermKey(term string) string {
	lowered := strings.ToLower(strings.TrimSpace(term))
	parts := strings.Fields(lowered)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return stem(parts[0])
	}
	return strings.Join(parts, " ")
}

// lowerASCII folds ASCII letters to lowercase, leaving every other byte
// untouched. Unlike strings.ToLower it preserves byte length, so any offset
// into the folded view indexes the same character in the original text.
func lowerASCII(s string) []byte {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return b
}

// ExtractKeywords tokenizes free text into a normalized keyword set. When a
// dictionary is supplied, its multi-word phrases are matched first, longest
// match wins and matched spans are not re-tokenized. Phrase matching folds
// case for ASCII letters only; non-ASCII letters in a phrase must match the
// source text exactly.
func ExtractKeywords(text string, dict *dictionary.Dictionary) KeywordSet {
	keywords := make(KeywordSet)
	if strings.TrimSpace(text) == "" {
		return keywords
	}

	// remainder and display stay byte-aligned: spans blanked in one are
	// blanked at the same offsets in the other.
	remainder := lowerASCII(text)
	display := []byte(text)

	for _, phrase := range dict.Phrases() {
		searchFrom := 0
		for searchFrom < len(remainder) {
			idx := strings.Index(string(remainder[searchFrom:]), phrase)
			if idx == -1 {
				break
			}
			abs := searchFrom + idx
			if !isWordBoundary(remainder, abs, len(phrase)) {
				searchFrom = abs + 1
				continue
			}
			key := TermKey(phrase)
			if _, ok := keywords[key]; !ok {
				keywords[key] = phraseDisplay(dict, phrase)
			}
			// Blank the span so shorter phrases and single words cannot
			// re-match inside it.
			for i := abs; i < abs+len(phrase); i++ {
				remainder[i] = ' '
				display[i] = ' '
			}
			searchFrom = abs + len(phrase)
		}
	}

	for _, token := range tokenize(string(display)) {
		lower := strings.ToLower(token)
		if len([]rune(lower)) < minTokenLen || stopWords[lower] || !hasLetter(lower) {
			continue
		}
		key := stem(lower)
		if _, ok := keywords[key]; !ok {
			keywords[key] = token
		}
	}
	return keywords
}

// isWordBoundary checks that a phrase match does not start or end in the
// middle of a longer token.
func isWordBoundary(text []byte, start, length int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRune(text[:start])
		if keywordRune(r) {
			return false
		}
	}
	end := start + length
	if end < len(text) {
		r, _ := utf8.DecodeRune(text[end:])
		if keywordRune(r) {
			return false
		}
	}
	return true
}

func phraseDisplay(dict *dictionary.Dictionary, loweredPhrase string) string {
	for _, t := range dict.Terms {
		if strings.ToLower(strings.TrimSpace(t.Display)) == loweredPhrase {
			return strings.TrimSpace(t.Display)
		}
	}
	return loweredPhrase
}

// ProfileKeywords extracts the resume-side keyword set: listed skills plus
// free text from summary, experience, projects, education, and standalone
// achievements.
func ProfileKeywords(profile types.ResumeProfile, dict *dictionary.Dictionary) KeywordSet {
	keywords := make(KeywordSet)

	addSkill := func(s types.Skill) {
		key := TermKey(s.Display)
		if key == "" {
			return
		}
		if _, ok := keywords[key]; !ok {
			keywords[key] = s.Display
		}
	}
	for _, s := range profile.Skills.Technical {
		addSkill(s)
	}
	for _, s := range profile.Skills.Tools {
		addSkill(s)
	}
	for _, s := range profile.Skills.Soft {
		addSkill(s)
	}
	for _, p := range profile.Projects {
		for _, s := range p.Technologies {
			addSkill(s)
		}
	}

	var text strings.Builder
	text.WriteString(profile.Summary)
	for _, exp := range profile.Experience {
		text.WriteString("\n")
		text.WriteString(exp.Title)
		text.WriteString("\n")
		text.WriteString(exp.Description)
		for _, a := range exp.Achievements {
			text.WriteString("\n")
			text.WriteString(a)
		}
	}
	for _, edu := range profile.Education {
		text.WriteString("\n")
		text.WriteString(edu.Degree)
	}
	for _, p := range profile.Projects {
		text.WriteString("\n")
		text.WriteString(p.Title)
		text.WriteString("\n")
		text.WriteString(p.Description)
	}
	for _, a := range profile.Achievements {
		text.WriteString("\n")
		text.WriteString(a)
	}

	for key, disp := range ExtractKeywords(text.String(), dict) {
		if _, ok := keywords[key]; !ok {
			keywords[key] = disp
		}
	}
	return keywords
}

// SortedKeys returns the set's keys in lexical order.
func (ks KeywordSet) SortedKeys() []string {
	keys := make([]string, 0, len(ks))
	for k := range ks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
