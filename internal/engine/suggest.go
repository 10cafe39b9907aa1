package engine

import (
	"fmt"
	"sort"
	"strings"

	"resumescan/internal/types"
)

var priorityRank = map[string]int{
	types.PriorityHigh:   0,
	types.PriorityMedium: 1,
	types.PriorityLow:    2,
}

// categoryPriority derives suggestion priority from how far a category fell
// below its ceiling: under half is urgent, under 80 percent needs work, the
// rest is polish.
func categoryPriority(score, maxScore int) string {
	if maxScore <= 0 {
		return types.PriorityLow
	}
	ratio := float64(score) / float64(maxScore)
	switch {
	case ratio < 0.5:
		return types.PriorityHigh
	case ratio <= 0.8:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

// derived holds everything the suggestion stage produces for assembly.
type derived struct {
	strengths       []string
	recommendations []string
	suggestions     []types.Suggestion
}

// deriveSuggestions converts scorer findings and keyword gaps into the
// strengths, recommendations, and ranked suggestion list. Categories are
// walked in canonical order so output is stable across runs.
func deriveSuggestions(outcomes map[string]categoryOutcome, weights map[string]int, match matchResult) derived {
	d := derived{
		strengths:       []string{},
		recommendations: []string{},
		suggestions:     []types.Suggestion{},
	}

	for _, key := range types.CategoryKeys {
		outcome, ok := outcomes[key]
		if !ok {
			continue
		}
		priority := categoryPriority(outcome.score(), outcome.maxScore())
		scale := weightScale(weights, key, outcome.maxScore())

		for _, f := range outcome.findings {
			if f.max > 0 && f.earned == f.max && !outcome.floorZero {
				d.strengths = append(d.strengths, f.message)
				continue
			}
			if f.advice == "" || f.earned >= f.max {
				continue
			}
			d.recommendations = append(d.recommendations, f.advice)
			d.suggestions = append(d.suggestions, types.Suggestion{
				Priority:   priority,
				Category:   key,
				Suggestion: f.advice,
				// Impact is the point gap for this one deduction, not the
				// whole category, so achievable gains are not overstated.
				Impact: scaledGap(f.max-f.earned, scale),
			})
		}
	}

	d.suggestions = append(d.suggestions, gapSuggestions(match)...)

	sort.SliceStable(d.suggestions, func(i, j int) bool {
		a, b := d.suggestions[i], d.suggestions[j]
		if priorityRank[a.Priority] != priorityRank[b.Priority] {
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		}
		return a.Impact > b.Impact
	})

	d.suggestions = dedupeSuggestions(d.suggestions)
	return d
}

func weightScale(weights map[string]int, key string, defaultMax int) float64 {
	if defaultMax <= 0 {
		return 1
	}
	weight, ok := weights[key]
	if !ok {
		return 1
	}
	return float64(weight) / float64(defaultMax)
}

// scaledGap converts a raw point gap to the configured weight scale, keeping
// at least one point so a real deduction never rounds to zero impact.
func scaledGap(gap int, scale float64) int {
	if gap <= 0 {
		return 0
	}
	scaled := int(float64(gap)*scale + 0.5)
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// maxListedSkills caps how many skill names one gap suggestion spells out.
const maxListedSkills = 5

// gapSuggestions emits one suggestion per dictionary category of missing
// keywords instead of one per keyword, to avoid flooding the list.
func gapSuggestions(match matchResult) []types.Suggestion {
	if len(match.missing) == 0 {
		return nil
	}

	groups := make(map[string][]string)
	for _, t := range match.missing {
		groups[t.category] = append(groups[t.category], t.display)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	suggestions := make([]types.Suggestion, 0, len(names))
	for _, name := range names {
		terms := groups[name]
		listed := terms
		more := ""
		if len(listed) > maxListedSkills {
			more = fmt.Sprintf(" and %d more", len(listed)-maxListedSkills)
			listed = listed[:maxListedSkills]
		}

		text := fmt.Sprintf("Add missing keywords from the job description: %s%s",
			strings.Join(listed, ", "), more)
		if name != "general" {
			text = fmt.Sprintf("Add missing %s keywords from the job description: %s%s",
				name, strings.Join(listed, ", "), more)
		}

		suggestions = append(suggestions, types.Suggestion{
			Priority:   types.PriorityMedium,
			Category:   types.CategorySkills,
			Suggestion: text,
			Impact:     min(2*len(terms), skillOverlapCredit),
		})
	}
	return suggestions
}

// dedupeSuggestions collapses duplicate suggestion text. The list is already
// sorted by priority then impact, so keeping the first occurrence keeps the
// higher-priority instance.
func dedupeSuggestions(suggestions []types.Suggestion) []types.Suggestion {
	seen := make(map[string]bool, len(suggestions))
	out := suggestions[:0]
	for _, s := range suggestions {
		if seen[s.Suggestion] {
			continue
		}
		seen[s.Suggestion] = true
		out = append(out, s)
	}
	return out
}
