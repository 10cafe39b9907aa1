package engine

import (
	"math"
	"sort"
	"strings"

	"resumescan/internal/dictionary"
	"resumescan/internal/types"
)

// missingTerm is one job-description keyword absent from the resume, with the
// dictionary category tag used to group gap suggestions.
type missingTerm struct {
	key      string
	display  string
	category string
}

// matchResult is the outcome of job-match mode. percentage is nil when the
// job description produced no keywords; reporting 100 percent of nothing
// would mislead.
type matchResult struct {
	percentage *int
	missing    []missingTerm
}

// matchAgainstJob computes keyword overlap between the resume and the job
// description. A trimmed-empty job description degrades to "not computed",
// never an error.
func matchAgainstJob(profile types.ResumeProfile, jobDescription string, dict *dictionary.Dictionary) matchResult {
	if strings.TrimSpace(jobDescription) == "" {
		return matchResult{}
	}

	jobKeywords := ExtractKeywords(jobDescription, dict)
	if len(jobKeywords) == 0 {
		return matchResult{}
	}
	resumeKeywords := ProfileKeywords(profile, dict)

	categories := termCategories(dict)

	overlap := 0
	missing := []missingTerm{}
	for _, key := range jobKeywords.SortedKeys() {
		if _, ok := resumeKeywords[key]; ok {
			overlap++
			continue
		}
		category := categories[key]
		if category == "" {
			category = "general"
		}
		missing = append(missing, missingTerm{
			key:      key,
			display:  jobKeywords[key],
			category: category,
		})
	}

	pct := int(math.Round(100 * float64(overlap) / float64(len(jobKeywords))))
	sort.Slice(missing, func(i, j int) bool {
		a, b := strings.ToLower(missing[i].display), strings.ToLower(missing[j].display)
		if a != b {
			return a < b
		}
		return missing[i].display < missing[j].display
	})
	return matchResult{percentage: &pct, missing: missing}
}

func termCategories(dict *dictionary.Dictionary) map[string]string {
	if dict == nil {
		return map[string]string{}
	}
	categories := make(map[string]string, len(dict.Terms))
	for _, term := range dict.Terms {
		if key := TermKey(term.Display); key != "" {
			categories[key] = term.Category
		}
	}
	return categories
}

func (m matchResult) missingDisplays() []string {
	displays := make([]string, 0, len(m.missing))
	for _, t := range m.missing {
		displays = append(displays, t.display)
	}
	return displays
}
