// Package engine implements the ATS compatibility scoring pipeline: it
// normalizes a raw resume record, runs six independent category scorers,
// aggregates a 0-100 score, optionally computes keyword overlap against a job
// description, and derives a ranked suggestion list. The whole pipeline is a
// pure function of its inputs; identical inputs produce identical results.
package engine

import (
	"fmt"
	"math"

	"resumescan/internal/dictionary"
	"resumescan/internal/errors"
	"resumescan/internal/types"
)

// Options tunes one analysis run. The zero value uses the built-in category
// weights and no reference dictionary.
type Options struct {
	// Dictionary is the industry/role reference list; nil degrades the
	// skills overlap check and keyword grouping, never errors.
	Dictionary *dictionary.Dictionary

	// Weights overrides the per-category point ceilings. Must cover all six
	// categories and sum to 100; validate with ValidateWeights before use.
	Weights map[string]int
}

// ValidateWeights checks a category weight table: every category present,
// no negatives, total exactly 100.
func ValidateWeights(weights map[string]int) error {
	total := 0
	for _, key := range types.CategoryKeys {
		weight, ok := weights[key]
		if !ok {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("missing weight for category %q", key), nil)
		}
		if weight < 0 {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("negative weight for category %q", key), nil)
		}
		total += weight
	}
	if len(weights) != len(types.CategoryKeys) {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"weight table contains unknown categories", nil)
	}
	if total != 100 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("category weights must sum to 100, got %d", total), nil)
	}
	return nil
}

// Analyze scores a resume record, optionally against a job description. It is
// total: any record shape, including nil, yields a complete result. Reject
// non-object input earlier with ParseRecord.
func Analyze(record types.RawResumeRecord, jobDescription string, opts Options) *types.AnalysisResult {
	weights := opts.Weights
	if weights == nil {
		weights = DefaultWeights()
	}

	profile := Normalize(record)

	outcomes := map[string]categoryOutcome{
		types.CategoryPersonalInfo: scorePersonalInfo(profile),
		types.CategoryExperience:   scoreExperience(profile),
		types.CategoryEducation:    scoreEducation(profile),
		types.CategorySkills:       scoreSkills(profile, opts.Dictionary),
		types.CategoryStructure:    scoreStructure(profile),
		types.CategoryAchievements: scoreAchievements(profile),
	}

	breakdown := make(map[string]types.CategoryResult, len(outcomes))
	atsScore := 0
	for _, key := range types.CategoryKeys {
		outcome := outcomes[key]
		result := scaleOutcome(outcome, weights[key])
		breakdown[key] = result
		atsScore += result.Score
	}

	match := matchAgainstJob(profile, jobDescription, opts.Dictionary)
	d := deriveSuggestions(outcomes, weights, match)

	return &types.AnalysisResult{
		ATSScore:        atsScore,
		Breakdown:       breakdown,
		MatchPercentage: match.percentage,
		MissingSkills:   match.missingDisplays(),
		Strengths:       d.strengths,
		Recommendations: d.recommendations,
		Suggestions:     d.suggestions,
	}
}

// AnalyzeJSON decodes raw resume bytes and scores them. The only error is
// invalid input that is not a JSON object.
func AnalyzeJSON(data []byte, jobDescription string, opts Options) (*types.AnalysisResult, error) {
	record, err := ParseRecord(data)
	if err != nil {
		return nil, err
	}
	return Analyze(record, jobDescription, opts), nil
}

// scaleOutcome converts a scorer's raw points to the configured category
// weight. With default weights the scale factor is 1 and scores pass through
// unchanged.
func scaleOutcome(outcome categoryOutcome, weight int) types.CategoryResult {
	raw := outcome.score()
	rawMax := outcome.maxScore()

	score := raw
	if weight != rawMax && rawMax > 0 {
		score = int(math.Round(float64(raw) * float64(weight) / float64(rawMax)))
	}
	if score > weight {
		score = weight
	}
	if score < 0 {
		score = 0
	}
	return types.CategoryResult{
		Score:    score,
		MaxScore: weight,
		Details:  outcome.details(),
	}
}
