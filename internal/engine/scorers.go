package engine

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"resumescan/internal/dictionary"
	"resumescan/internal/types"
)

// finding is one scored check inside a category. Findings with an empty
// advice string are informational only and never become suggestions. Findings
// with max 0 carry no points either way.
type finding struct {
	message string
	advice  string
	earned  int
	max     int
}

// categoryOutcome collects a scorer's findings in evaluation order.
type categoryOutcome struct {
	key       string
	findings  []finding
	floorZero bool
}

func (c categoryOutcome) score() int {
	if c.floorZero {
		return 0
	}
	total := 0
	for _, f := range c.findings {
		total += f.earned
	}
	return total
}

func (c categoryOutcome) maxScore() int {
	total := 0
	for _, f := range c.findings {
		total += f.max
	}
	return total
}

func (c categoryOutcome) details() []string {
	details := make([]string, 0, len(c.findings))
	for _, f := range c.findings {
		details = append(details, f.message)
	}
	return details
}

// Default category weights. They sum to 100 and can be overridden through
// Options; scores scale proportionally to the configured weight.
const (
	weightPersonalInfo = 10
	weightExperience   = 30
	weightEducation    = 10
	weightSkills       = 20
	weightStructure    = 15
	weightAchievements = 15
)

// DefaultWeights returns the built-in category weight table.
func DefaultWeights() map[string]int {
	return map[string]int{
		types.CategoryPersonalInfo: weightPersonalInfo,
		types.CategoryExperience:   weightExperience,
		types.CategoryEducation:    weightEducation,
		types.CategorySkills:       weightSkills,
		types.CategoryStructure:    weightStructure,
		types.CategoryAchievements: weightAchievements,
	}
}

var (
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	quantifiedNumber = regexp.MustCompile(`[0-9%$]`)
	digitPattern     = regexp.MustCompile(`[0-9]`)
)

// actionVerbs are past-tense openers that signal an accomplishment rather
// than a duty statement.
var actionVerbs = map[string]bool{
	"achieved": true, "architected": true, "automated": true, "built": true,
	"coordinated": true, "created": true, "delivered": true, "designed": true,
	"developed": true, "directed": true, "drove": true, "established": true,
	"founded": true, "implemented": true, "improved": true, "increased": true,
	"initiated": true, "launched": true, "led": true, "managed": true,
	"mentored": true, "migrated": true, "negotiated": true, "optimized": true,
	"owned": true, "reduced": true, "scaled": true, "shipped": true,
	"spearheaded": true, "streamlined": true, "transformed": true, "won": true,
}

func scorePersonalInfo(profile types.ResumeProfile) categoryOutcome {
	outcome := categoryOutcome{key: types.CategoryPersonalInfo}
	p := profile.Personal

	if p.Name != "" {
		outcome.findings = append(outcome.findings, finding{
			message: "Name is present", earned: 4, max: 4,
			advice: "Add your full name at the top of the resume",
		})
	} else {
		outcome.findings = append(outcome.findings, finding{
			message: "Name is missing", earned: 0, max: 4,
			advice: "Add your full name at the top of the resume",
		})
		// An unnamed resume cannot be attached to a candidate record, so
		// the whole category floors to zero.
		outcome.floorZero = true
	}

	switch {
	case p.Email == "":
		outcome.findings = append(outcome.findings, finding{
			message: "Email address is missing", earned: 0, max: 3,
			advice: "Add a professional email address",
		})
	case !emailPattern.MatchString(p.Email):
		outcome.findings = append(outcome.findings, finding{
			message: "Email address format looks invalid", earned: 2, max: 3,
			advice: "Use a standard email address format like name@example.com",
		})
	default:
		outcome.findings = append(outcome.findings, finding{
			message: "Email address is present and well-formed", earned: 3, max: 3,
			advice: "Add a professional email address",
		})
	}

	switch digits := countDigits(p.Phone); {
	case p.Phone == "":
		outcome.findings = append(outcome.findings, finding{
			message: "Phone number is missing", earned: 0, max: 2,
			advice: "Add a phone number with area code",
		})
	case digits < 7 || digits > 15:
		outcome.findings = append(outcome.findings, finding{
			message: "Phone number has an implausible digit count", earned: 1, max: 2,
			advice: "Use a complete phone number including area code",
		})
	default:
		outcome.findings = append(outcome.findings, finding{
			message: "Phone number is present", earned: 2, max: 2,
			advice: "Add a phone number with area code",
		})
	}

	if p.Location != "" {
		outcome.findings = append(outcome.findings, finding{
			message: "Location is present", earned: 1, max: 1,
			advice: "Add your city and region",
		})
	} else {
		outcome.findings = append(outcome.findings, finding{
			message: "Location is missing", earned: 0, max: 1,
			advice: "Add your city and region",
		})
	}

	return outcome
}

func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

func scoreExperience(profile types.ResumeProfile) categoryOutcome {
	outcome := categoryOutcome{key: types.CategoryExperience}
	entries := profile.Experience

	// Entry count with diminishing returns past three entries.
	countCredit := [4]int{0, 8, 12, 15}
	idx := len(entries)
	if idx > 3 {
		idx = 3
	}
	outcome.findings = append(outcome.findings, finding{
		message: fmt.Sprintf("%d work experience entries listed", len(entries)),
		earned:  countCredit[idx], max: 15,
		advice: "List at least three relevant work experience entries",
	})

	quantified := 0
	withAchievements := 0
	verbOpeners := 0
	totalBullets := 0
	for _, entry := range entries {
		if len(entry.Achievements) > 0 {
			withAchievements++
		}
		entryQuantified := false
		for _, bullet := range entry.Achievements {
			totalBullets++
			if quantifiedNumber.MatchString(bullet) {
				entryQuantified = true
			}
			if first := firstWord(bullet); actionVerbs[first] {
				verbOpeners++
			}
		}
		if entryQuantified || quantifiedNumber.MatchString(entry.Description) {
			quantified++
		}
	}

	outcome.findings = append(outcome.findings, finding{
		message: fmt.Sprintf("%d of %d experience entries include quantified results",
			quantified, len(entries)),
		earned: scaleCredit(quantified, len(entries), 8), max: 8,
		advice: "Quantify accomplishments with numbers, percentages, or dollar amounts",
	})

	outcome.findings = append(outcome.findings, finding{
		message: fmt.Sprintf("%d of %d achievement bullets open with an action verb",
			verbOpeners, totalBullets),
		earned: scaleCredit(verbOpeners, totalBullets, 4), max: 4,
		advice: "Start achievement bullets with strong action verbs like led, built, or improved",
	})

	outcome.findings = append(outcome.findings, finding{
		message: descriptionLengthMessage(entries),
		earned:  descriptionLengthCredit(entries), max: 3,
		advice: "Keep each role description between roughly 20 and 120 words",
	})

	return outcome
}

// scaleCredit awards max proportionally to hits/total, rounded.
func scaleCredit(hits, total, max int) int {
	if total == 0 || hits <= 0 {
		return 0
	}
	if hits > total {
		hits = total
	}
	return int(math.Round(float64(max) * float64(hits) / float64(total)))
}

func firstWord(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,;:!")
}

const (
	descriptionMinWords = 20
	descriptionMaxWords = 120
)

// descriptionLengthCredit averages a per-entry band check: in band scores
// full, too long loses one point, too short loses two.
func descriptionLengthCredit(entries []types.Experience) int {
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, entry := range entries {
		words := len(strings.Fields(entry.Description))
		switch {
		case words >= descriptionMinWords && words <= descriptionMaxWords:
			total += 3
		case words > descriptionMaxWords:
			total += 2
		case words > 0:
			total += 1
		}
	}
	return int(math.Round(float64(total) / float64(len(entries))))
}

func descriptionLengthMessage(entries []types.Experience) string {
	if len(entries) == 0 {
		return "No role descriptions to evaluate"
	}
	inBand := 0
	for _, entry := range entries {
		words := len(strings.Fields(entry.Description))
		if words >= descriptionMinWords && words <= descriptionMaxWords {
			inBand++
		}
	}
	return fmt.Sprintf("%d of %d role descriptions are within the recommended length",
		inBand, len(entries))
}

func scoreEducation(profile types.ResumeProfile) categoryOutcome {
	outcome := categoryOutcome{key: types.CategoryEducation}
	entries := profile.Education

	if len(entries) > 0 {
		outcome.findings = append(outcome.findings, finding{
			message: fmt.Sprintf("%d education entries listed", len(entries)),
			earned:  6, max: 6,
			advice: "Add at least one education entry",
		})
	} else {
		outcome.findings = append(outcome.findings, finding{
			message: "No education entries listed", earned: 0, max: 6,
			advice: "Add at least one education entry",
		})
	}

	// Degree wording is never content-validated; unusual degree names must
	// not be penalized.
	complete := 0
	for _, entry := range entries {
		if entry.Degree != "" && entry.Institution != "" && entry.Dates != "" {
			complete++
		}
	}
	outcome.findings = append(outcome.findings, finding{
		message: fmt.Sprintf("%d of %d education entries include degree, institution, and dates",
			complete, len(entries)),
		earned: scaleCredit(complete, len(entries), 4), max: 4,
		advice: "Complete each education entry with degree, institution, and dates",
	})

	return outcome
}

const (
	skillBandMin       = 6
	skillBandMax       = 15
	skillCountCredit   = 12
	skillOverlapCredit = 8
	skillOverlapTarget = 5
)

func scoreSkills(profile types.ResumeProfile, dict *dictionary.Dictionary) categoryOutcome {
	outcome := categoryOutcome{key: types.CategorySkills}
	technical := profile.Skills.Technical
	n := len(technical)

	// Counting never deducts above the band: a long skill list reads as
	// noise to a human but ATS matching only improves with more terms.
	countEarned := skillCountCredit
	if n < skillBandMin {
		countEarned = int(math.Round(float64(skillCountCredit) * float64(n) / float64(skillBandMin)))
	}
	message := fmt.Sprintf("%d technical skills listed", n)
	if n > skillBandMax {
		message = fmt.Sprintf("%d technical skills listed (consider trimming to the most relevant)", n)
	}
	outcome.findings = append(outcome.findings, finding{
		message: message, earned: countEarned, max: skillCountCredit,
		advice: fmt.Sprintf("List at least %d relevant technical skills", skillBandMin),
	})

	if dict == nil || len(dict.Terms) == 0 {
		outcome.findings = append(outcome.findings, finding{
			message: "Industry keyword matching skipped (no reference dictionary)",
			earned:  0, max: skillOverlapCredit,
		})
		return outcome
	}

	dictKeys := make(map[string]bool, len(dict.Terms))
	for _, term := range dict.Terms {
		if key := TermKey(term.Display); key != "" {
			dictKeys[key] = true
		}
	}

	overlap := 0
	for _, skill := range allSkills(profile) {
		if dictKeys[TermKey(skill.Display)] {
			overlap++
		}
	}
	outcome.findings = append(outcome.findings, finding{
		message: fmt.Sprintf("%d skills match the %s reference list", overlap, dict.ID),
		earned:  scaleCredit(min(overlap, skillOverlapTarget), skillOverlapTarget, skillOverlapCredit),
		max:     skillOverlapCredit,
		advice:  "Include more skills that are standard for your target industry",
	})

	return outcome
}

func allSkills(profile types.ResumeProfile) []types.Skill {
	skills := make([]types.Skill, 0,
		len(profile.Skills.Technical)+len(profile.Skills.Tools)+len(profile.Skills.Soft))
	skills = append(skills, profile.Skills.Technical...)
	skills = append(skills, profile.Skills.Tools...)
	skills = append(skills, profile.Skills.Soft...)
	return skills
}

const (
	summaryMinWords = 20
	summaryMaxWords = 100
)

func scoreStructure(profile types.ResumeProfile) categoryOutcome {
	outcome := categoryOutcome{key: types.CategoryStructure}

	sections := []struct {
		name    string
		present bool
		max     int
		advice  string
	}{
		{"summary", profile.Summary != "", 3,
			"Add a professional summary section"},
		{"experience", len(profile.Experience) > 0, 4,
			"Add a work experience section"},
		{"education", len(profile.Education) > 0, 3,
			"Add an education section"},
		{"skills", len(allSkills(profile)) > 0, 3,
			"Add a skills section"},
	}
	for _, section := range sections {
		f := finding{max: section.max, advice: section.advice}
		if section.present {
			f.message = fmt.Sprintf("Section present: %s", section.name)
			f.earned = section.max
		} else {
			f.message = fmt.Sprintf("Section missing: %s", section.name)
		}
		outcome.findings = append(outcome.findings, f)
	}

	words := len(strings.Fields(profile.Summary))
	f := finding{
		max:    2,
		advice: fmt.Sprintf("Keep the summary between %d and %d words", summaryMinWords, summaryMaxWords),
	}
	switch {
	case words >= summaryMinWords && words <= summaryMaxWords:
		f.message = "Summary length is within the recommended band"
		f.earned = 2
	case words > 0:
		f.message = fmt.Sprintf("Summary length is outside the recommended band (%d words)", words)
		f.earned = 1
	default:
		f.message = "No summary to evaluate for length"
	}
	outcome.findings = append(outcome.findings, f)

	return outcome
}

func scoreAchievements(profile types.ResumeProfile) categoryOutcome {
	outcome := categoryOutcome{key: types.CategoryAchievements}
	achievements := profile.Achievements

	countCredit := [4]int{0, 6, 9, 12}
	idx := len(achievements)
	if idx > 3 {
		idx = 3
	}
	outcome.findings = append(outcome.findings, finding{
		message: fmt.Sprintf("%d standalone achievements listed (certifications, awards, publications)",
			len(achievements)),
		earned: countCredit[idx], max: 12,
		advice: "List certifications, awards, or publications in a dedicated section",
	})

	specific := 0
	for _, a := range achievements {
		if digitPattern.MatchString(a) {
			specific++
		}
	}
	outcome.findings = append(outcome.findings, finding{
		message: fmt.Sprintf("%d of %d achievements include specific figures or dates",
			specific, len(achievements)),
		earned: scaleCredit(specific, len(achievements), 3), max: 3,
		advice: "Make achievements specific with dates, versions, or measurable outcomes",
	})

	return outcome
}
