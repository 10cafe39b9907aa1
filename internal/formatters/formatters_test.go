package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumescan/internal/types"
)

func sampleResult() *types.AnalysisResult {
	match := 67
	return &types.AnalysisResult{
		ATSScore: 74,
		Breakdown: map[string]types.CategoryResult{
			types.CategoryPersonalInfo: {Score: 10, MaxScore: 10, Details: []string{"All contact details present"}},
			types.CategoryExperience:   {Score: 21, MaxScore: 30, Details: []string{"3 positions listed"}},
			types.CategoryEducation:    {Score: 10, MaxScore: 10, Details: []string{}},
			types.CategorySkills:       {Score: 15, MaxScore: 20, Details: []string{"11 skills listed"}},
			types.CategoryStructure:    {Score: 12, MaxScore: 15, Details: []string{}},
			types.CategoryAchievements: {Score: 6, MaxScore: 15, Details: []string{}},
		},
		MatchPercentage: &match,
		MissingSkills:   []string{"Kubernetes", "Terraform"},
		Strengths:       []string{"All contact details present"},
		Recommendations: []string{"Add measurable outcomes to experience entries"},
		Suggestions: []types.Suggestion{
			{Priority: types.PriorityHigh, Category: types.CategoryAchievements, Suggestion: "Add achievements with concrete numbers", Impact: 9},
		},
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded types.AnalysisResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ATSScore != 74 {
		t.Errorf("round-tripped ATSScore = %d, want 74", decoded.ATSScore)
	}
}

func TestFormatText(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	for _, want := range []string{
		"ATS Score: 74/100",
		"Job Match: 67%",
		"Experience: 21/30",
		"- Kubernetes",
		"[HIGH] Add achievements with concrete numbers",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestFormatTextCategoryOrder(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	// Categories print in canonical order regardless of map iteration.
	idx := 0
	for _, label := range []string{"Personal Info", "Experience:", "Education", "Skills", "Structure", "Achievements:"} {
		at := strings.Index(out[idx:], label)
		if at < 0 {
			t.Fatalf("label %q missing or out of order", label)
		}
		idx += at
	}
}

func TestFormatMarkdown(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	for _, want := range []string{
		"# ATS Compatibility Report",
		"**ATS Score:** 74/100",
		"| Experience | 21 | 30 |",
		"## Missing Keywords",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestFormatMatchPercentageOmitted(t *testing.T) {
	result := sampleResult()
	result.MatchPercentage = nil

	out, err := GlobalRegistry.Format(result, "text")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(out, "Job Match") {
		t.Error("text output mentions job match without a job description")
	}
}

func TestFormatKeywordReport(t *testing.T) {
	report := types.KeywordReport{
		Source:   "resume.txt",
		Count:    2,
		Keywords: []string{"go", "postgresql"},
	}

	text, err := GlobalRegistry.Format(report, "text")
	if err != nil {
		t.Fatalf("Format text: %v", err)
	}
	if !strings.Contains(text, "KEYWORDS (2)") || !strings.Contains(text, "- go") {
		t.Errorf("unexpected text output:\n%s", text)
	}

	md, err := GlobalRegistry.Format(&report, "markdown")
	if err != nil {
		t.Fatalf("Format markdown: %v", err)
	}
	if !strings.Contains(md, "**Count:** 2") {
		t.Errorf("unexpected markdown output:\n%s", md)
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatFallbackToJSON(t *testing.T) {
	// Types without a dedicated formatter fall back to the generic JSON one.
	out, err := GlobalRegistry.Format(map[string]int{"a": 1}, "json")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, `"a": 1`) {
		t.Errorf("unexpected JSON fallback output: %s", out)
	}
}
