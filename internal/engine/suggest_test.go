package engine

import (
	"strings"
	"testing"

	"resumescan/internal/types"
)

func TestCategoryPriority(t *testing.T) {
	tests := []struct {
		score, maxScore int
		want            string
	}{
		{0, 10, types.PriorityHigh},
		{4, 10, types.PriorityHigh},
		{5, 10, types.PriorityMedium},
		{8, 10, types.PriorityMedium},
		{9, 10, types.PriorityLow},
		{10, 10, types.PriorityLow},
		{0, 0, types.PriorityLow},
	}
	for _, tt := range tests {
		if got := categoryPriority(tt.score, tt.maxScore); got != tt.want {
			t.Errorf("categoryPriority(%d, %d) = %s, want %s", tt.score, tt.maxScore, got, tt.want)
		}
	}
}

func TestDedupeSuggestionsKeepsHigherPriority(t *testing.T) {
	suggestions := []types.Suggestion{
		{Priority: types.PriorityHigh, Category: "a", Suggestion: "do the thing", Impact: 5},
		{Priority: types.PriorityMedium, Category: "b", Suggestion: "do the thing", Impact: 9},
		{Priority: types.PriorityMedium, Category: "b", Suggestion: "do another thing", Impact: 2},
	}

	got := dedupeSuggestions(suggestions)
	if len(got) != 2 {
		t.Fatalf("dedupe kept %d suggestions, want 2", len(got))
	}
	if got[0].Priority != types.PriorityHigh {
		t.Errorf("kept instance priority = %s, want high", got[0].Priority)
	}
}

func TestGapSuggestionsGroupByCategory(t *testing.T) {
	match := matchResult{
		missing: []missingTerm{
			{key: "kafka", display: "Kafka", category: "messaging"},
			{key: "terraform", display: "Terraform", category: "infrastructure"},
			{key: "kubernete", display: "Kubernetes", category: "infrastructure"},
			{key: "helm", display: "Helm", category: "infrastructure"},
		},
	}

	got := gapSuggestions(match)
	if len(got) != 2 {
		t.Fatalf("gapSuggestions produced %d suggestions, want one per category: %+v", len(got), got)
	}
	// Groups come out in sorted category order.
	if !strings.Contains(got[0].Suggestion, "infrastructure") {
		t.Errorf("first group = %q, want infrastructure keywords", got[0].Suggestion)
	}
	if !strings.Contains(got[0].Suggestion, "Kubernetes") {
		t.Errorf("suggestion does not name the missing skills: %q", got[0].Suggestion)
	}
	if got[0].Impact < got[1].Impact {
		t.Errorf("larger group should not have smaller impact: %+v", got)
	}
}

func TestGapSuggestionsCapListedSkills(t *testing.T) {
	match := matchResult{
		missing: []missingTerm{
			{display: "A", category: "general"}, {display: "B", category: "general"},
			{display: "C", category: "general"}, {display: "D", category: "general"},
			{display: "E", category: "general"}, {display: "F", category: "general"},
			{display: "G", category: "general"},
		},
	}

	got := gapSuggestions(match)
	if len(got) != 1 {
		t.Fatalf("gapSuggestions produced %d suggestions, want 1", len(got))
	}
	if !strings.Contains(got[0].Suggestion, "and 2 more") {
		t.Errorf("long group not truncated: %q", got[0].Suggestion)
	}
}
