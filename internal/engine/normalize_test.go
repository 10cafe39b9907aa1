package engine

import (
	"encoding/json"
	"testing"

	"resumescan/internal/types"
)

func mustRecord(t *testing.T, src string) types.RawResumeRecord {
	t.Helper()
	record, err := ParseRecord([]byte(src))
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	return record
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid object", `{"name": "Ada Lovelace"}`, false},
		{"empty object", `{}`, false},
		{"empty input", ``, true},
		{"whitespace only", `   `, true},
		{"null input", `null`, true},
		{"array input", `[1, 2, 3]`, true},
		{"string input", `"resume"`, true},
		{"number input", `42`, true},
		{"malformed json", `{"name":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizePersonal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.PersonalInfo
	}{
		{
			name:  "flat fields",
			input: `{"name": " Ada Lovelace ", "email": "ada@example.com", "phone": "+1 555 0100", "location": "London"}`,
			want: types.PersonalInfo{
				Name: "Ada Lovelace", Email: "ada@example.com",
				Phone: "+1 555 0100", Location: "London",
			},
		},
		{
			name:  "nested personal object",
			input: `{"personal": {"name": "Grace Hopper", "email": "grace@example.com"}}`,
			want:  types.PersonalInfo{Name: "Grace Hopper", Email: "grace@example.com"},
		},
		{
			name:  "alternate key spellings",
			input: `{"personalInfo": {"fullName": "Alan Turing", "phoneNumber": "555-0101", "city": "Manchester"}}`,
			want:  types.PersonalInfo{Name: "Alan Turing", Phone: "555-0101", Location: "Manchester"},
		},
		{
			name:  "wrong types become defaults",
			input: `{"name": 42, "email": ["a"], "phone": null}`,
			want:  types.PersonalInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(mustRecord(t, tt.input)).Personal
			if got != tt.want {
				t.Errorf("Normalize().Personal = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	t.Run("bare array becomes technical set", func(t *testing.T) {
		profile := Normalize(mustRecord(t, `{"skills": ["Go", "Python", "go", "  "]}`))
		got := profile.Skills.Technical
		if len(got) != 2 {
			t.Fatalf("technical skills = %v, want 2 deduplicated entries", got)
		}
		if got[0].Display != "Go" || got[0].Key != "go" {
			t.Errorf("first skill = %+v, want display Go with key go", got[0])
		}
	})

	t.Run("labeled sets", func(t *testing.T) {
		profile := Normalize(mustRecord(t,
			`{"skills": {"technical": ["Rust"], "tools": ["Git"], "soft": ["Communication"]}}`))
		if len(profile.Skills.Technical) != 1 || len(profile.Skills.Tools) != 1 || len(profile.Skills.Soft) != 1 {
			t.Errorf("skill sets = %+v, want one entry each", profile.Skills)
		}
	})

	t.Run("non-string elements skipped", func(t *testing.T) {
		profile := Normalize(mustRecord(t, `{"skills": ["Go", 7, null, {"x": 1}, "SQL"]}`))
		if len(profile.Skills.Technical) != 2 {
			t.Errorf("technical skills = %v, want 2", profile.Skills.Technical)
		}
	})
}

func TestNormalizeExperience(t *testing.T) {
	profile := Normalize(mustRecord(t, `{
		"experience": [
			{"title": "Engineer", "company": "Acme", "startDate": "2020", "endDate": "2023",
			 "description": "Built things", "achievements": ["Shipped v1", 99, "Cut costs"]},
			{"position": "Lead", "employer": "Initech", "highlights": ["Led team"]},
			{},
			"not an object"
		]
	}`))

	if len(profile.Experience) != 2 {
		t.Fatalf("experience entries = %d, want 2", len(profile.Experience))
	}
	first := profile.Experience[0]
	if first.Title != "Engineer" || first.Company != "Acme" {
		t.Errorf("first entry = %+v", first)
	}
	if len(first.Achievements) != 2 {
		t.Errorf("first entry achievements = %v, want 2 strings", first.Achievements)
	}
	second := profile.Experience[1]
	if second.Title != "Lead" || second.Company != "Initech" || len(second.Achievements) != 1 {
		t.Errorf("alternate keys not mapped: %+v", second)
	}
}

func TestNormalizeAchievementsMergesSections(t *testing.T) {
	profile := Normalize(mustRecord(t, `{
		"achievements": ["AWS Certified"],
		"certifications": ["CKA", "aws certified"],
		"awards": ["Hackathon Winner 2023"]
	}`))

	if len(profile.Achievements) != 3 {
		t.Errorf("achievements = %v, want 3 deduplicated entries", profile.Achievements)
	}
}

func TestNormalizeTotalOnGarbage(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"experience": "ten years", "education": 5, "skills": true, "projects": {"a": 1}}`,
		`{"summary": null, "achievements": {"x": "y"}}`,
	}
	for _, input := range inputs {
		profile := Normalize(mustRecord(t, input))
		if profile.Experience == nil || profile.Education == nil ||
			profile.Projects == nil || profile.Achievements == nil ||
			profile.Skills.Technical == nil || profile.Skills.Tools == nil ||
			profile.Skills.Soft == nil {
			t.Errorf("Normalize(%s) left a nil container: %+v", input, profile)
		}
	}

	// nil record is also fine
	profile := Normalize(nil)
	if profile.Experience == nil || profile.Skills.Technical == nil {
		t.Errorf("Normalize(nil) left a nil container: %+v", profile)
	}
}

func TestNormalizeProjects(t *testing.T) {
	profile := Normalize(mustRecord(t, `{
		"projects": [
			{"name": "resumescan", "description": "ATS scorer", "technologies": ["Go", "Docker"], "url": "https://example.com"},
			{"title": ""}
		]
	}`))

	if len(profile.Projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(profile.Projects))
	}
	p := profile.Projects[0]
	if p.Title != "resumescan" || len(p.Technologies) != 2 || len(p.Links) != 1 {
		t.Errorf("project = %+v", p)
	}
}

func TestNormalizeProfileSerializes(t *testing.T) {
	profile := Normalize(mustRecord(t, `{"name": "Ada"}`))
	if _, err := json.Marshal(profile); err != nil {
		t.Errorf("profile does not marshal: %v", err)
	}
}
