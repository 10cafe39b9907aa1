package engine

import (
	"encoding/json"
	"strings"

	"resumescan/internal/errors"
	"resumescan/internal/types"
)

// ParseRecord decodes raw JSON into a resume record. The only rejected shape
// is input that is not a JSON object; every defect inside the object degrades
// to defaults during normalization instead.
func ParseRecord(data []byte) (types.RawResumeRecord, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errors.NewInputError(errors.ErrCodeInvalidInput,
			"resume data is empty", nil)
	}

	var record types.RawResumeRecord
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return nil, errors.NewInputError(errors.ErrCodeInvalidInput,
			"resume data is not a JSON object", err)
	}
	// JSON null decodes into a nil map without error; it is not an object.
	if record == nil {
		return nil, errors.NewInputError(errors.ErrCodeInvalidInput,
			"resume data is not a JSON object", nil)
	}
	return record, nil
}

// Normalize converts a raw resume record into the canonical profile. This
// stage is total: missing or wrongly-typed fields become empty defaults, all
// strings are trimmed, and every sequence field comes back non-nil.
func Normalize(record types.RawResumeRecord) types.ResumeProfile {
	profile := types.ResumeProfile{
		Experience:   []types.Experience{},
		Education:    []types.Education{},
		Projects:     []types.Project{},
		Achievements: []string{},
		Skills: types.SkillSets{
			Technical: []types.Skill{},
			Tools:     []types.Skill{},
			Soft:      []types.Skill{},
		},
	}
	if record == nil {
		return profile
	}

	profile.Personal = normalizePersonal(record)
	profile.Summary = firstString(record, "summary", "objective", "about")
	profile.Experience = normalizeExperience(firstRaw(record, "experience", "workExperience", "work"))
	profile.Education = normalizeEducation(record["education"])
	profile.Skills = normalizeSkills(record["skills"])
	profile.Projects = normalizeProjects(record["projects"])
	profile.Achievements = normalizeAchievements(record)

	return profile
}

func normalizePersonal(record types.RawResumeRecord) types.PersonalInfo {
	// Contact fields may live in a nested object or at the top level.
	fields := record
	if nested := asObject(firstRaw(record, "personal", "personalInfo", "contact")); nested != nil {
		fields = nested
	}
	return types.PersonalInfo{
		Name:     firstString(fields, "name", "fullName"),
		Email:    firstString(fields, "email"),
		Phone:    firstString(fields, "phone", "phoneNumber"),
		Location: firstString(fields, "location", "address", "city"),
	}
}

func normalizeExperience(raw json.RawMessage) []types.Experience {
	entries := []types.Experience{}
	for _, item := range asArray(raw) {
		obj := asObject(item)
		if obj == nil {
			continue
		}
		entry := types.Experience{
			Title:        firstString(obj, "title", "position", "role"),
			Company:      firstString(obj, "company", "employer", "organization"),
			Location:     firstString(obj, "location"),
			StartDate:    firstString(obj, "startDate", "start", "from"),
			EndDate:      firstString(obj, "endDate", "end", "to"),
			Description:  firstString(obj, "description"),
			Achievements: asStringSlice(firstRaw(obj, "achievements", "highlights", "bullets")),
		}
		if entry.Achievements == nil {
			entry.Achievements = []string{}
		}
		if isZeroExperience(entry) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func isZeroExperience(e types.Experience) bool {
	return e.Title == "" && e.Company == "" && e.Description == "" &&
		len(e.Achievements) == 0
}

func normalizeEducation(raw json.RawMessage) []types.Education {
	entries := []types.Education{}
	for _, item := range asArray(raw) {
		obj := asObject(item)
		if obj == nil {
			continue
		}
		entry := types.Education{
			Degree:      firstString(obj, "degree", "qualification"),
			Institution: firstString(obj, "institution", "school", "university"),
			Dates:       firstString(obj, "dates", "year", "graduationDate", "graduationYear"),
		}
		if entry.Degree == "" && entry.Institution == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func normalizeSkills(raw json.RawMessage) types.SkillSets {
	sets := types.SkillSets{
		Technical: []types.Skill{},
		Tools:     []types.Skill{},
		Soft:      []types.Skill{},
	}

	// A bare array of strings counts as the technical set.
	if flat := asStringSlice(raw); flat != nil {
		sets.Technical = makeSkillSet(flat)
		return sets
	}

	obj := asObject(raw)
	if obj == nil {
		return sets
	}
	sets.Technical = makeSkillSet(asStringSlice(firstRaw(obj, "technical", "hard")))
	sets.Tools = makeSkillSet(asStringSlice(firstRaw(obj, "tools")))
	sets.Soft = makeSkillSet(asStringSlice(firstRaw(obj, "soft", "interpersonal")))
	return sets
}

// makeSkillSet trims, drops empties, and deduplicates by matching key while
// retaining the first-seen display casing.
func makeSkillSet(values []string) []types.Skill {
	skills := []types.Skill{}
	seen := make(map[string]bool)
	for _, v := range values {
		display := strings.TrimSpace(v)
		if display == "" {
			continue
		}
		key := strings.ToLower(display)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, types.Skill{Display: display, Key: key})
	}
	return skills
}

func normalizeProjects(raw json.RawMessage) []types.Project {
	projects := []types.Project{}
	for _, item := range asArray(raw) {
		obj := asObject(item)
		if obj == nil {
			continue
		}
		project := types.Project{
			Title:        firstString(obj, "title", "name"),
			Description:  firstString(obj, "description"),
			Technologies: makeSkillSet(asStringSlice(firstRaw(obj, "technologies", "stack", "tech"))),
			Links:        asStringSlice(firstRaw(obj, "links", "url", "link")),
		}
		if project.Links == nil {
			project.Links = []string{}
		}
		if project.Title == "" && project.Description == "" {
			continue
		}
		projects = append(projects, project)
	}
	return projects
}

func normalizeAchievements(record types.RawResumeRecord) []string {
	merged := []string{}
	seen := make(map[string]bool)
	for _, key := range []string{"achievements", "certifications", "awards", "publications"} {
		for _, v := range asStringSlice(record[key]) {
			v = strings.TrimSpace(v)
			if v == "" || seen[strings.ToLower(v)] {
				continue
			}
			seen[strings.ToLower(v)] = true
			merged = append(merged, v)
		}
	}
	return merged
}

// firstRaw returns the first present key's raw value.
func firstRaw(obj map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			return raw
		}
	}
	return nil
}

// firstString returns the first key that decodes to a non-empty string.
func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		var s string
		if err := json.Unmarshal(obj[key], &s); err == nil {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func asObject(raw json.RawMessage) map[string]json.RawMessage {
	if raw == nil {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

func asArray(raw json.RawMessage) []json.RawMessage {
	if raw == nil {
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	return arr
}

// asStringSlice decodes an array of strings, skipping non-string elements. A
// bare string decodes to a single-element slice.
func asStringSlice(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if trimmed := strings.TrimSpace(single); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	arr := asArray(raw)
	if arr == nil {
		return nil
	}
	out := []string{}
	for _, item := range arr {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
