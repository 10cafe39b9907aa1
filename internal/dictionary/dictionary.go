// Package dictionary provides industry/role reference keyword lists used by
// the skills scorer and the keyword-gap analysis. Dictionaries can come from
// built-in data, JSON files on disk, or a remote HTTP service.
package dictionary

import (
	"context"
	"sort"
	"strings"

	"resumescan/internal/errors"
)

// Term is one reference keyword: a display form plus the category tag used to
// group related missing skills into a single suggestion.
type Term struct {
	Display  string `json:"display"`
	Category string `json:"category"`
}

// Dictionary is a reference keyword list for one industry or role.
type Dictionary struct {
	ID    string `json:"id"`
	Terms []Term `json:"terms"`
}

// Phrases returns the multi-word terms, longest first. The keyword extractor
// matches these as atomic tokens before single-word tokenization.
func (d *Dictionary) Phrases() []string {
	if d == nil {
		return nil
	}
	var phrases []string
	for _, t := range d.Terms {
		display := strings.TrimSpace(t.Display)
		if strings.Contains(display, " ") {
			phrases = append(phrases, strings.ToLower(display))
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}

// Store supplies dictionaries keyed by industry/role identifier. A nil or
// missing dictionary degrades the features that use it; it is never a hard
// failure for analysis.
type Store interface {
	Get(ctx context.Context, id string) (*Dictionary, error)
	List(ctx context.Context) ([]string, error)
}

// StaticStore serves a fixed in-memory set of dictionaries.
type StaticStore struct {
	dicts map[string]*Dictionary
}

// NewStaticStore builds a store over the given dictionaries.
func NewStaticStore(dicts ...*Dictionary) *StaticStore {
	m := make(map[string]*Dictionary, len(dicts))
	for _, d := range dicts {
		m[d.ID] = d
	}
	return &StaticStore{dicts: m}
}

// NewBuiltinStore returns a store with the dictionaries compiled into the
// binary. Used when no file directory or remote endpoint is configured.
func NewBuiltinStore() *StaticStore {
	return NewStaticStore(builtinDictionaries()...)
}

func (s *StaticStore) Get(_ context.Context, id string) (*Dictionary, error) {
	d, ok := s.dicts[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, errors.NewDictionaryError(errors.ErrCodeFileNotFound,
			"dictionary not found", nil).WithContext("dictionary_id", id)
	}
	return d, nil
}

func (s *StaticStore) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.dicts))
	for id := range s.dicts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ChainStore tries each store in order and returns the first hit. List merges
// and deduplicates identifiers across all stores.
type ChainStore struct {
	stores []Store
}

func NewChainStore(stores ...Store) *ChainStore {
	return &ChainStore{stores: stores}
}

func (c *ChainStore) Get(ctx context.Context, id string) (*Dictionary, error) {
	var lastErr error
	for _, s := range c.stores {
		d, err := s.Get(ctx, id)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.NewDictionaryError(errors.ErrCodeFileNotFound,
			"dictionary not found", nil).WithContext("dictionary_id", id)
	}
	return nil, lastErr
}

func (c *ChainStore) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range c.stores {
		sub, err := s.List(ctx)
		if err != nil {
			continue
		}
		for _, id := range sub {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func builtinDictionaries() []*Dictionary {
	return []*Dictionary{
		{
			ID: "software-engineering",
			Terms: []Term{
				{Display: "Go", Category: "languages"},
				{Display: "Python", Category: "languages"},
				{Display: "Java", Category: "languages"},
				{Display: "TypeScript", Category: "languages"},
				{Display: "JavaScript", Category: "languages"},
				{Display: "Rust", Category: "languages"},
				{Display: "SQL", Category: "languages"},
				{Display: "React", Category: "frameworks"},
				{Display: "Node.js", Category: "frameworks"},
				{Display: "Spring Boot", Category: "frameworks"},
				{Display: "Django", Category: "frameworks"},
				{Display: "gRPC", Category: "frameworks"},
				{Display: "REST API", Category: "frameworks"},
				{Display: "GraphQL", Category: "frameworks"},
				{Display: "Docker", Category: "infrastructure"},
				{Display: "Kubernetes", Category: "infrastructure"},
				{Display: "Terraform", Category: "infrastructure"},
				{Display: "AWS", Category: "cloud"},
				{Display: "Google Cloud", Category: "cloud"},
				{Display: "Azure", Category: "cloud"},
				{Display: "PostgreSQL", Category: "databases"},
				{Display: "MySQL", Category: "databases"},
				{Display: "MongoDB", Category: "databases"},
				{Display: "Redis", Category: "databases"},
				{Display: "Kafka", Category: "messaging"},
				{Display: "CI/CD", Category: "practices"},
				{Display: "Unit Testing", Category: "practices"},
				{Display: "Code Review", Category: "practices"},
				{Display: "Microservices", Category: "architecture"},
				{Display: "Distributed Systems", Category: "architecture"},
				{Display: "System Design", Category: "architecture"},
				{Display: "Agile", Category: "practices"},
				{Display: "Git", Category: "tools"},
				{Display: "Linux", Category: "tools"},
			},
		},
		{
			ID: "data-science",
			Terms: []Term{
				{Display: "Python", Category: "languages"},
				{Display: "R", Category: "languages"},
				{Display: "SQL", Category: "languages"},
				{Display: "Machine Learning", Category: "modeling"},
				{Display: "Deep Learning", Category: "modeling"},
				{Display: "Natural Language Processing", Category: "modeling"},
				{Display: "Statistical Analysis", Category: "modeling"},
				{Display: "A/B Testing", Category: "modeling"},
				{Display: "TensorFlow", Category: "frameworks"},
				{Display: "PyTorch", Category: "frameworks"},
				{Display: "scikit-learn", Category: "frameworks"},
				{Display: "Pandas", Category: "frameworks"},
				{Display: "NumPy", Category: "frameworks"},
				{Display: "Spark", Category: "data-platforms"},
				{Display: "Airflow", Category: "data-platforms"},
				{Display: "Snowflake", Category: "data-platforms"},
				{Display: "BigQuery", Category: "data-platforms"},
				{Display: "Data Visualization", Category: "communication"},
				{Display: "Tableau", Category: "communication"},
				{Display: "ETL", Category: "data-platforms"},
				{Display: "Feature Engineering", Category: "modeling"},
				{Display: "Data Pipeline", Category: "data-platforms"},
			},
		},
		{
			ID: "devops",
			Terms: []Term{
				{Display: "Kubernetes", Category: "orchestration"},
				{Display: "Docker", Category: "orchestration"},
				{Display: "Helm", Category: "orchestration"},
				{Display: "Terraform", Category: "infrastructure-as-code"},
				{Display: "Ansible", Category: "infrastructure-as-code"},
				{Display: "Pulumi", Category: "infrastructure-as-code"},
				{Display: "AWS", Category: "cloud"},
				{Display: "Google Cloud", Category: "cloud"},
				{Display: "Azure", Category: "cloud"},
				{Display: "Jenkins", Category: "ci-cd"},
				{Display: "GitHub Actions", Category: "ci-cd"},
				{Display: "GitLab CI", Category: "ci-cd"},
				{Display: "ArgoCD", Category: "ci-cd"},
				{Display: "Prometheus", Category: "observability"},
				{Display: "Grafana", Category: "observability"},
				{Display: "OpenTelemetry", Category: "observability"},
				{Display: "Incident Response", Category: "operations"},
				{Display: "Site Reliability Engineering", Category: "operations"},
				{Display: "Load Balancing", Category: "networking"},
				{Display: "DNS", Category: "networking"},
				{Display: "Bash", Category: "scripting"},
				{Display: "Python", Category: "scripting"},
				{Display: "Go", Category: "scripting"},
			},
		},
		{
			ID: "product-management",
			Terms: []Term{
				{Display: "Product Strategy", Category: "strategy"},
				{Display: "Roadmap", Category: "strategy"},
				{Display: "Market Research", Category: "discovery"},
				{Display: "User Research", Category: "discovery"},
				{Display: "Customer Interviews", Category: "discovery"},
				{Display: "A/B Testing", Category: "analytics"},
				{Display: "Product Analytics", Category: "analytics"},
				{Display: "KPI", Category: "analytics"},
				{Display: "OKR", Category: "analytics"},
				{Display: "Agile", Category: "delivery"},
				{Display: "Scrum", Category: "delivery"},
				{Display: "Backlog Grooming", Category: "delivery"},
				{Display: "Stakeholder Management", Category: "communication"},
				{Display: "Go-to-Market", Category: "strategy"},
				{Display: "Pricing", Category: "strategy"},
				{Display: "Wireframing", Category: "design"},
				{Display: "User Stories", Category: "delivery"},
			},
		},
	}
}
