package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticStoreGet(t *testing.T) {
	store := NewStaticStore(&Dictionary{
		ID:    "software-engineering",
		Terms: []Term{{Display: "Go", Category: "languages"}},
	})

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"exact id", "software-engineering", false},
		{"case insensitive", "Software-Engineering", false},
		{"padded id", "  software-engineering ", false},
		{"unknown id", "basket-weaving", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Get(context.Background(), tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Get(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestBuiltinStoreList(t *testing.T) {
	store := NewBuiltinStore()
	ids, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) == 0 {
		t.Fatal("builtin store has no dictionaries")
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}

	for _, id := range ids {
		d, err := store.Get(context.Background(), id)
		if err != nil {
			t.Errorf("Get(%q) error = %v", id, err)
			continue
		}
		if len(d.Terms) == 0 {
			t.Errorf("builtin dictionary %q has no terms", id)
		}
	}
}

func TestPhrases(t *testing.T) {
	d := &Dictionary{
		ID: "test",
		Terms: []Term{
			{Display: "Go", Category: "languages"},
			{Display: "Machine Learning", Category: "modeling"},
			{Display: "Machine Learning Operations", Category: "modeling"},
			{Display: "CI/CD", Category: "practices"},
		},
	}

	got := d.Phrases()
	if len(got) != 2 {
		t.Fatalf("Phrases() = %v, want 2 multi-word entries", got)
	}
	if got[0] != "machine learning operations" || got[1] != "machine learning" {
		t.Errorf("Phrases() = %v, want longest first", got)
	}

	var nilDict *Dictionary
	if phrases := nilDict.Phrases(); phrases != nil {
		t.Errorf("nil dictionary Phrases() = %v, want nil", phrases)
	}
}

func TestChainStoreFallsThrough(t *testing.T) {
	primary := NewStaticStore(&Dictionary{ID: "alpha", Terms: []Term{{Display: "A"}}})
	secondary := NewStaticStore(
		&Dictionary{ID: "alpha", Terms: []Term{{Display: "shadowed"}}},
		&Dictionary{ID: "beta", Terms: []Term{{Display: "B"}}},
	)
	chain := NewChainStore(primary, secondary)

	d, err := chain.Get(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Get(alpha) error = %v", err)
	}
	if d.Terms[0].Display != "A" {
		t.Errorf("chain did not prefer the first store: %+v", d)
	}

	if _, err := chain.Get(context.Background(), "beta"); err != nil {
		t.Errorf("Get(beta) error = %v, want fallback hit", err)
	}
	if _, err := chain.Get(context.Background(), "gamma"); err == nil {
		t.Errorf("Get(gamma) succeeded, want miss")
	}

	ids, err := chain.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("List() = %v, want merged [alpha beta]", ids)
	}
}

func writeDictFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	writeDictFile(t, dir, "backend.json",
		`{"id": "backend", "terms": [{"display": "Go", "category": "languages"}]}`)
	writeDictFile(t, dir, "no-id.json",
		`{"terms": [{"display": "SQL", "category": "languages"}]}`)
	writeDictFile(t, dir, "broken.json", `{not json`)
	writeDictFile(t, dir, "notes.txt", `ignored`)

	store, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	ids, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("List() = %v, want [backend no-id]", ids)
	}

	d, err := store.Get(context.Background(), "backend")
	if err != nil {
		t.Fatalf("Get(backend) error = %v", err)
	}
	if len(d.Terms) != 1 || d.Terms[0].Display != "Go" {
		t.Errorf("Get(backend) = %+v", d)
	}

	// Files without an explicit id fall back to the file name.
	if _, err := store.Get(context.Background(), "no-id"); err != nil {
		t.Errorf("Get(no-id) error = %v", err)
	}
}

func TestFileStoreReloadPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	writeDictFile(t, dir, "backend.json", `{"id": "backend", "terms": [{"display": "Go"}]}`)

	store, err := NewFileStore(dir, nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	reloads := 0
	store.SetReloadHook(func() { reloads++ })

	writeDictFile(t, dir, "frontend.json", `{"id": "frontend", "terms": [{"display": "React"}]}`)
	if err := store.reload(); err != nil {
		t.Fatalf("reload() error = %v", err)
	}

	if _, err := store.Get(context.Background(), "frontend"); err != nil {
		t.Errorf("Get(frontend) after reload error = %v", err)
	}
	if reloads != 1 {
		t.Errorf("reload hook fired %d times, want 1", reloads)
	}
}

func TestFileStoreMissingDirectory(t *testing.T) {
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "absent"), nil); err == nil {
		t.Error("NewFileStore() on a missing directory succeeded, want error")
	}
}
