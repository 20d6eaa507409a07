package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !p.Empty() {
		t.Fatal("expected empty profile for missing file")
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for corrupt profile")
	}
}

func TestLoadParsesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.json")
	data := `{
		"name": "Jo Developer",
		"title": "Backend Engineer",
		"summary": "Builds services.",
		"experience": [
			{"role": "Engineer", "company": "Acme", "period": "2020-2024", "description": "APIs", "technologies": ["Go"]}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Empty() {
		t.Fatal("expected non-empty profile")
	}
	if p.Name != "Jo Developer" || len(p.Experience) != 1 {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestSummarizeEmptyProfile(t *testing.T) {
	got := Profile{}.Summarize()
	if !strings.Contains(got, "No CV profile loaded") {
		t.Fatalf("expected empty-profile notice, got %q", got)
	}
}

func TestSummarizeIncludesSections(t *testing.T) {
	p := Profile{
		Name:    "Jo Developer",
		Title:   "Backend Engineer",
		Summary: "Builds services.",
		Experience: []Experience{
			{Role: "Engineer", Company: "Acme", Period: "2020-2024", Description: "APIs", Technologies: []string{"Go", "Postgres"}},
		},
		Languages: []Language{{Language: "English", Level: "Fluent"}},
		Preferences: &Preferences{
			WorkType:          "remote",
			NoticePeriod:      "2 weeks",
			WillingToRelocate: false,
		},
	}

	got := p.Summarize()
	for _, want := range []string{"Jo Developer", "Engineer @ Acme", "Go, Postgres", "English: Fluent", "Relocate: No"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in summary:\n%s", want, got)
		}
	}
}
