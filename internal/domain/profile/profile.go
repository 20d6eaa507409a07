// Package profile loads the candidate's CV profile used to ground
// generated replies.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Profile is the candidate's CV as stored on disk.
type Profile struct {
	Name        string              `json:"name"`
	Title       string              `json:"title"`
	Summary     string              `json:"summary"`
	Experience  []Experience        `json:"experience,omitempty"`
	Education   []Education         `json:"education,omitempty"`
	Skills      map[string][]string `json:"skills,omitempty"`
	Languages   []Language          `json:"languages,omitempty"`
	Preferences *Preferences        `json:"preferences,omitempty"`
}

// Experience is one employment entry.
type Experience struct {
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

// Education is one degree entry.
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

// Language is one spoken-language entry.
type Language struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// Preferences captures work-arrangement preferences.
type Preferences struct {
	WorkType          string `json:"work_type"`
	NoticePeriod      string `json:"notice_period"`
	WillingToRelocate bool   `json:"willing_to_relocate"`
}

// Load reads the profile JSON at path. A missing file is not an error: the
// service answers from general professional etiquette with an empty profile.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Empty reports whether no profile data was loaded.
func (p Profile) Empty() bool {
	return p.Name == "" && p.Title == "" && p.Summary == "" &&
		len(p.Experience) == 0 && len(p.Skills) == 0
}

// Summarize renders the profile as a plain-text block for the generation
// system prompt.
func (p Profile) Summarize() string {
	if p.Empty() {
		return "No CV profile loaded. Respond based on general professional etiquette."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s  |  Title: %s\n", orNA(p.Name), orNA(p.Title))
	if p.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", p.Summary)
	}

	if len(p.Experience) > 0 {
		b.WriteString("\nExperience:\n")
		for _, e := range p.Experience {
			fmt.Fprintf(&b, "  - %s @ %s (%s): %s\n", e.Role, e.Company, e.Period, e.Description)
			if len(e.Technologies) > 0 {
				fmt.Fprintf(&b, "    Tech: %s\n", strings.Join(e.Technologies, ", "))
			}
		}
	}

	if len(p.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, e := range p.Education {
			fmt.Fprintf(&b, "  - %s %s, %s (%s)\n", e.Degree, e.Field, e.Institution, e.Period)
		}
	}

	if len(p.Skills) > 0 {
		b.WriteString("\nSkills:\n")
		for category, items := range p.Skills {
			fmt.Fprintf(&b, "  %s: %s\n", category, strings.Join(items, ", "))
		}
	}

	if len(p.Languages) > 0 {
		parts := make([]string, 0, len(p.Languages))
		for _, l := range p.Languages {
			parts = append(parts, l.Language+": "+l.Level)
		}
		fmt.Fprintf(&b, "\nLanguages: %s\n", strings.Join(parts, ", "))
	}

	if p.Preferences != nil {
		relocate := "No"
		if p.Preferences.WillingToRelocate {
			relocate = "Yes"
		}
		fmt.Fprintf(&b, "\nPreferences: %s | Notice: %s | Relocate: %s\n",
			p.Preferences.WorkType, p.Preferences.NoticePeriod, relocate)
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
