package seedmodels

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SeedChoice defines the structure for an answer option in the JSON seed file.
type SeedChoice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// SeedQuestion defines the structure for an exam question in the JSON seed file.
type SeedQuestion struct {
	Text    string       `json:"text"`
	Grade   *int         `json:"grade,omitempty"`
	Choices []SeedChoice `json:"choices"`
}

// SeedLesson defines the structure for a lesson in the JSON seed file.
type SeedLesson struct {
	Title   string `json:"title"`
	Order   int    `json:"order"`
	Content string `json:"content"`
}

// SeedCourse defines the structure for a course in the JSON seed file.
type SeedCourse struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	PubDate     string         `json:"pub_date,omitempty"`
	Lessons     []SeedLesson   `json:"lessons"`
	Questions   []SeedQuestion `json:"questions"`
}

// SeedStaff is the back-office account that owns the seeded courses.
type SeedStaff struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SeedFile is the top level of the JSON seed file.
type SeedFile struct {
	Staff   SeedStaff    `json:"staff"`
	Courses []SeedCourse `json:"courses"`
}

// Load reads and checks a seed file.
func Load(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var f SeedFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed file %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate rejects seed data the admin service would refuse.
func (f *SeedFile) Validate() error {
	if strings.TrimSpace(f.Staff.Username) == "" {
		return fmt.Errorf("seed file: staff.username is required")
	}
	seen := make(map[string]struct{}, len(f.Courses))
	for i, c := range f.Courses {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("seed file: courses[%d].name is required", i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("seed file: duplicate course %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		for j, q := range c.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return fmt.Errorf("seed file: courses[%d].questions[%d].text is required", i, j)
			}
			correct := 0
			for _, ch := range q.Choices {
				if ch.IsCorrect {
					correct++
				}
			}
			if correct == 0 {
				return fmt.Errorf("seed file: courses[%d].questions[%d] has no correct choice", i, j)
			}
		}
	}
	return nil
}
