package seedmodels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSeed(t, `{
		"staff": {"username": "admin"},
		"courses": [{
			"name": "Intro to Go",
			"lessons": [{"title": "Basics", "order": 0, "content": "..."}],
			"questions": [{"text": "Pick the channel types", "grade": 100,
				"choices": [{"text": "chan int", "is_correct": true}, {"text": "map[int]int"}]}]
		}]
	}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "admin", f.Staff.Username)
	require.Len(t, f.Courses, 1)
	require.Len(t, f.Courses[0].Questions, 1)
	assert.Equal(t, 100, *f.Courses[0].Questions[0].Grade)
	assert.True(t, f.Courses[0].Questions[0].Choices[0].IsCorrect)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "Malformed", body: `{`, wantErr: "unmarshal"},
		{name: "No staff", body: `{"courses": []}`, wantErr: "staff.username"},
		{name: "Unnamed course", body: `{"staff": {"username": "a"}, "courses": [{"name": " "}]}`, wantErr: "courses[0].name"},
		{
			name:    "Duplicate course",
			body:    `{"staff": {"username": "a"}, "courses": [{"name": "x"}, {"name": "x"}]}`,
			wantErr: "duplicate course",
		},
		{
			name:    "No correct choice",
			body:    `{"staff": {"username": "a"}, "courses": [{"name": "x", "questions": [{"text": "q", "choices": [{"text": "c"}]}]}]}`,
			wantErr: "no correct choice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSeed(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
