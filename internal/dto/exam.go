package dto

// PassingScore is the total score above which the result page congratulates the learner.
const PassingScore = 80

// ChoiceResult marks a choice with its correctness and whether it was selected.
type ChoiceResult struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Selected  bool   `json:"selected"`
}

// QuestionResult is the per-question breakdown of a graded submission.
// CountRulePassed reports the looser count based rule so disagreements stay visible.
type QuestionResult struct {
	ID              string         `json:"id"`
	Text            string         `json:"text"`
	Grade           int            `json:"grade"`
	Awarded         int            `json:"awarded"`
	Passed          bool           `json:"passed"`
	CountRulePassed bool           `json:"count_rule_passed"`
	Choices         []ChoiceResult `json:"choices"`
}

// ExamResult is the graded view of one submission.
type ExamResult struct {
	CourseID          string           `json:"course_id"`
	CourseName        string           `json:"course_name"`
	SubmissionID      string           `json:"submission_id"`
	Rule              string           `json:"rule"`
	TotalScore        int              `json:"total_score"`
	PossibleScore     int              `json:"possible_score"`
	SelectedChoiceIDs []string         `json:"selected_choice_ids"`
	Questions         []QuestionResult `json:"questions"`
}

// Passed reports whether the total clears PassingScore.
func (r *ExamResult) Passed() bool {
	return r.TotalScore > PassingScore
}
