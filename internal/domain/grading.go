package domain

// GradingRule decides whether a selection earns a question's points.
// selected holds choice ids from the whole exam; ids of other questions are ignored.
type GradingRule interface {
	Name() string
	Passes(q Question, selected map[string]struct{}) bool
}

// CountRule passes when the number of the question's correct choices that were
// selected equals the number of its correct choices. Selecting an incorrect
// choice in addition does not fail the question.
type CountRule struct{}

func (CountRule) Name() string { return "count" }

func (CountRule) Passes(q Question, selected map[string]struct{}) bool {
	total, picked := 0, 0
	for _, c := range q.Choices {
		if !c.IsCorrect {
			continue
		}
		total++
		if _, ok := selected[c.ID]; ok {
			picked++
		}
	}
	return total == picked
}

// ExactSetRule passes when the selected choices of the question are exactly
// its correct choices.
type ExactSetRule struct{}

func (ExactSetRule) Name() string { return "exact_set" }

func (ExactSetRule) Passes(q Question, selected map[string]struct{}) bool {
	for _, c := range q.Choices {
		if _, ok := selected[c.ID]; ok != c.IsCorrect {
			return false
		}
	}
	return true
}

// SelectionSet indexes choice ids for the grading rules.
func SelectionSet(choiceIDs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(choiceIDs))
	for _, id := range choiceIDs {
		set[id] = struct{}{}
	}
	return set
}

// IsGetScore applies CountRule to q.
func (q Question) IsGetScore(selectedIDs []string) bool {
	return CountRule{}.Passes(q, SelectionSet(selectedIDs))
}

// CorrectChoiceIDs lists the ids of q's correct choices in stored order.
func (q Question) CorrectChoiceIDs() []string {
	var ids []string
	for _, c := range q.Choices {
		if c.IsCorrect {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// QuestionOutcome is the grading of one question.
type QuestionOutcome struct {
	QuestionID string
	Grade      int
	Awarded    int
	Passed     bool
	Selected   []string

	// Divergent is set when CountRule and ExactSetRule disagree on this question.
	Divergent bool
}

// ExamScore is the grading of a whole submission.
type ExamScore struct {
	Rule     string
	Total    int
	Possible int
	Outcomes []QuestionOutcome
}

// GradeExam awards each question's grade when rule passes it. There is no
// partial credit and no negative scoring.
func GradeExam(questions []Question, selectedIDs []string, rule GradingRule) ExamScore {
	selected := SelectionSet(selectedIDs)
	score := ExamScore{Rule: rule.Name(), Outcomes: make([]QuestionOutcome, 0, len(questions))}
	for _, q := range questions {
		out := QuestionOutcome{QuestionID: q.ID, Grade: q.Grade}
		for _, c := range q.Choices {
			if _, ok := selected[c.ID]; ok {
				out.Selected = append(out.Selected, c.ID)
			}
		}
		out.Passed = rule.Passes(q, selected)
		out.Divergent = CountRule{}.Passes(q, selected) != ExactSetRule{}.Passes(q, selected)
		if out.Passed && q.Grade > 0 {
			out.Awarded = q.Grade
		}
		score.Total += out.Awarded
		if q.Grade > 0 {
			score.Possible += q.Grade
		}
		score.Outcomes = append(score.Outcomes, out)
	}
	return score
}
