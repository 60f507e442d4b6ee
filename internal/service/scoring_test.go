package service

import (
	"testing"

	"onlinecourse_backend/internal/model"
)

func choice(id uint, correct bool) model.Choice {
	c := model.Choice{ChoiceText: "c", IsCorrect: correct}
	c.ID = id
	return c
}

func question(id uint, grade int, choices ...model.Choice) model.Question {
	q := model.Question{QuestionText: "q", Grade: grade, Choices: choices}
	q.ID = id
	return q
}

func set(ids ...uint) map[uint]struct{} {
	s := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func TestIsQuestionCorrect(t *testing.T) {
	q := question(1, 5, choice(1, true), choice(2, true), choice(3, false))

	cases := []struct {
		name     string
		selected map[uint]struct{}
		want     bool
	}{
		{"exact match", set(1, 2), true},
		{"missing one correct", set(1), false},
		{"extra wrong choice", set(1, 2, 3), false},
		{"nothing selected", set(), false},
		{"choices of other questions ignored", set(1, 2, 99), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsQuestionCorrect(&q, tc.selected); got != tc.want {
				t.Fatalf("IsQuestionCorrect: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestIsQuestionCorrect_NoCorrectChoices(t *testing.T) {
	q := question(1, 5, choice(1, false), choice(2, false))
	if !IsQuestionCorrect(&q, set()) {
		t.Fatalf("empty selection should match empty correct set")
	}
	if IsQuestionCorrect(&q, set(2)) {
		t.Fatalf("selecting an incorrect choice should fail")
	}

	empty := question(2, 3)
	if !IsQuestionCorrect(&empty, set(7)) {
		t.Fatalf("question without choices should be correct")
	}
}

func TestScoreSubmission(t *testing.T) {
	// Q1: 正确选项 {1,2}，分值 5；Q2: 正确选项 {4}，分值 5
	questions := []model.Question{
		question(1, 5, choice(1, true), choice(2, true), choice(3, false)),
		question(2, 5, choice(4, true), choice(5, false)),
	}

	score := ScoreSubmission(questions, set(1, 2, 4), 80)
	if score.TotalScore != 10 {
		t.Fatalf("total: want=10 got=%d", score.TotalScore)
	}
	if score.PossibleScore != 10 {
		t.Fatalf("possible: want=10 got=%d", score.PossibleScore)
	}
	if score.Percentage != 100 || !score.Passed {
		t.Fatalf("percentage/passed: got=%v/%v", score.Percentage, score.Passed)
	}
	if len(score.Results) != 2 || score.Results[0].Question.ID != 1 || score.Results[1].Question.ID != 2 {
		t.Fatalf("results order: got=%+v", score.Results)
	}
	if !score.Results[0].Choices[0].Selected || score.Results[0].Choices[2].Selected {
		t.Fatalf("selected flags wrong: %+v", score.Results[0].Choices)
	}

	partial := ScoreSubmission(questions, set(1, 4), 80)
	if partial.TotalScore != 5 {
		t.Fatalf("partial total: want=5 got=%d", partial.TotalScore)
	}
	if partial.Results[0].IsCorrect || partial.Results[0].Earned != 0 {
		t.Fatalf("Q1 should be wrong: %+v", partial.Results[0])
	}
	if !partial.Results[1].IsCorrect || partial.Results[1].Earned != 5 {
		t.Fatalf("Q2 should be right: %+v", partial.Results[1])
	}
	if partial.Passed {
		t.Fatalf("50%% should not pass")
	}
}

func TestScoreSubmission_PassThresholdIsStrict(t *testing.T) {
	questions := []model.Question{
		question(1, 4, choice(1, true)),
		question(2, 1, choice(2, true)),
	}
	score := ScoreSubmission(questions, set(1), 80)
	if score.Percentage != 80 {
		t.Fatalf("percentage: want=80 got=%v", score.Percentage)
	}
	if score.Passed {
		t.Fatalf("exactly the threshold should not pass")
	}
}

func TestScoreSubmission_Deterministic(t *testing.T) {
	questions := []model.Question{
		question(1, 3, choice(1, true), choice(2, false)),
		question(2, 7, choice(3, true)),
	}
	selected := set(1, 3)
	first := ScoreSubmission(questions, selected, 80)
	for i := 0; i < 5; i++ {
		again := ScoreSubmission(questions, selected, 80)
		if again.TotalScore != first.TotalScore || again.Percentage != first.Percentage {
			t.Fatalf("score changed between runs: first=%+v again=%+v", first, again)
		}
	}
}

func TestScoreSubmission_NoQuestions(t *testing.T) {
	score := ScoreSubmission(nil, set(1), 80)
	if score.TotalScore != 0 || score.PossibleScore != 0 || score.Percentage != 0 || score.Passed {
		t.Fatalf("empty exam: got=%+v", score)
	}
}
