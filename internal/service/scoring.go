package service

import "onlinecourse_backend/internal/model"

// ChoiceResult 单个选项在结果页中的展示状态
type ChoiceResult struct {
	Choice   model.Choice `json:"choice"`
	Selected bool         `json:"selected"`
}

// QuestionResult 单题判分结果
type QuestionResult struct {
	Question  model.Question `json:"question"`
	IsCorrect bool           `json:"isCorrect"`
	Earned    int            `json:"earned"`
	Choices   []ChoiceResult `json:"choices"`
}

// ExamScore 一次提交的完整判分结果，不落库，每次查看时重新计算
type ExamScore struct {
	TotalScore    int              `json:"totalScore"`
	PossibleScore int              `json:"possibleScore"`
	Percentage    float64          `json:"percentage"`
	Passed        bool             `json:"passed"`
	Results       []QuestionResult `json:"results"`
}

// IsQuestionCorrect 所选选项中属于本题的部分必须与正确选项集合完全一致。
// 其他题目的选项不影响本题；没有选项的题目视为答对。
func IsQuestionCorrect(q *model.Question, selected map[uint]struct{}) bool {
	for _, ch := range q.Choices {
		_, picked := selected[ch.ID]
		if picked != ch.IsCorrect {
			return false
		}
	}
	return true
}

// ScoreSubmission 按题目顺序逐题判分并累加分值
func ScoreSubmission(questions []model.Question, selected map[uint]struct{}, passPercentage float64) ExamScore {
	score := ExamScore{Results: make([]QuestionResult, 0, len(questions))}

	for i := range questions {
		q := &questions[i]
		correct := IsQuestionCorrect(q, selected)

		r := QuestionResult{
			Question:  *q,
			IsCorrect: correct,
			Choices:   make([]ChoiceResult, 0, len(q.Choices)),
		}
		r.Question.Choices = nil
		for _, ch := range q.Choices {
			_, picked := selected[ch.ID]
			r.Choices = append(r.Choices, ChoiceResult{Choice: ch, Selected: picked})
		}
		if correct {
			r.Earned = q.Grade
			score.TotalScore += q.Grade
		}
		score.PossibleScore += q.Grade
		score.Results = append(score.Results, r)
	}

	if score.PossibleScore > 0 {
		score.Percentage = float64(score.TotalScore) * 100 / float64(score.PossibleScore)
	}
	score.Passed = score.Percentage > passPercentage
	return score
}
