package service

import (
	"context"
	"errors"
	"testing"

	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/testutil"
	"onlinecourse_backend/internal/util"
)

type examFixture struct {
	s          *services
	user       *model.User
	course     *model.Course
	q1, q2     *model.Question
	enrollment *model.Enrollment
}

// Q1 分值 5（正确选项为前两项），Q2 分值 5（正确选项为第一项）
func newExamFixture(t *testing.T) *examFixture {
	t.Helper()
	s := newServices(t)
	user := testutil.User(t, s.db, "learner", model.RoleLearner)
	course := testutil.Course(t, s.db, "exam", 0)
	q1 := testutil.Question(t, s.db, course.ID, "Q1", 5,
		testutil.ChoiceFixture{Text: "a", Correct: true},
		testutil.ChoiceFixture{Text: "b", Correct: true},
		testutil.ChoiceFixture{Text: "c"},
	)
	q2 := testutil.Question(t, s.db, course.ID, "Q2", 5,
		testutil.ChoiceFixture{Text: "d", Correct: true},
		testutil.ChoiceFixture{Text: "e"},
	)
	e := testutil.Enroll(t, s.db, user.ID, course.ID)
	return &examFixture{s: s, user: user, course: course, q1: q1, q2: q2, enrollment: e}
}

func (f *examFixture) claims(u *model.User) *util.Claims {
	return &util.Claims{UserID: u.ID, Role: u.Role, Username: u.Username}
}

func TestSubmitAndResult(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	selected := []uint{f.q1.Choices[0].ID, f.q1.Choices[1].ID, f.q2.Choices[0].ID}
	subID, err := f.s.exam.Submit(ctx, f.user.ID, f.course.ID, selected)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	view, err := f.s.exam.Result(ctx, f.claims(f.user), f.course.ID, subID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if view.Score.TotalScore != 10 {
		t.Fatalf("total: want=10 got=%d", view.Score.TotalScore)
	}
	if !view.Score.Passed {
		t.Fatalf("full score should pass")
	}

	again, err := f.s.exam.Result(ctx, f.claims(f.user), f.course.ID, subID)
	if err != nil {
		t.Fatalf("Result again: %v", err)
	}
	if again.Score.TotalScore != view.Score.TotalScore {
		t.Fatalf("result not idempotent: first=%d again=%d", view.Score.TotalScore, again.Score.TotalScore)
	}
}

func TestSubmit_PartialScore(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	subID, err := f.s.exam.Submit(ctx, f.user.ID, f.course.ID, []uint{f.q1.Choices[0].ID, f.q2.Choices[0].ID})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	view, err := f.s.exam.Result(ctx, f.claims(f.user), f.course.ID, subID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if view.Score.TotalScore != 5 {
		t.Fatalf("total: want=5 got=%d", view.Score.TotalScore)
	}
	if view.Score.Results[0].IsCorrect || !view.Score.Results[1].IsCorrect {
		t.Fatalf("correctness: got=%+v", view.Score.Results)
	}
}

func TestSubmit_NotEnrolled(t *testing.T) {
	f := newExamFixture(t)
	stranger := testutil.User(t, f.s.db, "stranger", model.RoleLearner)

	_, err := f.s.exam.Submit(context.Background(), stranger.ID, f.course.ID, []uint{f.q1.Choices[0].ID})
	if !errors.Is(err, util.ErrNotEnrolled) {
		t.Fatalf("err: want=%v got=%v", util.ErrNotEnrolled, err)
	}
	var count int64
	f.s.db.Model(&model.Submission{}).Count(&count)
	if count != 0 {
		t.Fatalf("submissions: want=0 got=%d", count)
	}
}

func TestSubmit_UnknownChoicesDropped(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	subID, err := f.s.exam.Submit(ctx, f.user.ID, f.course.ID, []uint{f.q2.Choices[0].ID, 9999})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	sub, err := f.s.exam.SubmissionRepo.FindByID(subID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(sub.Choices) != 1 || sub.Choices[0].ID != f.q2.Choices[0].ID {
		t.Fatalf("choices: got=%+v", sub.Choices)
	}
}

func TestSubmit_CourseNotFound(t *testing.T) {
	f := newExamFixture(t)
	_, err := f.s.exam.Submit(context.Background(), f.user.ID, 999, nil)
	if !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("err: want=%v got=%v", util.ErrCourseNotFound, err)
	}
}

func TestResult_Access(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()
	subID, err := f.s.exam.Submit(ctx, f.user.ID, f.course.ID, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	other := testutil.User(t, f.s.db, "other", model.RoleLearner)
	if _, err := f.s.exam.Result(ctx, f.claims(other), f.course.ID, subID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("other user: want=%v got=%v", util.ErrPermissionDenied, err)
	}
	if _, err := f.s.exam.Result(ctx, nil, f.course.ID, subID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("anonymous: want=%v got=%v", util.ErrPermissionDenied, err)
	}

	staff := testutil.User(t, f.s.db, "staff", model.RoleStaff)
	view, err := f.s.exam.Result(ctx, f.claims(staff), f.course.ID, subID)
	if err != nil {
		t.Fatalf("staff Result: %v", err)
	}
	if view.Score.TotalScore != 0 {
		t.Fatalf("empty submission total: want=0 got=%d", view.Score.TotalScore)
	}
}

func TestResult_SubmissionOfOtherCourse(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()
	subID, err := f.s.exam.Submit(ctx, f.user.ID, f.course.ID, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	otherCourse := testutil.Course(t, f.s.db, "other", 0)

	_, err = f.s.exam.Result(ctx, f.claims(f.user), otherCourse.ID, subID)
	if !errors.Is(err, util.ErrSubmissionNotFound) {
		t.Fatalf("err: want=%v got=%v", util.ErrSubmissionNotFound, err)
	}
	_, err = f.s.exam.Result(ctx, f.claims(f.user), f.course.ID, 4242)
	if !errors.Is(err, util.ErrSubmissionNotFound) {
		t.Fatalf("missing submission: want=%v got=%v", util.ErrSubmissionNotFound, err)
	}
}

func TestResult_ReflectsQuestionEditAfterSubmit(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	// Q2 选了 d（当前正确），Q1 未作答
	d, e := f.q2.Choices[0], f.q2.Choices[1]
	subID, err := f.s.exam.Submit(ctx, f.user.ID, f.course.ID, []uint{d.ID})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	before, err := f.s.exam.Result(ctx, f.claims(f.user), f.course.ID, subID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if before.Score.TotalScore != 5 {
		t.Fatalf("total before edit: want=5 got=%d", before.Score.TotalScore)
	}

	// 改为 e 正确，d 保留原ID，并新增一个选项
	updated, err := f.s.admin.UpdateQuestion(ctx, f.q2.ID, QuestionInput{
		QuestionText: "Q2 revised",
		Choices: []ChoiceInput{
			{ID: d.ID, ChoiceText: "d"},
			{ID: e.ID, ChoiceText: "e", IsCorrect: true},
			{ChoiceText: "f"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateQuestion after submit: %v", err)
	}
	if len(updated.Choices) != 3 || updated.Choices[0].ID != d.ID || updated.Choices[1].ID != e.ID {
		t.Fatalf("choice ids not kept: got=%+v", updated.Choices)
	}

	after, err := f.s.exam.Result(ctx, f.claims(f.user), f.course.ID, subID)
	if err != nil {
		t.Fatalf("Result after edit: %v", err)
	}
	if after.Score.TotalScore != 0 {
		t.Fatalf("total after edit: want=0 got=%d", after.Score.TotalScore)
	}
	q2 := after.Score.Results[1]
	if q2.IsCorrect || !q2.Choices[0].Selected {
		t.Fatalf("Q2 result: correct=%v selected d=%v", q2.IsCorrect, q2.Choices[0].Selected)
	}
}

func TestUpdateQuestion_RemovesOmittedChoicesAfterSubmit(t *testing.T) {
	f := newExamFixture(t)
	ctx := context.Background()

	c := f.q1.Choices[2]
	subID, err := f.s.exam.Submit(ctx, f.user.ID, f.course.ID, []uint{c.ID})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// 删掉已被选中的 c
	_, err = f.s.admin.UpdateQuestion(ctx, f.q1.ID, QuestionInput{
		QuestionText: "Q1",
		Choices: []ChoiceInput{
			{ID: f.q1.Choices[0].ID, ChoiceText: "a", IsCorrect: true},
			{ID: f.q1.Choices[1].ID, ChoiceText: "b", IsCorrect: true},
		},
	})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}

	view, err := f.s.exam.Result(ctx, f.claims(f.user), f.course.ID, subID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got := len(view.Score.Results[0].Choices); got != 2 {
		t.Fatalf("Q1 choices after removal: want=2 got=%d", got)
	}

	var kept int64
	f.s.db.Unscoped().Model(&model.Choice{}).Where("id = ?", c.ID).Count(&kept)
	if kept != 1 {
		t.Fatalf("removed choice should be soft deleted, rows=%d", kept)
	}
}

func TestUpdateQuestion_RejectsForeignChoiceID(t *testing.T) {
	f := newExamFixture(t)
	_, err := f.s.admin.UpdateQuestion(context.Background(), f.q1.ID, QuestionInput{
		QuestionText: "Q1",
		Choices:      []ChoiceInput{{ID: f.q2.Choices[0].ID, ChoiceText: "d"}},
	})
	if !errors.Is(err, util.ErrChoiceNotFound) {
		t.Fatalf("err: want=%v got=%v", util.ErrChoiceNotFound, err)
	}
}
