package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileExists        = errors.New("profile already exists")
	ErrNotEnrolled          = errors.New("you are not enrolled in this course")
	ErrInvalidChoiceID      = errors.New("invalid choice id")
	ErrChoiceNotFound       = errors.New("choice does not belong to this question")
	ErrPasswordTooLong      = errors.New("password must be at most 72 bytes")
	ErrTooManyChoices       = errors.New("too many selected choices")
	ErrInvalidGrade         = errors.New("grade must be a non-negative integer")
	ErrInvalidOccupation    = errors.New("invalid occupation")
	ErrInvalidImageType     = errors.New("only png, jpg, gif or webp images are allowed")
	ErrMissingCredentials   = errors.New("username and password are required")
	ErrInvalidPubDateFilter = errors.New("pub_date must be formatted as YYYY-MM-DD")
)
