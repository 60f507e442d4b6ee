package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/util"
)

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	in := RegisterInput{Username: "alice", Password: "secret", FirstName: "Alice", LastName: "Liddell"}

	user, err := s.auth.Register(ctx, in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.RoleLearner || user.Password == "secret" {
		t.Fatalf("user: role=%s password stored in plain text=%v", user.Role, user.Password == "secret")
	}

	_, err = s.auth.Register(ctx, in)
	if !errors.Is(err, util.ErrUserExists) {
		t.Fatalf("err: want=%v got=%v", util.ErrUserExists, err)
	}
	var count int64
	s.db.Model(&model.User{}).Where("username = ?", "alice").Count(&count)
	if count != 1 {
		t.Fatalf("users: want=1 got=%d", count)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	s := newServices(t)
	_, err := s.auth.Register(context.Background(), RegisterInput{Username: " ", Password: "x"})
	if !errors.Is(err, util.ErrMissingCredentials) {
		t.Fatalf("err: want=%v got=%v", util.ErrMissingCredentials, err)
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	s := newServices(t)
	_, err := s.auth.Register(context.Background(), RegisterInput{Username: "bob", Password: strings.Repeat("p", 73)})
	if !errors.Is(err, util.ErrPasswordTooLong) {
		t.Fatalf("err: want=%v got=%v", util.ErrPasswordTooLong, err)
	}
	if _, err := s.auth.Register(context.Background(), RegisterInput{Username: "bob", Password: strings.Repeat("p", 72)}); err != nil {
		t.Fatalf("Register 72 bytes: %v", err)
	}
}

func TestLogin(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	if _, err := s.auth.Register(ctx, RegisterInput{Username: "bob", Password: "hunter2"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, user, err := s.auth.Login(ctx, "bob", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := util.ParseJWT(token, s.cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "bob" {
		t.Fatalf("claims: got=%+v", claims)
	}

	var reloaded model.User
	s.db.First(&reloaded, user.ID)
	if reloaded.LastLogin == nil {
		t.Fatalf("last_login not updated")
	}

	for _, tc := range []struct{ username, password string }{
		{"bob", "wrong"},
		{"nobody", "hunter2"},
		{"", ""},
	} {
		if _, _, err := s.auth.Login(ctx, tc.username, tc.password); !errors.Is(err, util.ErrInvalidCredentials) {
			t.Fatalf("Login(%q): want=%v got=%v", tc.username, util.ErrInvalidCredentials, err)
		}
	}
}
