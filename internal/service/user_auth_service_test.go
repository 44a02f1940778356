package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zulin-next/internal/config"
	"github.com/zulin-next/internal/constants"
	"github.com/zulin-next/internal/models"
	"github.com/zulin-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) *UserAuthService {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireHours = 2
	return NewUserAuthService(cfg, repository.NewUserRepository(db))
}

func TestUserAuthRegisterAndLogin(t *testing.T) {
	svc := setupUserAuthServiceTest(t)

	user, err := svc.Register(RegisterInput{
		Email:    "  Zhang.San@Example.COM ",
		Password: "correct-horse-battery",
		Name:     " 张三 ",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "zhang.san@example.com" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if user.Name != "张三" {
		t.Fatalf("name should be trimmed, got %q", user.Name)
	}
	if user.Role != constants.RoleCustomer {
		t.Fatalf("default role want customer got %s", user.Role)
	}
	if user.PasswordHash == "correct-horse-battery" {
		t.Fatalf("password must not be stored in plaintext")
	}

	logged, token, expiresAt, err := svc.Login("zhang.san@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("login user id want %d got %d", user.ID, logged.ID)
	}
	if token == "" {
		t.Fatalf("login should return a token")
	}
	if !expiresAt.After(time.Now().Add(time.Hour)) {
		t.Fatalf("token expiry should honor expire_hours, got %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != constants.RoleCustomer {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestUserAuthRegisterDuplicateEmail(t *testing.T) {
	svc := setupUserAuthServiceTest(t)

	if _, err := svc.Register(RegisterInput{Email: "dup@example.com", Password: "password-123", Name: "甲"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(RegisterInput{Email: "DUP@example.com", Password: "password-456", Name: "乙"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email want ErrEmailTaken got %v", err)
	}
}

func TestUserAuthLoginFailures(t *testing.T) {
	svc := setupUserAuthServiceTest(t)

	user, err := svc.Register(RegisterInput{Email: "user@example.com", Password: "password-123", Name: "用户"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("user@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "password-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("not-an-email", "password-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("invalid email want ErrInvalidCredentials got %v", err)
	}

	user.Status = models.UserStatusDisabled
	if err := models.DB.Save(user).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("user@example.com", "password-123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user want ErrUserDisabled got %v", err)
	}
}
