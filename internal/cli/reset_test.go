package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/models"
	"github.com/terraincognita07/postura/internal/services"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateTemporaryPasswordMinimumLength(t *testing.T) {
	t.Parallel()

	password, err := generateTemporaryPassword(4)
	if err != nil {
		t.Fatalf("generateTemporaryPassword returned error: %v", err)
	}
	if len(password) != services.MinPasswordLength+2 {
		t.Fatalf("generateTemporaryPassword minimum len = %d, want %d", len(password), services.MinPasswordLength+2)
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		t.Fatalf("temporary password rejected by policy: %v", err)
	}
}

func TestGenerateTemporaryPasswordAlphabet(t *testing.T) {
	t.Parallel()

	password, err := generateTemporaryPassword(24)
	if err != nil {
		t.Fatalf("generateTemporaryPassword returned error: %v", err)
	}
	if len(password) != 24 {
		t.Fatalf("generateTemporaryPassword len = %d, want 24", len(password))
	}
	for _, char := range password {
		if !strings.ContainsRune(temporaryPasswordAlphabet, char) {
			t.Fatalf("password %q contains char %q outside alphabet", password, char)
		}
	}
}

func TestRunResetPasswordCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "server.db")
	database, err := db.OpenSQLite(dbPath, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	oldHash, err := services.HashPassword("original1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Email: "reset@example.com", PasswordHash: oldHash, Name: "Reset", FitnessGoal: models.GoalPostureCorrection}
	if err := db.NewUserRepository(database).Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Close(database); err != nil {
		t.Fatalf("close db: %v", err)
	}

	var out bytes.Buffer
	if err := RunResetPasswordCommand(dbPath, "  RESET@example.com ", &out, nil); err != nil {
		t.Fatalf("RunResetPasswordCommand returned error: %v", err)
	}

	const marker = "Temporary password: "
	index := strings.Index(out.String(), marker)
	if index < 0 {
		t.Fatalf("expected temporary password in output, got %q", out.String())
	}
	temporary := strings.TrimSpace(out.String()[index+len(marker):])

	database, err = db.OpenSQLite(dbPath, nil)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close(database)

	stored, err := db.NewUserRepository(database).FindByID(user.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(temporary)) != nil {
		t.Fatal("stored hash does not match printed temporary password")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("original1")) == nil {
		t.Fatal("old password still accepted")
	}
}

func TestRunResetPasswordCommandRejectsUnknownUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "server.db")

	err := RunResetPasswordCommand(dbPath, "missing@example.com", &bytes.Buffer{}, nil)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}

	if err := RunResetPasswordCommand(dbPath, "not-an-email", &bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected invalid email error")
	}
}
