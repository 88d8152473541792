package cli

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/mail"
	"strings"

	"github.com/terraincognita07/postura/internal/db"
	"github.com/terraincognita07/postura/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	temporaryPasswordLength   = 12
	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

// RunResetPasswordCommand replaces the password of the account registered
// under email with a random temporary one and prints it to out.
func RunResetPasswordCommand(dbPath string, email string, out io.Writer, logger *zap.Logger) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	users := db.NewUserRepository(database)
	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	temporaryPassword, err := generateTemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}
	passwordHash, err := services.HashPassword(temporaryPassword)
	if err != nil {
		return fmt.Errorf("hash temporary password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, passwordHash); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", normalizedEmail)
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	return nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < services.MinPasswordLength+2 {
		length = services.MinPasswordLength + 2
	}

	limit := big.NewInt(int64(len(temporaryPasswordAlphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = temporaryPasswordAlphabet[position.Int64()]
	}
	return string(value), nil
}
