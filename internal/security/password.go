package security

import (
	"fmt"

	"github.com/grana-sh/grana/internal/types"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(userAccount *types.UserAccount, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	userAccount.PasswordHash = hash
	return nil
}

func VerifyPassword(userAccount types.UserAccount, password string) error {
	return bcrypt.CompareHashAndPassword(userAccount.PasswordHash, []byte(password))
}
