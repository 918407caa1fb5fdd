package auth

import (
	"admin-panel/internal/common/models"
	"admin-panel/pkg/utils"
)

// verifyCredentials checks password against the account. A nil account still pays for a
// bcrypt comparison so unknown emails and wrong passwords are indistinguishable by timing.
func verifyCredentials(account *models.User, password string) bool {
	if account == nil || account.PasswordHash == "" {
		utils.BurnPasswordCheck(password)
		return false
	}
	return utils.CheckPassword(account.PasswordHash, password)
}
