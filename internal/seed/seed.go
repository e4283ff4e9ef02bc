package seed

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/rakibul966222/Rakib-pay/configs"
	"github.com/rakibul966222/Rakib-pay/internal/logger"
	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/rakibul966222/Rakib-pay/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var testUsers = []struct {
	Name  string
	Email string
}{
	{"Test User 1", "user1@test.com"},
	{"Test User 2", "user2@test.com"},
	{"Test User 3", "user3@test.com"},
}

// Run creates the demo wallet accounts, each with the signup starting
// balance. Skips when they already exist.
func Run() {
	db := store.DB

	emails := make([]string, 0, len(testUsers))
	for _, u := range testUsers {
		emails = append(emails, u.Email)
	}

	var count int64
	if err := db.Model(&models.Account{}).Where("email IN ?", emails).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= int64(len(testUsers)) {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	starting := configs.StartingBalance()

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, u := range testUsers {
			acc := models.Account{
				ID:        uuid.NewString(),
				Name:      u.Name,
				Email:     u.Email,
				Password:  hashed,
				Balance:   starting,
				KYCStatus: "unverified",
			}
			if err := tx.Create(&acc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded 3 test users",
		zap.String("password", seedPassword),
		zap.String("starting_balance", starting.StringFixed(2)))
}
