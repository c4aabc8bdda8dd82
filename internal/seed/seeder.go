// Package seed populates the database with realistic development data
package seed

import (
	"fmt"
	"time"

	"github.com/animechat/backend/internal/models"
	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedEmailDomain tags seeded accounts so Clean can find them
const seedEmailDomain = "seed.animechat.dev"

// Titles that actually exist in the catalog, so seeded history produces
// usable preference profiles instead of fetch omissions.
var seedTitles = []struct {
	title    string
	response string
}{
	{"Naruto", "A young ninja strives for recognition and dreams of becoming Hokage."},
	{"One Piece", "Monkey D. Luffy sets off to find the legendary One Piece treasure."},
	{"Fullmetal Alchemist: Brotherhood", "Two brothers search for the Philosopher's Stone."},
	{"Death Note", "A notebook that kills anyone whose name is written in it."},
	{"Attack on Titan", "Humanity fights for survival behind three concentric walls."},
	{"Steins;Gate", "A self-proclaimed mad scientist discovers time travel."},
	{"Cowboy Bebop", "Bounty hunters drift through space aboard the Bebop."},
	{"My Hero Academia", "A quirkless boy inherits the power of the world's greatest hero."},
	{"Demon Slayer: Kimetsu no Yaiba", "A boy joins the demon slayer corps to cure his sister."},
	{"Hunter x Hunter", "Gon Freecss takes the Hunter Exam to find his father."},
}

// Seeder creates development users and chat history
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder over the given database
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedDev creates userCount users, each with up to historyPerUser chat
// history entries. Every user gets the password "password123".
func (s *Seeder) SeedDev(userCount, historyPerUser int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for i := 0; i < userCount; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 99))
		user := models.User{
			Email:        fmt.Sprintf("%s@%s", username, seedEmailDomain),
			Username:     username,
			DisplayName:  gofakeit.Name(),
			PasswordHash: string(hash),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create seed user: %w", err)
		}

		entryCount := gofakeit.Number(1, historyPerUser)
		for j := 0; j < entryCount; j++ {
			pick := seedTitles[gofakeit.Number(0, len(seedTitles)-1)]
			entry := models.HistoryEntry{
				UserID:    user.ID,
				Query:     pick.title,
				Response:  pick.response,
				CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
			}
			if err := s.db.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to create seed history: %w", err)
			}
		}
	}

	return nil
}

// Clean removes seeded users and their history and feedback
func (s *Seeder) Clean() error {
	var users []models.User
	if err := s.db.Unscoped().
		Where("email LIKE ?", "%@"+seedEmailDomain).
		Find(&users).Error; err != nil {
		return fmt.Errorf("failed to list seed users: %w", err)
	}

	for _, user := range users {
		if err := s.db.Where("user_id = ?", user.ID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete seed history: %w", err)
		}
		if err := s.db.Where("user_id = ?", user.ID).Delete(&models.Feedback{}).Error; err != nil {
			return fmt.Errorf("failed to delete seed feedback: %w", err)
		}
		if err := s.db.Unscoped().Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete seed user: %w", err)
		}
	}

	return nil
}
