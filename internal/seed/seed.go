// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"revlink/internal/models"
	"revlink/internal/phonehash"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	ShouldClean bool
	// FriendDensity is the approximate fraction of user pairs connected as
	// accepted friends. Values around 0.05-0.15 look realistic.
	FriendDensity float64
}

// Seeder populates the database with fake verified profiles and a friend
// mesh so contact matching and graph endpoints have something to return.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Notification{},
		&models.PushToken{},
		&models.Friendship{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds the configured number of verified profiles and a friend mesh.
func (s *Seeder) Run(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.FriendDensity <= 0 {
		opts.FriendDensity = 0.08
	}

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("created %d verified profiles", len(users))

	accepted, pending, err := s.seedFriendMesh(users, opts.FriendDensity)
	if err != nil {
		return fmt.Errorf("seed friendships: %w", err)
	}
	log.Printf("created %d friendships (%d pending)", accepted+pending, pending)

	if err := s.seedNotifications(); err != nil {
		return fmt.Errorf("seed notifications: %w", err)
	}

	return nil
}

// seedUsers creates fake profiles, each with a verified phone hash so
// contact lookups against seeded numbers match.
func (s *Seeder) seedUsers(n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := strings.ToLower(fmt.Sprintf("%s%s%d", first, last, s.rng.Intn(1000)))
		phone := fmt.Sprintf("555%07d", s.rng.Intn(10000000))
		hash := phonehash.Hash(phone)

		user := models.User{
			Email:       fmt.Sprintf("%s@example.com", username),
			Username:    username,
			DisplayName: first + " " + last,
			Avatar:      fmt.Sprintf("https://i.pravatar.cc/300?u=%s", username),
			PhoneHash:   &hash,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// seedFriendMesh connects random user pairs. Most connections are accepted;
// a few stay pending so the requests endpoints have data too.
func (s *Seeder) seedFriendMesh(users []models.User, density float64) (accepted, pending int, err error) {
	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if s.rng.Float64() >= density {
				continue
			}
			status := models.FriendshipStatusAccepted
			if s.rng.Float64() < 0.2 {
				status = models.FriendshipStatusPending
			}
			friendship := models.Friendship{
				UserID:   users[i].ID,
				FriendID: users[j].ID,
				Status:   status,
			}
			if err := s.db.Create(&friendship).Error; err != nil {
				return accepted, pending, err
			}
			if status == models.FriendshipStatusPending {
				pending++
			} else {
				accepted++
			}
		}
	}
	return accepted, pending, nil
}

// seedNotifications backfills a small feed for every user with pending
// requests, mirroring what the dispatcher would have produced.
func (s *Seeder) seedNotifications() error {
	var pendings []models.Friendship
	if err := s.db.Where("status = ?", models.FriendshipStatusPending).Find(&pendings).Error; err != nil {
		return err
	}
	for i := range pendings {
		n := models.Notification{
			Type:         models.NotificationFriendRequest,
			ActorID:      pendings[i].UserID,
			RecipientID:  pendings[i].FriendID,
			FriendshipID: &pendings[i].ID,
		}
		if err := s.db.Create(&n).Error; err != nil {
			return err
		}
	}
	return nil
}
