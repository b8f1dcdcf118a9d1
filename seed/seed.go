// Package seed populates a development database with fake users and tweets.
package seed

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"chirp/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the login password shared by all seeded accounts.
const DefaultPassword = "password123"

// Run creates userCount fake users, a follow graph between them, and up to
// tweetsPerUser tweets each with comments and likes. Safe to run more than
// once; unique collisions are skipped.
func Run(db *gorm.DB, userCount, tweetsPerUser int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := &models.User{
			Name:     gofakeit.Name(),
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    gofakeit.Email(),
			Password: string(hash),
			Bio:      gofakeit.Sentence(8),
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(user).Error; err != nil {
			log.Printf("seed: skipping user %s: %v", user.Username, err)
			continue
		}
		users = append(users, user)
	}
	log.Printf("seed: created %d users (password %q)", len(users), DefaultPassword)

	// Follow graph: each user follows a handful of others
	for _, u := range users {
		for _, v := range pickOthers(users, u, 3) {
			edge := models.Follow{FollowerID: u.ID, FolloweeID: v.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
				return fmt.Errorf("seed follow edge: %w", err)
			}
		}
	}

	// Tweets with frozen author snapshots, plus comments and likes
	tweetTotal := 0
	for _, u := range users {
		snapshot, err := json.Marshal(u.Snapshot())
		if err != nil {
			return fmt.Errorf("marshal author snapshot: %w", err)
		}

		n := 1 + rand.Intn(tweetsPerUser)
		for i := 0; i < n; i++ {
			tweet := models.Tweet{
				Description: gofakeit.Sentence(12),
				UserID:      u.ID,
				Author:      datatypes.JSON(snapshot),
			}
			if err := db.Create(&tweet).Error; err != nil {
				return fmt.Errorf("seed tweet: %w", err)
			}
			tweetTotal++

			for _, liker := range pickOthers(users, u, rand.Intn(4)) {
				like := models.Like{UserID: liker.ID, TweetID: tweet.ID}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
					return fmt.Errorf("seed like: %w", err)
				}
			}

			for _, commenter := range pickOthers(users, u, rand.Intn(3)) {
				comment := models.Comment{
					TweetID:      tweet.ID,
					Body:         gofakeit.Sentence(6),
					UserID:       commenter.ID,
					UserName:     commenter.Name,
					UserUsername: commenter.Username,
				}
				if err := db.Create(&comment).Error; err != nil {
					return fmt.Errorf("seed comment: %w", err)
				}
			}
		}
	}
	log.Printf("seed: created %d tweets", tweetTotal)

	return nil
}

// pickOthers selects up to n distinct users other than self.
func pickOthers(users []*models.User, self *models.User, n int) []*models.User {
	others := make([]*models.User, 0, len(users)-1)
	for _, u := range users {
		if u.ID != self.ID {
			others = append(others, u)
		}
	}
	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	if n > len(others) {
		n = len(others)
	}
	return others[:n]
}
