// Package generator produces the synthetic dataset seeded into both designs.
// Generation is deterministic for a given Spec so repeated runs hit the same
// ids and the read battery can derive its targets from the counts alone.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"ddbench/domain/entities"
)

// Spec sets the dataset cardinalities. Zero values are valid and simply
// produce no items of that kind.
type Spec struct {
	Users            int
	OrdersPerUser    int
	PostsPerUser     int
	CommentsPerPost  int
	FollowersPerUser int
	LikesPerPost     int
	Seed             int64
}

var (
	firstNames = []string{"Alex", "Sam", "Jordan", "Casey", "Riley", "Morgan", "Taylor", "Quinn", "Avery", "Dana"}
	lastNames  = []string{"Smith", "Garcia", "Chen", "Patel", "Kim", "Okafor", "Novak", "Silva", "Haddad", "Larsen"}

	orderStatuses = []string{"PLACED", "PLACED", "PLACED", "SHIPPED", "SHIPPED", "DELIVERED", "DELIVERED", "DELIVERED", "DELIVERED", "CANCELLED"}

	postBodies = []string{
		"Trying out the new release today.",
		"Does anyone else see this behavior?",
		"Finally got the migration done.",
		"Sharing some notes from last week.",
		"Quick update on the project.",
	}
	commentBodies = []string{
		"Nice, thanks for sharing.",
		"Same here.",
		"Can you post more details?",
		"This helped a lot.",
		"Following.",
	}
)

// UserID returns the id of the n-th generated user (1-based), "user-00001"
// style. The runner uses this to pick battery targets without carrying the
// dataset around.
func UserID(n int) string {
	return fmt.Sprintf("user-%05d", n)
}

// Generate builds a dataset according to spec.
func Generate(spec Spec) *entities.Dataset {
	rng := rand.New(rand.NewSource(spec.Seed))
	ds := &entities.Dataset{}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	year := int(time.Hour) * 24 * 365

	for u := 1; u <= spec.Users; u++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		user := entities.User{
			ID:       UserID(u),
			Name:     fmt.Sprintf("%s %s", first, last),
			Email:    fmt.Sprintf("%s.%s.%d@example.com", first, last, u),
			JoinedAt: base.Add(time.Duration(rng.Intn(year))),
		}
		ds.Users = append(ds.Users, user)

		for i := 0; i < spec.OrdersPerUser; i++ {
			date := base.Add(time.Duration(rng.Intn(year)))
			ds.Orders = append(ds.Orders, entities.Order{
				ID:     uuid.NewString(),
				UserID: user.ID,
				Date:   date.Format("2006-01-02"),
				Amount: roundCents(5 + rng.ExpFloat64()*40),
				Status: orderStatuses[rng.Intn(len(orderStatuses))],
			})
		}

		for i := 0; i < spec.PostsPerUser; i++ {
			post := entities.Post{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				CreatedAt: base.Add(time.Duration(rng.Intn(year))),
				Body:      postBodies[rng.Intn(len(postBodies))],
			}
			ds.Posts = append(ds.Posts, post)

			for c := 0; c < spec.CommentsPerPost; c++ {
				ds.Comments = append(ds.Comments, entities.Comment{
					ID:        uuid.NewString(),
					PostID:    post.ID,
					UserID:    UserID(1 + rng.Intn(spec.Users)),
					CreatedAt: post.CreatedAt.Add(time.Duration(1+rng.Intn(72)) * time.Hour),
					Body:      commentBodies[rng.Intn(len(commentBodies))],
				})
			}

			for l := 0; l < spec.LikesPerPost; l++ {
				ds.Likes = append(ds.Likes, entities.Like{
					PostID:  post.ID,
					UserID:  UserID(1 + rng.Intn(spec.Users)),
					LikedAt: post.CreatedAt.Add(time.Duration(1+rng.Intn(168)) * time.Hour),
				})
			}
		}

		// Followers are sampled without replacement from the id space so a
		// user never appears twice in its own follower partition.
		for _, f := range sampleOthers(rng, u, spec.Users, spec.FollowersPerUser) {
			ds.Followers = append(ds.Followers, entities.Follower{
				UserID:     user.ID,
				FollowerID: UserID(f),
				Since:      base.Add(time.Duration(rng.Intn(year))),
			})
		}
	}

	return ds
}

// sampleOthers picks up to n distinct user ordinals in [1, total] excluding self.
func sampleOthers(rng *rand.Rand, self, total, n int) []int {
	if total <= 1 || n <= 0 {
		return nil
	}
	if n > total-1 {
		n = total - 1
	}
	picked := make(map[int]bool, n)
	out := make([]int, 0, n)
	for len(out) < n {
		c := 1 + rng.Intn(total)
		if c == self || picked[c] {
			continue
		}
		picked[c] = true
		out = append(out, c)
	}
	return out
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
