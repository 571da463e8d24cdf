// Package entities defines the logical entity model shared by both table
// designs. Entities are written once during seeding and never mutated.
package entities

import "time"

// EntityType discriminates item kinds stored in the single table.
type EntityType string

const (
	EntityTypeUser     EntityType = "USER"
	EntityTypeOrder    EntityType = "ORDER"
	EntityTypePost     EntityType = "POST"
	EntityTypeComment  EntityType = "COMMENT"
	EntityTypeFollower EntityType = "FOLLOWER"
	EntityTypeLike     EntityType = "LIKE"
)

// Entity is the tagged union over all entity kinds. Raw store records are
// converted into exactly one of the variants below at a single dispatch
// point; consumers switch on the concrete type.
type Entity interface {
	Type() EntityType
}

// User represents an account that owns orders, posts and followers.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (User) Type() EntityType { return EntityTypeUser }

// Order belongs to a user. Date is the order's business date (YYYY-MM-DD),
// used as the range discriminator in the single-table sort key.
type Order struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}

func (Order) Type() EntityType { return EntityTypeOrder }

// Post belongs to a user and owns comments and likes.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Body      string    `json:"body"`
}

func (Post) Type() EntityType { return EntityTypePost }

// Comment belongs to a post; UserID is the commenting user.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Body      string    `json:"body"`
}

func (Comment) Type() EntityType { return EntityTypeComment }

// Follower records that FollowerID follows UserID.
type Follower struct {
	UserID     string    `json:"userId"`
	FollowerID string    `json:"followerId"`
	Since      time.Time `json:"since"`
}

func (Follower) Type() EntityType { return EntityTypeFollower }

// Like records that UserID liked PostID.
type Like struct {
	PostID  string    `json:"postId"`
	UserID  string    `json:"userId"`
	LikedAt time.Time `json:"likedAt"`
}

func (Like) Type() EntityType { return EntityTypeLike }

// Profile is the "screen data" composite for a user: everything needed to
// render the user's page. Built from one partition query in the single-table
// design and from stitched per-type requests in the multi-table design.
type Profile struct {
	User      *User      `json:"user"`
	Orders    []Order    `json:"orders"`
	Posts     []Post     `json:"posts"`
	Followers []Follower `json:"followers"`
}

// PostWithComments pairs a post with its comments, the result shape of the
// deliberate N+1 access pattern.
type PostWithComments struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

// Dataset is the generator's output: the full synthetic corpus seeded into
// both designs.
type Dataset struct {
	Users     []User
	Orders    []Order
	Posts     []Post
	Comments  []Comment
	Followers []Follower
	Likes     []Like
}

// Size returns the total number of items in the dataset.
func (d *Dataset) Size() int {
	return len(d.Users) + len(d.Orders) + len(d.Posts) + len(d.Comments) + len(d.Followers) + len(d.Likes)
}

// All flattens the dataset into a single entity list, parents before
// children so prefix scans during debugging read naturally.
func (d *Dataset) All() []Entity {
	out := make([]Entity, 0, d.Size())
	for _, u := range d.Users {
		out = append(out, u)
	}
	for _, o := range d.Orders {
		out = append(out, o)
	}
	for _, p := range d.Posts {
		out = append(out, p)
	}
	for _, c := range d.Comments {
		out = append(out, c)
	}
	for _, f := range d.Followers {
		out = append(out, f)
	}
	for _, l := range d.Likes {
		out = append(out, l)
	}
	return out
}
