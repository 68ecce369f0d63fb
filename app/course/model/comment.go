package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment acceptance states for comments on normal (non-OJ) problems.
const (
	AcceptanceAccepted = 0
	AcceptanceRejected = 1
	AcceptancePending  = 2
	AcceptanceNotTried = 3
)

type Comment struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	ProblemID  primitive.ObjectID `bson:"problemId" json:"problemId"`
	CourseID   primitive.ObjectID `bson:"courseId" json:"courseId"`
	Author     string             `bson:"author" json:"author"`
	Title      string             `bson:"title,omitempty" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Depth      int                `bson:"depth" json:"depth"`
	Acceptance int                `bson:"acceptance" json:"acceptance"`
	Liked      []string           `bson:"liked" json:"liked"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsComment distinguishes top-level comments (depth 0) from replies.
func (c Comment) IsComment() bool {
	return c.Depth == 0
}
