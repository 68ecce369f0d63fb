package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Judge result codes, as reported by the external sandbox.
const (
	SubmissionStatusPending  = -1
	SubmissionStatusAccepted = 0
	SubmissionStatusRejected = 1
)

type Submission struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	ProblemID primitive.ObjectID  `bson:"problemId" json:"problemId"`
	CourseID  primitive.ObjectID  `bson:"courseId" json:"courseId"`
	UserID    string              `bson:"userId" json:"userId"`
	CommentID *primitive.ObjectID `bson:"commentId,omitempty" json:"commentId,omitempty"`
	Status    int                 `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

func (s Submission) Accepted() bool {
	return s.Status == SubmissionStatusAccepted
}
