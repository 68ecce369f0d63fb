package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"coursehub/common/util"
)

type RequirementKind string

const (
	KindSolveOJProblem    RequirementKind = "solve_oj_problem"
	KindLeaveComment      RequirementKind = "leave_comment"
	KindReplyToComment    RequirementKind = "reply_to_comment"
	KindLikeOthersComment RequirementKind = "like_others_comment"
)

func (k RequirementKind) Valid() bool {
	switch k {
	case KindSolveOJProblem, KindLeaveComment, KindReplyToComment, KindLikeOthersComment:
		return true
	}
	return false
}

// Requirement is one completion criterion of a task, tracked per user. All
// four kinds share a single collection; the kind discriminator selects
// which target fields apply.
type Requirement struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	TaskID primitive.ObjectID `bson:"taskId" json:"taskId"`
	Kind   RequirementKind    `bson:"kind" json:"kind"`

	// solve_oj_problem
	ProblemIDs []primitive.ObjectID `bson:"problemIds,omitempty" json:"problemIds,omitempty"`
	// leave_comment
	ProblemID  *primitive.ObjectID `bson:"problemId,omitempty" json:"problemId,omitempty"`
	Acceptance *int                `bson:"acceptance,omitempty" json:"acceptance,omitempty"`

	RequiredNumber int               `bson:"requiredNumber,omitempty" json:"requiredNumber,omitempty"`
	Records        map[string]Record `bson:"records" json:"records"`
}

func (r Requirement) Threshold() int {
	if r.Kind == KindSolveOJProblem {
		return len(r.ProblemIDs)
	}
	return r.RequiredNumber
}

func (r Requirement) Progress(userID string) (achieved, required int) {
	return len(r.Records[userID].Items), r.Threshold()
}

func (r Requirement) IsCompleted(userID string) bool {
	achieved, required := r.Progress(userID)
	return achieved >= required
}

// MatchesSubmission reports whether s is a qualifying event for a
// solve_oj_problem requirement: an accepted submission to one of the
// configured problems.
func (r Requirement) MatchesSubmission(s Submission) bool {
	if r.Kind != KindSolveOJProblem || !s.Accepted() {
		return false
	}
	return util.Contains(r.ProblemIDs, s.ProblemID)
}

// MatchesComment reports whether c qualifies for a leave_comment
// requirement: a top-level comment on the configured problem, passing the
// optional acceptance filter.
func (r Requirement) MatchesComment(c Comment) bool {
	if r.Kind != KindLeaveComment || !c.IsComment() {
		return false
	}
	if r.ProblemID == nil || *r.ProblemID != c.ProblemID {
		return false
	}
	if r.Acceptance != nil && *r.Acceptance != c.Acceptance {
		return false
	}
	return true
}

// MatchesReply reports whether c qualifies for a reply_to_comment
// requirement: any reply (depth != 0) counts.
func (r Requirement) MatchesReply(c Comment) bool {
	return r.Kind == KindReplyToComment && !c.IsComment()
}

// MatchesLike reports whether userID liking c qualifies for a
// like_others_comment requirement. Liking one's own comment never counts.
func (r Requirement) MatchesLike(c Comment, userID string) bool {
	return r.Kind == KindLikeOthersComment && c.Author != userID
}

// Record is one user's progress against one requirement: the ids of
// satisfying events already counted plus the moment the threshold was first
// reached.
type Record struct {
	Items       []string   `bson:"items" json:"items"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

func (r Record) Completed() bool {
	return r.CompletedAt != nil
}

func (r Record) Contains(item string) bool {
	return util.Contains(r.Items, item)
}

// Add counts item once. Completion is monotonic: a completed record is
// never advanced, and re-delivering an already-counted item is a no-op.
// Returns whether the record changed.
func (r *Record) Add(item string, threshold int, now time.Time) bool {
	if r.Completed() || r.Contains(item) {
		return false
	}
	r.Items = append(r.Items, item)
	if threshold > 0 && len(r.Items) >= threshold {
		t := now
		r.CompletedAt = &t
	}
	return true
}

// Remove drops item from the accumulator, unless the record already
// completed — completion is never revisited by incremental events.
func (r *Record) Remove(item string) bool {
	if r.Completed() {
		return false
	}
	for i, v := range r.Items {
		if v == item {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return true
		}
	}
	return false
}
