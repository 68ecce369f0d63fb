package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"coursehub/app/course/model"
	"coursehub/common/lock"
	"coursehub/common/log"
	"coursehub/common/util"
)

type SyncRequirementReq struct {
	ID       primitive.ObjectID `json:"id"`
	Users    []string           `json:"users"`
	StartsAt *util.Datetime     `json:"startsAt"`
	EndsAt   *util.Datetime     `json:"endsAt"`
}

// SyncRequirement re-derives records in bulk from the authoritative comment
// and submission history, clamped to the task's window and the optional
// caller-supplied bounds and user set.
func (svc *CourseService) SyncRequirement(ctx context.Context, req SyncRequirementReq) error {
	r, err := svc.GetRequirement(ctx, req.ID)
	if err != nil {
		return err
	}
	task, err := svc.GetTask(ctx, r.TaskID)
	if err != nil {
		return err
	}
	window := task.Window().Intersect(model.Window{StartsAt: req.StartsAt.Time(), EndsAt: req.EndsAt.Time()})
	return svc.syncWindow(ctx, r, req.Users, window)
}

// resyncRequirement applies the window-change policy: any shrink wipes the
// record map and rescans the whole new window; pure growth only scans the
// newly exposed sub-intervals, leaving gathered progress untouched.
func (svc *CourseService) resyncRequirement(ctx context.Context, r model.Requirement, diff model.WindowDiff, newWindow model.Window) error {
	if diff.Shrunk {
		err := svc.Locker.WithLock(ctx, lock.RequirementKey(r.ID.Hex()), func(ctx context.Context) error {
			update := bson.M{"$set": bson.M{"records": bson.M{}}}
			if _, err := svc.CollectionRequirement.UpdateByID(ctx, r.ID, update); err != nil {
				log.Logger().WithContext(ctx).Error("reset records: ", err.Error())
				return ErrDatabase
			}
			return nil
		})
		if err != nil {
			return err
		}
		return svc.syncWindow(ctx, r, nil, newWindow)
	}
	if diff.GrewStart != nil {
		if err := svc.syncWindow(ctx, r, nil, *diff.GrewStart); err != nil {
			return err
		}
	}
	if diff.GrewEnd != nil {
		if err := svc.syncWindow(ctx, r, nil, *diff.GrewEnd); err != nil {
			return err
		}
	}
	return nil
}

// syncWindow replays the historical events inside w through the same
// locked, idempotent write path incremental delivery uses, so a sync can
// never double-count.
func (svc *CourseService) syncWindow(ctx context.Context, r model.Requirement, users []string, w model.Window) error {
	task, err := svc.GetTask(ctx, r.TaskID)
	if err != nil {
		return err
	}
	switch r.Kind {
	case model.KindSolveOJProblem:
		filter := bson.M{
			"problemId": bson.M{"$in": r.ProblemIDs},
			"status":    model.SubmissionStatusAccepted,
		}
		addWindowFilter(filter, w)
		addUsersFilter(filter, "userId", users)
		cursor, err := svc.CollectionSubmission.Find(ctx, filter)
		if err != nil {
			log.Logger().WithContext(ctx).Error("sync submissions: ", err.Error())
			return ErrDatabase
		}
		var subs []model.Submission
		if err := cursor.All(ctx, &subs); err != nil {
			log.Logger().WithContext(ctx).Error("sync submissions: ", err.Error())
			return ErrDatabase
		}
		for _, s := range subs {
			if !r.MatchesSubmission(s) {
				continue
			}
			if err := svc.applyRequirementEvent(ctx, r.ID, s.UserID, s.ProblemID.Hex()); err != nil {
				return err
			}
		}
	case model.KindLeaveComment:
		if r.ProblemID == nil {
			return nil
		}
		filter := bson.M{
			"problemId": *r.ProblemID,
			"depth":     0,
		}
		if r.Acceptance != nil {
			filter["acceptance"] = *r.Acceptance
		}
		addWindowFilter(filter, w)
		addUsersFilter(filter, "author", users)
		comments, err := svc.findComments(ctx, filter)
		if err != nil {
			return err
		}
		for _, c := range comments {
			if !r.MatchesComment(c) {
				continue
			}
			if err := svc.applyRequirementEvent(ctx, r.ID, c.Author, c.ID.Hex()); err != nil {
				return err
			}
		}
	case model.KindReplyToComment:
		filter := bson.M{
			"courseId": task.CourseID,
			"depth":    bson.M{"$ne": 0},
		}
		addWindowFilter(filter, w)
		addUsersFilter(filter, "author", users)
		replies, err := svc.findComments(ctx, filter)
		if err != nil {
			return err
		}
		for _, c := range replies {
			if !r.MatchesReply(c) {
				continue
			}
			if err := svc.applyRequirementEvent(ctx, r.ID, c.Author, c.ID.Hex()); err != nil {
				return err
			}
		}
	case model.KindLikeOthersComment:
		// likes carry no timestamp of their own; the liked comment's
		// creation time anchors the window filter
		filter := bson.M{
			"courseId": task.CourseID,
			"liked.0":  bson.M{"$exists": true},
		}
		addWindowFilter(filter, w)
		comments, err := svc.findComments(ctx, filter)
		if err != nil {
			return err
		}
		for _, c := range comments {
			for _, liker := range c.Liked {
				if !r.MatchesLike(c, liker) {
					continue
				}
				if len(users) > 0 && !util.Contains(users, liker) {
					continue
				}
				if err := svc.applyRequirementEvent(ctx, r.ID, liker, c.ID.Hex()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (svc *CourseService) findComments(ctx context.Context, filter bson.M) ([]model.Comment, error) {
	cursor, err := svc.CollectionComment.Find(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("sync comments: ", err.Error())
		return nil, ErrDatabase
	}
	var comments []model.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		log.Logger().WithContext(ctx).Error("sync comments: ", err.Error())
		return nil, ErrDatabase
	}
	return comments, nil
}

// addWindowFilter bounds createdAt by w, both ends inclusive.
func addWindowFilter(filter bson.M, w model.Window) {
	rng := bson.M{}
	if w.StartsAt != nil {
		rng["$gte"] = *w.StartsAt
	}
	if w.EndsAt != nil {
		rng["$lte"] = *w.EndsAt
	}
	if len(rng) > 0 {
		filter["createdAt"] = rng
	}
}

func addUsersFilter(filter bson.M, field string, users []string) {
	if len(users) > 0 {
		filter[field] = bson.M{"$in": users}
	}
}
