package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"coursehub/app/course/model"
	"coursehub/common/events"
	"coursehub/common/log"
)

// Event handlers for the four requirement kinds. Each one filters
// structurally irrelevant events cheaply, looks up the active requirements
// of its kind in the event's course and forwards through the locked,
// idempotent write path. Failures are logged and swallowed: delivery is
// fire-and-forget from the producing request's point of view.

func (svc *CourseService) onSubmissionCompleted(ctx context.Context, e events.Event) {
	ev, ok := e.(model.SubmissionCompleted)
	if !ok {
		return
	}
	s := ev.Submission
	if !s.Accepted() {
		return
	}
	reqs, err := svc.requirementsForCourse(ctx, s.CourseID, model.KindSolveOJProblem, s.CreatedAt)
	if err != nil {
		log.Logger().WithContext(ctx).Error("on submission completed: ", err.Error())
		return
	}
	for _, r := range reqs {
		if !r.MatchesSubmission(s) {
			continue
		}
		if err := svc.applyRequirementEvent(ctx, r.ID, s.UserID, s.ProblemID.Hex()); err != nil {
			log.Logger().WithContext(ctx).Error("on submission completed: ", err.Error())
		}
	}
}

func (svc *CourseService) onCommentCreated(ctx context.Context, e events.Event) {
	ev, ok := e.(model.CommentCreated)
	if !ok {
		return
	}
	c := ev.Comment
	if !c.IsComment() {
		return
	}
	reqs, err := svc.requirementsForCourse(ctx, c.CourseID, model.KindLeaveComment, c.CreatedAt)
	if err != nil {
		log.Logger().WithContext(ctx).Error("on comment created: ", err.Error())
		return
	}
	for _, r := range reqs {
		if !r.MatchesComment(c) {
			continue
		}
		if err := svc.applyRequirementEvent(ctx, r.ID, c.Author, c.ID.Hex()); err != nil {
			log.Logger().WithContext(ctx).Error("on comment created: ", err.Error())
		}
	}
}

func (svc *CourseService) onReplyCreated(ctx context.Context, e events.Event) {
	ev, ok := e.(model.ReplyCreated)
	if !ok {
		return
	}
	c := ev.Reply
	if c.IsComment() {
		return
	}
	reqs, err := svc.requirementsForCourse(ctx, c.CourseID, model.KindReplyToComment, c.CreatedAt)
	if err != nil {
		log.Logger().WithContext(ctx).Error("on reply created: ", err.Error())
		return
	}
	for _, r := range reqs {
		if !r.MatchesReply(c) {
			continue
		}
		if err := svc.applyRequirementEvent(ctx, r.ID, c.Author, c.ID.Hex()); err != nil {
			log.Logger().WithContext(ctx).Error("on reply created: ", err.Error())
		}
	}
}

func (svc *CourseService) onCommentLiked(ctx context.Context, e events.Event) {
	ev, ok := e.(model.CommentLiked)
	if !ok {
		return
	}
	reqs, err := svc.requirementsForCourse(ctx, ev.Comment.CourseID, model.KindLikeOthersComment, time.Now())
	if err != nil {
		log.Logger().WithContext(ctx).Error("on comment liked: ", err.Error())
		return
	}
	for _, r := range reqs {
		if !r.MatchesLike(ev.Comment, ev.UserID) {
			continue
		}
		if err := svc.applyRequirementEvent(ctx, r.ID, ev.UserID, ev.Comment.ID.Hex()); err != nil {
			log.Logger().WithContext(ctx).Error("on comment liked: ", err.Error())
		}
	}
}

func (svc *CourseService) onCommentUnliked(ctx context.Context, e events.Event) {
	ev, ok := e.(model.CommentUnliked)
	if !ok {
		return
	}
	reqs, err := svc.requirementsForCourse(ctx, ev.Comment.CourseID, model.KindLikeOthersComment, time.Now())
	if err != nil {
		log.Logger().WithContext(ctx).Error("on comment unliked: ", err.Error())
		return
	}
	for _, r := range reqs {
		if !r.MatchesLike(ev.Comment, ev.UserID) {
			continue
		}
		if err := svc.removeRequirementEvent(ctx, r.ID, ev.UserID, ev.Comment.ID.Hex()); err != nil {
			log.Logger().WithContext(ctx).Error("on comment unliked: ", err.Error())
		}
	}
}

// onTaskTimeChanged re-synchronizes every requirement owned by the task.
// Window edits do not wait for events: the historical record is rescanned
// directly, incrementally for pure growth and from scratch for any shrink.
func (svc *CourseService) onTaskTimeChanged(ctx context.Context, e events.Event) {
	ev, ok := e.(model.TaskTimeChanged)
	if !ok {
		return
	}
	old := model.Window{StartsAt: ev.OldStartsAt, EndsAt: ev.OldEndsAt}
	diff := model.DiffWindow(old, ev.Task.Window())
	if !diff.Changed() {
		return
	}
	cursor, err := svc.CollectionRequirement.Find(ctx, bson.M{"taskId": ev.Task.ID})
	if err != nil {
		log.Logger().WithContext(ctx).Error("on task time changed: ", err.Error())
		return
	}
	var reqs []model.Requirement
	if err := cursor.All(ctx, &reqs); err != nil {
		log.Logger().WithContext(ctx).Error("on task time changed: ", err.Error())
		return
	}
	for _, r := range reqs {
		if err := svc.resyncRequirement(ctx, r, diff, ev.Task.Window()); err != nil {
			log.Logger().WithContext(ctx).Error("on task time changed: ", err.Error())
		}
	}
}
