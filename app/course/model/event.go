package model

import "time"

// Bus signal names. Producers in the comment/submission/task mutation paths
// publish these; requirement handlers subscribe at startup.
const (
	EventTaskTimeChanged     = "task.time_changed"
	EventTaskDueExtended     = "task.due_extended"
	EventRequirementAdded    = "requirement.added"
	EventSubmissionCompleted = "submission.completed"
	EventCommentCreated      = "comment.created"
	EventReplyCreated        = "reply.created"
	EventCommentLiked        = "comment.liked"
	EventCommentUnliked      = "comment.unliked"
)

type TaskTimeChanged struct {
	Task        Task
	OldStartsAt *time.Time
	OldEndsAt   *time.Time
}

func (TaskTimeChanged) Name() string { return EventTaskTimeChanged }

type TaskDueExtended struct {
	Task      Task
	OldEndsAt *time.Time
}

func (TaskDueExtended) Name() string { return EventTaskDueExtended }

type RequirementAdded struct {
	Requirement Requirement
}

func (RequirementAdded) Name() string { return EventRequirementAdded }

type SubmissionCompleted struct {
	Submission Submission
}

func (SubmissionCompleted) Name() string { return EventSubmissionCompleted }

type CommentCreated struct {
	Comment Comment
}

func (CommentCreated) Name() string { return EventCommentCreated }

type ReplyCreated struct {
	Reply Comment
}

func (ReplyCreated) Name() string { return EventReplyCreated }

type CommentLiked struct {
	Comment Comment
	UserID  string
}

func (CommentLiked) Name() string { return EventCommentLiked }

type CommentUnliked struct {
	Comment Comment
	UserID  string
}

func (CommentUnliked) Name() string { return EventCommentUnliked }
