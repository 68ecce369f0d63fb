package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"coursehub/app/course/model"
	"coursehub/common/log"
)

type CreateSubmissionReq struct {
	ProblemID primitive.ObjectID  `json:"problemId"`
	UserID    string              `json:"userId"`
	CommentID *primitive.ObjectID `json:"commentId"`
}

// CreateSubmission registers a pending submission; the external sandbox
// reports the verdict later through CompleteSubmission.
func (svc *CourseService) CreateSubmission(ctx context.Context, req CreateSubmissionReq) (model.Submission, error) {
	problem, err := svc.GetProblem(ctx, req.ProblemID)
	if err != nil {
		return model.Submission{}, err
	}
	submission := model.Submission{
		ID:        primitive.NewObjectID(),
		ProblemID: problem.ID,
		CourseID:  problem.CourseID,
		UserID:    req.UserID,
		CommentID: req.CommentID,
		Status:    model.SubmissionStatusPending,
		CreatedAt: time.Now(),
	}
	if _, err := svc.CollectionSubmission.InsertOne(ctx, submission); err != nil {
		log.Logger().WithContext(ctx).Error("create submission: ", err.Error())
		return model.Submission{}, ErrDatabase
	}
	return submission, nil
}

type CompleteSubmissionReq struct {
	ID     primitive.ObjectID `json:"id"`
	Status int                `json:"status"`
}

// CompleteSubmission stores the judge verdict and fires the completion
// signal that drives solve_oj_problem progress.
func (svc *CourseService) CompleteSubmission(ctx context.Context, req CompleteSubmissionReq) (model.Submission, error) {
	var submission model.Submission
	if err := svc.CollectionSubmission.FindOne(ctx, bson.M{"_id": req.ID}).Decode(&submission); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Submission{}, ErrNoDoc
		}
		log.Logger().WithContext(ctx).Error("complete submission: ", err.Error())
		return model.Submission{}, err
	}
	update := bson.M{"$set": bson.M{"status": req.Status}}
	if _, err := svc.CollectionSubmission.UpdateByID(ctx, submission.ID, update); err != nil {
		log.Logger().WithContext(ctx).Error("complete submission: ", err.Error())
		return model.Submission{}, ErrDatabase
	}
	submission.Status = req.Status
	svc.Bus.Publish(ctx, model.SubmissionCompleted{Submission: submission})
	return submission, nil
}
