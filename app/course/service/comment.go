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

type AddCommentReq struct {
	ProblemID primitive.ObjectID `json:"problemId"`
	Author    string             `json:"author"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
}

// AddComment creates a top-level comment on a problem and announces it on
// the bus.
func (svc *CourseService) AddComment(ctx context.Context, req AddCommentReq) (model.Comment, error) {
	problem, err := svc.GetProblem(ctx, req.ProblemID)
	if err != nil {
		return model.Comment{}, err
	}
	comment := model.Comment{
		ID:         primitive.NewObjectID(),
		ProblemID:  problem.ID,
		CourseID:   problem.CourseID,
		Author:     req.Author,
		Title:      req.Title,
		Content:    req.Content,
		Depth:      0,
		Acceptance: model.AcceptanceNotTried,
		Liked:      []string{},
		CreatedAt:  time.Now(),
	}
	if _, err := svc.CollectionComment.InsertOne(ctx, comment); err != nil {
		log.Logger().WithContext(ctx).Error("add comment: ", err.Error())
		return model.Comment{}, ErrDatabase
	}
	svc.Bus.Publish(ctx, model.CommentCreated{Comment: comment})
	return comment, nil
}

type AddReplyReq struct {
	CommentID primitive.ObjectID `json:"commentId"`
	Author    string             `json:"author"`
	Content   string             `json:"content"`
}

// AddReply creates a reply under an existing top-level comment.
func (svc *CourseService) AddReply(ctx context.Context, req AddReplyReq) (model.Comment, error) {
	parent, err := svc.GetComment(ctx, req.CommentID)
	if err != nil {
		return model.Comment{}, err
	}
	reply := model.Comment{
		ID:         primitive.NewObjectID(),
		ProblemID:  parent.ProblemID,
		CourseID:   parent.CourseID,
		Author:     req.Author,
		Content:    req.Content,
		Depth:      parent.Depth + 1,
		Acceptance: model.AcceptanceNotTried,
		Liked:      []string{},
		CreatedAt:  time.Now(),
	}
	if _, err := svc.CollectionComment.InsertOne(ctx, reply); err != nil {
		log.Logger().WithContext(ctx).Error("add reply: ", err.Error())
		return model.Comment{}, ErrDatabase
	}
	svc.Bus.Publish(ctx, model.ReplyCreated{Reply: reply})
	return reply, nil
}

func (svc *CourseService) GetComment(ctx context.Context, id primitive.ObjectID) (model.Comment, error) {
	var comment model.Comment
	if err := svc.CollectionComment.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Comment{}, ErrNoDoc
		}
		log.Logger().WithContext(ctx).Error("get comment: ", err.Error())
		return model.Comment{}, err
	}
	return comment, nil
}

// LikeComment records userID's like. $addToSet keeps the liked array
// duplicate-free, and the event only fires when the like actually landed.
func (svc *CourseService) LikeComment(ctx context.Context, id primitive.ObjectID, userID string) error {
	comment, err := svc.GetComment(ctx, id)
	if err != nil {
		return err
	}
	update := bson.M{"$addToSet": bson.M{"liked": userID}}
	result, err := svc.CollectionComment.UpdateByID(ctx, id, update)
	if err != nil {
		log.Logger().WithContext(ctx).Error("like comment: ", err.Error())
		return ErrDatabase
	}
	if result.ModifiedCount == 0 {
		return nil
	}
	svc.Bus.Publish(ctx, model.CommentLiked{Comment: comment, UserID: userID})
	return nil
}

func (svc *CourseService) UnlikeComment(ctx context.Context, id primitive.ObjectID, userID string) error {
	comment, err := svc.GetComment(ctx, id)
	if err != nil {
		return err
	}
	update := bson.M{"$pull": bson.M{"liked": userID}}
	result, err := svc.CollectionComment.UpdateByID(ctx, id, update)
	if err != nil {
		log.Logger().WithContext(ctx).Error("unlike comment: ", err.Error())
		return ErrDatabase
	}
	if result.ModifiedCount == 0 {
		return nil
	}
	svc.Bus.Publish(ctx, model.CommentUnliked{Comment: comment, UserID: userID})
	return nil
}
