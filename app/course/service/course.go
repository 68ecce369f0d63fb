package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursehub/app/course/model"
	"coursehub/common/counter"
	"coursehub/common/log"
)

type CreateCourseReq struct {
	Name     string   `json:"name"`
	Students []string `json:"students"`
}

func (svc *CourseService) CreateCourse(ctx context.Context, req CreateCourseReq) (model.Course, error) {
	course := model.Course{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Students: req.Students,
	}
	if course.Students == nil {
		course.Students = []string{}
	}
	if _, err := svc.CollectionCourse.InsertOne(ctx, course); err != nil {
		log.Logger().WithContext(ctx).Error("create course: ", err.Error())
		return model.Course{}, ErrDatabase
	}
	return course, nil
}

func (svc *CourseService) GetCourse(ctx context.Context, id primitive.ObjectID) (model.Course, error) {
	var course model.Course
	if err := svc.CollectionCourse.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Course{}, ErrNoDoc
		}
		log.Logger().WithContext(ctx).Error("get course: ", err.Error())
		return model.Course{}, err
	}
	return course, nil
}

func (svc *CourseService) AddStudent(ctx context.Context, courseID primitive.ObjectID, userID string) error {
	if _, err := svc.GetCourse(ctx, courseID); err != nil {
		return err
	}
	update := bson.M{"$addToSet": bson.M{"students": userID}}
	if _, err := svc.CollectionCourse.UpdateByID(ctx, courseID, update); err != nil {
		log.Logger().WithContext(ctx).Error("add student: ", err.Error())
		return ErrDatabase
	}
	return nil
}

type CreateProblemReq struct {
	CourseID primitive.ObjectID `json:"courseId"`
	Title    string             `json:"title"`
	IsOJ     bool               `json:"isOJ"`
}

func (svc *CourseService) CreateProblem(ctx context.Context, req CreateProblemReq) (model.Problem, error) {
	if _, err := svc.GetCourse(ctx, req.CourseID); err != nil {
		return model.Problem{}, err
	}
	problem := model.Problem{
		ID:       primitive.NewObjectID(),
		CourseID: req.CourseID,
		Title:    req.Title,
		IsOJ:     req.IsOJ,
	}
	if _, err := svc.CollectionProblem.InsertOne(ctx, problem); err != nil {
		log.Logger().WithContext(ctx).Error("create problem: ", err.Error())
		return model.Problem{}, ErrDatabase
	}
	return problem, nil
}

func (svc *CourseService) GetProblem(ctx context.Context, id primitive.ObjectID) (model.Problem, error) {
	var problem model.Problem
	if err := svc.CollectionProblem.FindOne(ctx, bson.M{"_id": id}).Decode(&problem); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Problem{}, ErrNoDoc
		}
		log.Logger().WithContext(ctx).Error("get problem: ", err.Error())
		return model.Problem{}, err
	}
	return problem, nil
}

type CommenterStat struct {
	UserID   string `json:"userId"`
	Comments int    `json:"comments"`
}

// TopCommenters ranks a course's comment authors by volume, replies
// included.
func (svc *CourseService) TopCommenters(ctx context.Context, courseID primitive.ObjectID, limit int) ([]CommenterStat, error) {
	if _, err := svc.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	opts := options.Find().SetProjection(bson.M{"author": 1})
	cursor, err := svc.CollectionComment.Find(ctx, bson.M{"courseId": courseID}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("top commenters: ", err.Error())
		return nil, ErrDatabase
	}
	var comments []model.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		log.Logger().WithContext(ctx).Error("top commenters: ", err.Error())
		return nil, ErrDatabase
	}
	byAuthor := counter.Counter[string]{}
	for _, c := range comments {
		byAuthor.Inc(c.Author, 1)
	}
	if limit <= 0 || limit > len(byAuthor) {
		limit = len(byAuthor)
	}
	stats := make([]CommenterStat, 0, limit)
	for i := 0; i < limit; i++ {
		userID, n := byAuthor.PopMax()
		stats = append(stats, CommenterStat{UserID: userID, Comments: n})
	}
	return stats, nil
}

func (svc *CourseService) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := svc.CollectionNotification.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("list notifications: ", err.Error())
		return nil, ErrDatabase
	}
	var notifications []model.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		log.Logger().WithContext(ctx).Error("list notifications: ", err.Error())
		return nil, ErrDatabase
	}
	return notifications, nil
}
