package service

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"coursehub/app/course/model"
	"coursehub/common/events"
	"coursehub/common/lock"
	ext "coursehub/config"
)

var (
	ErrDatabase = errors.New("db error")
	ErrNoDoc    = errors.New("document not found")

	ErrEmptyProblemSet      = errors.New("problem set cannot be empty")
	ErrProblemNotOJ         = errors.New("problem must be an OJ problem")
	ErrProblemIsOJ          = errors.New("OJ problem cannot take a comment requirement")
	ErrProblemOutsideCourse = errors.New("problem does not belong to the task's course")
	ErrBadRequiredNumber    = errors.New("required number must be positive")
	ErrBadRequirementKind   = errors.New("unknown requirement kind")
)

// IsValidationError reports whether err should surface as a 4xx to the web
// layer rather than as an operational failure.
func IsValidationError(err error) bool {
	for _, v := range []error{
		ErrEmptyProblemSet,
		ErrProblemNotOJ,
		ErrProblemIsOJ,
		ErrProblemOutsideCourse,
		ErrBadRequiredNumber,
		ErrBadRequirementKind,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

type CourseService struct {
	MongodbClient *mongo.Client
	MongodbDB     *mongo.Database

	CollectionCourse       *mongo.Collection
	CollectionProblem      *mongo.Collection
	CollectionTask         *mongo.Collection
	CollectionRequirement  *mongo.Collection
	CollectionComment      *mongo.Collection
	CollectionSubmission   *mongo.Collection
	CollectionNotification *mongo.Collection

	Bus    *events.Bus
	Locker *lock.Locker
}

func NewCourseService(mongodbClient *mongo.Client, bus *events.Bus, locker *lock.Locker) *CourseService {
	cfg := ext.ExtConfig.Mongodb
	db := mongodbClient.Database(cfg.Database)
	return &CourseService{
		MongodbClient:          mongodbClient,
		MongodbDB:              db,
		CollectionCourse:       db.Collection("courses"),
		CollectionProblem:      db.Collection("problems"),
		CollectionTask:         db.Collection("tasks"),
		CollectionRequirement:  db.Collection("requirements"),
		CollectionComment:      db.Collection("comments"),
		CollectionSubmission:   db.Collection("submissions"),
		CollectionNotification: db.Collection("notifications"),
		Bus:                    bus,
		Locker:                 locker,
	}
}

// RegisterHandlers subscribes every requirement and task listener exactly
// once. The composition root calls it before serving any request, so no
// handler registration ever races with event delivery.
func (svc *CourseService) RegisterHandlers() {
	svc.Bus.Subscribe(model.EventRequirementAdded, svc.onRequirementAdded)
	svc.Bus.Subscribe(model.EventSubmissionCompleted, svc.onSubmissionCompleted)
	svc.Bus.Subscribe(model.EventCommentCreated, svc.onCommentCreated)
	svc.Bus.Subscribe(model.EventReplyCreated, svc.onReplyCreated)
	svc.Bus.Subscribe(model.EventCommentLiked, svc.onCommentLiked)
	svc.Bus.Subscribe(model.EventCommentUnliked, svc.onCommentUnliked)
	svc.Bus.Subscribe(model.EventTaskTimeChanged, svc.onTaskTimeChanged)
	svc.Bus.Subscribe(model.EventTaskDueExtended, svc.onTaskDueExtended)
}
