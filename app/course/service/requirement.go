package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursehub/app/course/model"
	"coursehub/common/lock"
	"coursehub/common/log"
)

type AddRequirementReq struct {
	TaskID         primitive.ObjectID    `json:"taskId"`
	Kind           model.RequirementKind `json:"kind"`
	ProblemIDs     []primitive.ObjectID  `json:"problemIds"`
	ProblemID      *primitive.ObjectID   `json:"problemId"`
	Acceptance     *int                  `json:"acceptance"`
	RequiredNumber int                   `json:"requiredNumber"`
}

// AddRequirement validates the criterion, persists it, attaches it to the
// task through the requirement.added signal and backfills progress from the
// history already inside the task's window.
func (svc *CourseService) AddRequirement(ctx context.Context, req AddRequirementReq) (model.Requirement, error) {
	task, err := svc.GetTask(ctx, req.TaskID)
	if err != nil {
		return model.Requirement{}, err
	}

	r := model.Requirement{
		ID:      primitive.NewObjectID(),
		TaskID:  task.ID,
		Kind:    req.Kind,
		Records: map[string]model.Record{},
	}
	switch req.Kind {
	case model.KindSolveOJProblem:
		problems, err := svc.fetchProblems(ctx, req.ProblemIDs)
		if err != nil {
			return model.Requirement{}, err
		}
		if err := validateSolveOJProblem(task, problems); err != nil {
			return model.Requirement{}, err
		}
		r.ProblemIDs = req.ProblemIDs
	case model.KindLeaveComment:
		if req.ProblemID == nil {
			return model.Requirement{}, ErrNoDoc
		}
		problem, err := svc.GetProblem(ctx, *req.ProblemID)
		if err != nil {
			return model.Requirement{}, err
		}
		if err := validateLeaveComment(problem); err != nil {
			return model.Requirement{}, err
		}
		if req.RequiredNumber < 1 {
			return model.Requirement{}, ErrBadRequiredNumber
		}
		r.ProblemID = req.ProblemID
		r.Acceptance = req.Acceptance
		r.RequiredNumber = req.RequiredNumber
	case model.KindReplyToComment, model.KindLikeOthersComment:
		if req.RequiredNumber < 1 {
			return model.Requirement{}, ErrBadRequiredNumber
		}
		r.RequiredNumber = req.RequiredNumber
	default:
		return model.Requirement{}, ErrBadRequirementKind
	}

	if _, err := svc.CollectionRequirement.InsertOne(ctx, r); err != nil {
		log.Logger().WithContext(ctx).Error("add requirement: ", err.Error())
		return model.Requirement{}, ErrDatabase
	}
	svc.Bus.Publish(ctx, model.RequirementAdded{Requirement: r})

	// backfill from history already inside the window; a client hangup must
	// not leave the backfill half done
	if err := svc.syncWindow(log.WithNoCancel(ctx), r, nil, task.Window()); err != nil {
		log.Logger().WithContext(ctx).Error("backfill requirement: ", err.Error())
	}
	return r, nil
}

func validateSolveOJProblem(task model.Task, problems []model.Problem) error {
	if len(problems) == 0 {
		return ErrEmptyProblemSet
	}
	for _, p := range problems {
		if p.CourseID != task.CourseID {
			return ErrProblemOutsideCourse
		}
		if !p.IsOJ {
			return ErrProblemNotOJ
		}
	}
	return nil
}

func validateLeaveComment(p model.Problem) error {
	if p.IsOJ {
		return ErrProblemIsOJ
	}
	return nil
}

func (svc *CourseService) GetRequirement(ctx context.Context, id primitive.ObjectID) (model.Requirement, error) {
	var r model.Requirement
	if err := svc.CollectionRequirement.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Requirement{}, ErrNoDoc
		}
		log.Logger().WithContext(ctx).Error("get requirement: ", err.Error())
		return model.Requirement{}, err
	}
	return r, nil
}

func (svc *CourseService) DeleteRequirement(ctx context.Context, id primitive.ObjectID) error {
	r, err := svc.GetRequirement(ctx, id)
	if err != nil {
		return err
	}
	if _, err := svc.CollectionRequirement.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		log.Logger().WithContext(ctx).Error("delete requirement: ", err.Error())
		return ErrDatabase
	}
	update := bson.M{"$pull": bson.M{"requirements": id}}
	if _, err := svc.CollectionTask.UpdateByID(ctx, r.TaskID, update); err != nil {
		log.Logger().WithContext(ctx).Error("detach requirement: ", err.Error())
		return ErrDatabase
	}
	return nil
}

type ProgressResp struct {
	Achieved    int        `json:"achieved"`
	Required    int        `json:"required"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (svc *CourseService) Progress(ctx context.Context, id primitive.ObjectID, userID string) (ProgressResp, error) {
	r, err := svc.GetRequirement(ctx, id)
	if err != nil {
		return ProgressResp{}, err
	}
	achieved, required := r.Progress(userID)
	return ProgressResp{
		Achieved:    achieved,
		Required:    required,
		Completed:   r.IsCompleted(userID),
		CompletedAt: r.Records[userID].CompletedAt,
	}, nil
}

func (svc *CourseService) fetchProblems(ctx context.Context, ids []primitive.ObjectID) ([]model.Problem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := svc.CollectionProblem.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, ErrDatabase
	}
	var problems []model.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, ErrDatabase
	}
	if len(problems) != len(ids) {
		return nil, ErrNoDoc
	}
	return problems, nil
}

// reloadRecords pulls the authoritative record map (and the fields the
// threshold depends on) straight from the store. Callers hold the
// requirement's lock; an in-memory copy from before acquisition is never
// trusted.
func (svc *CourseService) reloadRecords(ctx context.Context, id primitive.ObjectID) (model.Requirement, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"records":        1,
		"kind":           1,
		"problemIds":     1,
		"requiredNumber": 1,
	})
	var r model.Requirement
	if err := svc.CollectionRequirement.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Requirement{}, ErrNoDoc
		}
		log.Logger().WithContext(ctx).Error("reload records: ", err.Error())
		return model.Requirement{}, err
	}
	return r, nil
}

// applyRequirementEvent is the single write path for incremental progress.
// It serializes on the requirement's lock, reloads the record map, applies
// the idempotent accumulator update and persists only that user's record.
func (svc *CourseService) applyRequirementEvent(ctx context.Context, id primitive.ObjectID, userID, itemID string) error {
	return svc.Locker.WithLock(ctx, lock.RequirementKey(id.Hex()), func(ctx context.Context) error {
		fresh, err := svc.reloadRecords(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNoDoc) {
				// deleted while the event was in flight
				return nil
			}
			return err
		}
		rec := fresh.Records[userID]
		if !rec.Add(itemID, fresh.Threshold(), time.Now()) {
			return nil
		}
		update := bson.M{"$set": bson.M{"records." + userID: rec}}
		if _, err := svc.CollectionRequirement.UpdateByID(ctx, id, update); err != nil {
			log.Logger().WithContext(ctx).Error("apply requirement event: ", err.Error())
			return ErrDatabase
		}
		return nil
	})
}

// removeRequirementEvent undoes one accumulated item (an unlike) for a
// record that has not completed yet. Completed records stay completed.
func (svc *CourseService) removeRequirementEvent(ctx context.Context, id primitive.ObjectID, userID, itemID string) error {
	return svc.Locker.WithLock(ctx, lock.RequirementKey(id.Hex()), func(ctx context.Context) error {
		fresh, err := svc.reloadRecords(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNoDoc) {
				return nil
			}
			return err
		}
		rec := fresh.Records[userID]
		if !rec.Remove(itemID) {
			return nil
		}
		update := bson.M{"$set": bson.M{"records." + userID: rec}}
		if _, err := svc.CollectionRequirement.UpdateByID(ctx, id, update); err != nil {
			log.Logger().WithContext(ctx).Error("remove requirement event: ", err.Error())
			return ErrDatabase
		}
		return nil
	})
}

// requirementsForCourse finds every requirement of the given kind whose
// owning task belongs to the course and is active at the event's time.
func (svc *CourseService) requirementsForCourse(ctx context.Context, courseID primitive.ObjectID, kind model.RequirementKind, at time.Time) ([]model.Requirement, error) {
	cursor, err := svc.CollectionTask.Find(ctx, bson.M{"courseId": courseID})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, ErrDatabase
	}
	var tasks []model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, ErrDatabase
	}
	taskIDs := make([]primitive.ObjectID, 0, len(tasks))
	for _, t := range tasks {
		if t.Window().Contains(at) {
			taskIDs = append(taskIDs, t.ID)
		}
	}
	if len(taskIDs) == 0 {
		return nil, nil
	}
	cursor, err = svc.CollectionRequirement.Find(ctx, bson.M{
		"kind":   kind,
		"taskId": bson.M{"$in": taskIDs},
	})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, ErrDatabase
	}
	var reqs []model.Requirement
	if err := cursor.All(ctx, &reqs); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, ErrDatabase
	}
	return reqs, nil
}
