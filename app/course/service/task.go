package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursehub/app/course/model"
	"coursehub/common/dto"
	"coursehub/common/events"
	"coursehub/common/lock"
	"coursehub/common/log"
	"coursehub/common/util"
)

type CreateTaskReq struct {
	CourseID primitive.ObjectID `json:"courseId"`
	Title    string             `json:"title"`
	Content  string             `json:"content"`
	StartsAt *util.Datetime     `json:"startsAt"`
	EndsAt   *util.Datetime     `json:"endsAt"`
}

func (svc *CourseService) CreateTask(ctx context.Context, req CreateTaskReq) (model.Task, error) {
	if _, err := svc.GetCourse(ctx, req.CourseID); err != nil {
		return model.Task{}, err
	}
	task := model.Task{
		ID:           primitive.NewObjectID(),
		CourseID:     req.CourseID,
		Title:        req.Title,
		Content:      req.Content,
		StartsAt:     req.StartsAt.Time(),
		EndsAt:       req.EndsAt.Time(),
		Requirements: []primitive.ObjectID{},
	}
	if _, err := svc.CollectionTask.InsertOne(ctx, task); err != nil {
		log.Logger().WithContext(ctx).Error("create task: ", err.Error())
		return model.Task{}, ErrDatabase
	}
	return task, nil
}

func (svc *CourseService) GetTask(ctx context.Context, id primitive.ObjectID) (model.Task, error) {
	var task model.Task
	if err := svc.CollectionTask.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, ErrNoDoc
		}
		log.Logger().WithContext(ctx).Error("get task: ", err.Error())
		return model.Task{}, err
	}
	return task, nil
}

type ListTasksReq struct {
	CourseID primitive.ObjectID `json:"courseId" form:"-"`
	dto.Pagination
}

func (svc *CourseService) ListTasks(ctx context.Context, req ListTasksReq) ([]model.Task, int, error) {
	req.Normalize()
	filter := bson.M{}
	if !req.CourseID.IsZero() {
		filter["courseId"] = req.CourseID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(req.PageSize)).
		SetSkip(int64((req.PageIndex - 1) * req.PageSize))
	cursor, err := svc.CollectionTask.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, 0, ErrDatabase
	}
	var tasks []model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionTask.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, 0, ErrDatabase
	}
	return tasks, int(count), nil
}

type EditTaskReq struct {
	ID      primitive.ObjectID `json:"id"`
	Title   *string            `json:"title"`
	Content *string            `json:"content"`

	// A nil time leaves the bound unchanged; the Clear flags drop it.
	StartsAt      *util.Datetime `json:"startsAt"`
	EndsAt        *util.Datetime `json:"endsAt"`
	ClearStartsAt bool           `json:"clearStartsAt"`
	ClearEndsAt   bool           `json:"clearEndsAt"`
}

// EditTask persists the given fields and, when the active window moved,
// feeds the old bounds to the requirement listeners so per-user progress is
// re-synchronized.
func (svc *CourseService) EditTask(ctx context.Context, req EditTaskReq) (model.Task, error) {
	task, err := svc.GetTask(ctx, req.ID)
	if err != nil {
		return model.Task{}, err
	}
	old := task.Window()

	set := bson.M{}
	unset := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
		task.Title = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
		task.Content = *req.Content
	}
	switch {
	case req.StartsAt != nil:
		t := req.StartsAt.Time()
		set["startsAt"] = *t
		task.StartsAt = t
	case req.ClearStartsAt:
		unset["startsAt"] = ""
		task.StartsAt = nil
	}
	switch {
	case req.EndsAt != nil:
		t := req.EndsAt.Time()
		set["endsAt"] = *t
		task.EndsAt = t
	case req.ClearEndsAt:
		unset["endsAt"] = ""
		task.EndsAt = nil
	}
	if len(set) == 0 && len(unset) == 0 {
		return task, nil
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if _, err := svc.CollectionTask.UpdateByID(ctx, task.ID, update); err != nil {
		log.Logger().WithContext(ctx).Error("edit task: ", err.Error())
		return model.Task{}, ErrDatabase
	}

	if !task.Window().Equal(old) {
		svc.Bus.Publish(ctx, model.TaskTimeChanged{
			Task:        task,
			OldStartsAt: old.StartsAt,
			OldEndsAt:   old.EndsAt,
		})
	}
	return task, nil
}

// ExtendDue pushes the deadline later. Requests that do not move the end
// forward are a silent no-op, not an error. An open-ended task cannot be
// extended.
func (svc *CourseService) ExtendDue(ctx context.Context, id primitive.ObjectID, endsAt time.Time) (model.Task, bool, error) {
	var (
		out      model.Task
		extended bool
	)
	err := svc.Locker.WithLock(ctx, lock.TaskKey(id.Hex()), func(ctx context.Context) error {
		task, err := svc.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if task.EndsAt == nil || !endsAt.After(*task.EndsAt) {
			out = task
			return nil
		}
		oldEnd := task.EndsAt
		if _, err := svc.CollectionTask.UpdateByID(ctx, task.ID, bson.M{"$set": bson.M{"endsAt": endsAt}}); err != nil {
			log.Logger().WithContext(ctx).Error("extend due: ", err.Error())
			return ErrDatabase
		}
		task.EndsAt = &endsAt
		out = task
		extended = true

		svc.Bus.Publish(ctx, model.TaskTimeChanged{Task: task, OldStartsAt: task.StartsAt, OldEndsAt: oldEnd})
		svc.Bus.Publish(ctx, model.TaskDueExtended{Task: task, OldEndsAt: oldEnd})
		return nil
	})
	return out, extended, err
}

// DeleteTask removes the task and every requirement it owns. Requirements
// go first so a crash in between can never leave a requirement that
// resolves after its task 404s.
func (svc *CourseService) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	if _, err := svc.GetTask(ctx, id); err != nil {
		return err
	}
	if _, err := svc.CollectionRequirement.DeleteMany(ctx, bson.M{"taskId": id}); err != nil {
		log.Logger().WithContext(ctx).Error("delete task requirements: ", err.Error())
		return ErrDatabase
	}
	if _, err := svc.CollectionTask.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		log.Logger().WithContext(ctx).Error("delete task: ", err.Error())
		return ErrDatabase
	}
	return nil
}

// onRequirementAdded appends a freshly created requirement to its task's
// ordered list.
func (svc *CourseService) onRequirementAdded(ctx context.Context, e events.Event) {
	ev, ok := e.(model.RequirementAdded)
	if !ok {
		return
	}
	update := bson.M{"$push": bson.M{"requirements": ev.Requirement.ID}}
	if _, err := svc.CollectionTask.UpdateByID(ctx, ev.Requirement.TaskID, update); err != nil {
		log.Logger().WithContext(ctx).Error("attach requirement to task: ", err.Error())
	}
}

// onTaskDueExtended fans a notification out to the course's students.
func (svc *CourseService) onTaskDueExtended(ctx context.Context, e events.Event) {
	ev, ok := e.(model.TaskDueExtended)
	if !ok {
		return
	}
	course, err := svc.GetCourse(ctx, ev.Task.CourseID)
	if err != nil {
		log.Logger().WithContext(ctx).Error("due extended notification: ", err.Error())
		return
	}
	if len(course.Students) == 0 {
		return
	}
	now := time.Now()
	docs := util.Map(course.Students, func(userID string) interface{} {
		return model.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Title:     "Due date extended",
			Content:   fmt.Sprintf("The due date of task %q has been extended to %s", ev.Task.Title, ev.Task.EndsAt.Format(time.RFC3339)),
			CreatedAt: now,
		}
	})
	if _, err := svc.CollectionNotification.InsertMany(ctx, docs); err != nil {
		log.Logger().WithContext(ctx).Error("due extended notification: ", err.Error())
	}
}
