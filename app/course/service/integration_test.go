package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursehub/app/course/model"
	"coursehub/common/events"
	"coursehub/common/lock"
	"coursehub/common/util"
	ext "coursehub/config"
)

// newTestService wires a service against throwaway backends. Set
// COURSEHUB_TEST_MONGO and COURSEHUB_TEST_REDIS to run these tests, e.g.
//
//	COURSEHUB_TEST_MONGO=mongodb://127.0.0.1:27017 COURSEHUB_TEST_REDIS=127.0.0.1:6379 go test ./...
func newTestService(t *testing.T) (*CourseService, context.Context) {
	t.Helper()
	mongoDSN := os.Getenv("COURSEHUB_TEST_MONGO")
	redisAddr := os.Getenv("COURSEHUB_TEST_REDIS")
	if mongoDSN == "" || redisAddr == "" {
		t.Skip("COURSEHUB_TEST_MONGO and COURSEHUB_TEST_REDIS not set")
	}
	ctx := context.Background()
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoDSN))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = rdb.Close() })

	ext.ExtConfig.Mongodb.Database = "coursehub_test"
	svc := NewCourseService(client, events.NewBus(), lock.New(rdb))
	svc.RegisterHandlers()
	require.NoError(t, svc.MongodbDB.Drop(ctx))
	return svc, ctx
}

func makeCourse(t *testing.T, ctx context.Context, svc *CourseService, students ...string) model.Course {
	t.Helper()
	course, err := svc.CreateCourse(ctx, CreateCourseReq{Name: "algorithms", Students: students})
	require.NoError(t, err)
	return course
}

func makeProblem(t *testing.T, ctx context.Context, svc *CourseService, courseID primitive.ObjectID, isOJ bool) model.Problem {
	t.Helper()
	problem, err := svc.CreateProblem(ctx, CreateProblemReq{CourseID: courseID, Title: "two sum", IsOJ: isOJ})
	require.NoError(t, err)
	return problem
}

func makeTask(t *testing.T, ctx context.Context, svc *CourseService, courseID primitive.ObjectID, startsAt, endsAt *time.Time) model.Task {
	t.Helper()
	req := CreateTaskReq{CourseID: courseID, Title: "week 1"}
	if startsAt != nil {
		d := util.Datetime(*startsAt)
		req.StartsAt = &d
	}
	if endsAt != nil {
		d := util.Datetime(*endsAt)
		req.EndsAt = &d
	}
	task, err := svc.CreateTask(ctx, req)
	require.NoError(t, err)
	return task
}

func acceptSubmission(t *testing.T, ctx context.Context, svc *CourseService, problemID primitive.ObjectID, userID string) {
	t.Helper()
	s, err := svc.CreateSubmission(ctx, CreateSubmissionReq{ProblemID: problemID, UserID: userID})
	require.NoError(t, err)
	_, err = svc.CompleteSubmission(ctx, CompleteSubmissionReq{ID: s.ID, Status: model.SubmissionStatusAccepted})
	require.NoError(t, err)
}

func TestSolveOJProblemFlow(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc)
	p1 := makeProblem(t, ctx, svc, course.ID, true)
	p2 := makeProblem(t, ctx, svc, course.ID, true)
	task := makeTask(t, ctx, svc, course.ID, nil, nil)

	r, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:     task.ID,
		Kind:       model.KindSolveOJProblem,
		ProblemIDs: []primitive.ObjectID{p1.ID, p2.ID},
	})
	require.NoError(t, err)

	// the requirement shows up on its task
	task, err = svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, []primitive.ObjectID{r.ID}, task.Requirements)

	acceptSubmission(t, ctx, svc, p1.ID, "alice")
	progress, err := svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Achieved)
	assert.Equal(t, 2, progress.Required)
	assert.False(t, progress.Completed)

	// solving the same problem again does not double count
	acceptSubmission(t, ctx, svc, p1.ID, "alice")
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Achieved)

	// rejected verdicts never count
	s, err := svc.CreateSubmission(ctx, CreateSubmissionReq{ProblemID: p2.ID, UserID: "alice"})
	require.NoError(t, err)
	_, err = svc.CompleteSubmission(ctx, CompleteSubmissionReq{ID: s.ID, Status: model.SubmissionStatusRejected})
	require.NoError(t, err)
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Achieved)

	acceptSubmission(t, ctx, svc, p2.ID, "alice")
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.NotNil(t, progress.CompletedAt)

	// other users are untouched
	progress, err = svc.Progress(ctx, r.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Achieved)
	assert.False(t, progress.Completed)
}

func TestLikeOthersCommentFlow(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc)
	problem := makeProblem(t, ctx, svc, course.ID, false)
	task := makeTask(t, ctx, svc, course.ID, nil, nil)

	r, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:         task.ID,
		Kind:           model.KindLikeOthersComment,
		RequiredNumber: 2,
	})
	require.NoError(t, err)

	own, err := svc.AddComment(ctx, AddCommentReq{ProblemID: problem.ID, Author: "alice", Content: "mine"})
	require.NoError(t, err)
	c1, err := svc.AddComment(ctx, AddCommentReq{ProblemID: problem.ID, Author: "bob", Content: "one"})
	require.NoError(t, err)
	c2, err := svc.AddComment(ctx, AddCommentReq{ProblemID: problem.ID, Author: "carol", Content: "two"})
	require.NoError(t, err)

	// liking your own comment never counts
	require.NoError(t, svc.LikeComment(ctx, own.ID, "alice"))
	progress, err := svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Achieved)

	require.NoError(t, svc.LikeComment(ctx, c1.ID, "alice"))
	// a second like of the same comment is swallowed by $addToSet
	require.NoError(t, svc.LikeComment(ctx, c1.ID, "alice"))
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Achieved)

	// unlike before completion takes the item back
	require.NoError(t, svc.UnlikeComment(ctx, c1.ID, "alice"))
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Achieved)

	require.NoError(t, svc.LikeComment(ctx, c1.ID, "alice"))
	require.NoError(t, svc.LikeComment(ctx, c2.ID, "alice"))
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	require.True(t, progress.Completed)

	// completion is monotonic: unliking afterwards changes nothing
	require.NoError(t, svc.UnlikeComment(ctx, c2.ID, "alice"))
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.Equal(t, 2, progress.Achieved)
}

func TestCommentAndReplyFlow(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc)
	problem := makeProblem(t, ctx, svc, course.ID, false)
	task := makeTask(t, ctx, svc, course.ID, nil, nil)

	commentReq, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:         task.ID,
		Kind:           model.KindLeaveComment,
		ProblemID:      &problem.ID,
		RequiredNumber: 1,
	})
	require.NoError(t, err)
	replyReq, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:         task.ID,
		Kind:           model.KindReplyToComment,
		RequiredNumber: 1,
	})
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, AddCommentReq{ProblemID: problem.ID, Author: "alice", Content: "hello"})
	require.NoError(t, err)
	progress, err := svc.Progress(ctx, commentReq.ID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.Completed)

	// a reply advances the reply requirement but not the comment one
	_, err = svc.AddReply(ctx, AddReplyReq{CommentID: comment.ID, Author: "bob", Content: "hi"})
	require.NoError(t, err)
	progress, err = svc.Progress(ctx, replyReq.ID, "bob")
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	progress, err = svc.Progress(ctx, commentReq.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Achieved)
}

func insertAcceptedSubmission(t *testing.T, ctx context.Context, svc *CourseService, courseID, problemID primitive.ObjectID, userID string, at time.Time) {
	t.Helper()
	_, err := svc.CollectionSubmission.InsertOne(ctx, model.Submission{
		ID:        primitive.NewObjectID(),
		ProblemID: problemID,
		CourseID:  courseID,
		UserID:    userID,
		Status:    model.SubmissionStatusAccepted,
		CreatedAt: at,
	})
	require.NoError(t, err)
}

func TestWindowBackfillAndGrowth(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc)
	p1 := makeProblem(t, ctx, svc, course.ID, true)
	p2 := makeProblem(t, ctx, svc, course.ID, true)

	day := func(n int) time.Time { return time.Date(2023, 3, n, 12, 0, 0, 0, time.UTC) }
	start, end := day(2), day(4)
	task := makeTask(t, ctx, svc, course.ID, &start, &end)

	// history: one solve before the window, one inside
	insertAcceptedSubmission(t, ctx, svc, course.ID, p1.ID, "alice", day(1))
	insertAcceptedSubmission(t, ctx, svc, course.ID, p2.ID, "alice", day(3))

	r, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:     task.ID,
		Kind:       model.KindSolveOJProblem,
		ProblemIDs: []primitive.ObjectID{p1.ID, p2.ID},
	})
	require.NoError(t, err)

	// the backfill only saw the in-window solve
	progress, err := svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Achieved)

	// growing the start exposes the earlier solve
	newStart := util.Datetime(day(1))
	_, err = svc.EditTask(ctx, EditTaskReq{ID: task.ID, StartsAt: &newStart})
	require.NoError(t, err)
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Achieved)
	assert.True(t, progress.Completed)
}

func TestWindowShrinkResetsRecords(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc)
	p1 := makeProblem(t, ctx, svc, course.ID, true)
	p2 := makeProblem(t, ctx, svc, course.ID, true)

	day := func(n int) time.Time { return time.Date(2023, 3, n, 12, 0, 0, 0, time.UTC) }
	start, end := day(1), day(4)
	task := makeTask(t, ctx, svc, course.ID, &start, &end)

	insertAcceptedSubmission(t, ctx, svc, course.ID, p1.ID, "alice", day(1))
	insertAcceptedSubmission(t, ctx, svc, course.ID, p2.ID, "alice", day(3))

	r, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:     task.ID,
		Kind:       model.KindSolveOJProblem,
		ProblemIDs: []primitive.ObjectID{p1.ID, p2.ID},
	})
	require.NoError(t, err)
	progress, err := svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	require.True(t, progress.Completed)

	// shrinking the window rebuilds records from the remaining history only
	newStart := util.Datetime(day(2))
	_, err = svc.EditTask(ctx, EditTaskReq{ID: task.ID, StartsAt: &newStart})
	require.NoError(t, err)
	progress, err = svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Achieved)
	assert.False(t, progress.Completed)
}

func TestExtendDue(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc, "alice", "bob")
	day := func(n int) time.Time { return time.Date(2023, 3, n, 12, 0, 0, 0, time.UTC) }
	start, end := day(1), day(4)
	task := makeTask(t, ctx, svc, course.ID, &start, &end)

	// moving the end earlier or nowhere is a silent no-op
	_, extended, err := svc.ExtendDue(ctx, task.ID, day(3))
	require.NoError(t, err)
	assert.False(t, extended)
	_, extended, err = svc.ExtendDue(ctx, task.ID, day(4))
	require.NoError(t, err)
	assert.False(t, extended)

	got, extended, err := svc.ExtendDue(ctx, task.ID, day(6))
	require.NoError(t, err)
	require.True(t, extended)
	require.NotNil(t, got.EndsAt)
	assert.True(t, got.EndsAt.Equal(day(6)))

	// every student got told
	for _, userID := range []string{"alice", "bob"} {
		notifications, err := svc.ListNotifications(ctx, userID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
	}

	// an open-ended task cannot be extended
	openTask := makeTask(t, ctx, svc, course.ID, &start, nil)
	_, extended, err = svc.ExtendDue(ctx, openTask.ID, day(9))
	require.NoError(t, err)
	assert.False(t, extended)
}

func TestDeleteTaskCascades(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc)
	task := makeTask(t, ctx, svc, course.ID, nil, nil)

	r, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:         task.ID,
		Kind:           model.KindReplyToComment,
		RequiredNumber: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	_, err = svc.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNoDoc)
	_, err = svc.GetRequirement(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNoDoc)

	assert.ErrorIs(t, svc.DeleteTask(ctx, task.ID), ErrNoDoc)
}

func TestSyncRequirementScopedToUsers(t *testing.T) {
	svc, ctx := newTestService(t)
	course := makeCourse(t, ctx, svc)
	p1 := makeProblem(t, ctx, svc, course.ID, true)
	task := makeTask(t, ctx, svc, course.ID, nil, nil)

	r, err := svc.AddRequirement(ctx, AddRequirementReq{
		TaskID:     task.ID,
		Kind:       model.KindSolveOJProblem,
		ProblemIDs: []primitive.ObjectID{p1.ID},
	})
	require.NoError(t, err)

	// drop the records behind the service's back, then resync one user
	insertAcceptedSubmission(t, ctx, svc, course.ID, p1.ID, "alice", time.Now())
	insertAcceptedSubmission(t, ctx, svc, course.ID, p1.ID, "bob", time.Now())
	_, err = svc.CollectionRequirement.UpdateByID(ctx, r.ID, bson.M{"$set": bson.M{"records": bson.M{}}})
	require.NoError(t, err)

	require.NoError(t, svc.SyncRequirement(ctx, SyncRequirementReq{ID: r.ID, Users: []string{"alice"}}))
	progress, err := svc.Progress(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	progress, err = svc.Progress(ctx, r.ID, "bob")
	require.NoError(t, err)
	assert.False(t, progress.Completed)
}
