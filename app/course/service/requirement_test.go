package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"coursehub/app/course/model"
)

func TestValidateSolveOJProblem(t *testing.T) {
	courseID := primitive.NewObjectID()
	task := model.Task{CourseID: courseID}

	assert.ErrorIs(t, validateSolveOJProblem(task, nil), ErrEmptyProblemSet)

	oj := model.Problem{CourseID: courseID, IsOJ: true}
	normal := model.Problem{CourseID: courseID, IsOJ: false}
	foreign := model.Problem{CourseID: primitive.NewObjectID(), IsOJ: true}

	assert.NoError(t, validateSolveOJProblem(task, []model.Problem{oj, oj}))
	assert.ErrorIs(t, validateSolveOJProblem(task, []model.Problem{oj, normal}), ErrProblemNotOJ)
	assert.ErrorIs(t, validateSolveOJProblem(task, []model.Problem{foreign}), ErrProblemOutsideCourse)
}

func TestValidateLeaveComment(t *testing.T) {
	assert.NoError(t, validateLeaveComment(model.Problem{IsOJ: false}))
	assert.ErrorIs(t, validateLeaveComment(model.Problem{IsOJ: true}), ErrProblemIsOJ)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrEmptyProblemSet))
	assert.True(t, IsValidationError(ErrBadRequirementKind))
	assert.False(t, IsValidationError(ErrDatabase))
	assert.False(t, IsValidationError(ErrNoDoc))
	assert.False(t, IsValidationError(nil))
}
