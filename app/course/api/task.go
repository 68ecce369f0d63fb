package api

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"coursehub/app/course/service"
	"coursehub/common/log"
	"coursehub/common/response"
	"coursehub/common/util"
)

func init() {
	routers = append(routers, taskRouter())
}

func taskRouter() Router {
	return func(g *gin.RouterGroup, api *CourseAPI) {
		g.POST("/api/v1/tasks", api.CreateTask())
		g.PUT("/api/v1/tasks", api.EditTask())
		g.POST("/api/v1/tasks/due", api.ExtendDue())
		g.GET("/api/v1/tasks", api.ListTasks())
		g.GET("/api/v1/tasks/get", api.GetTask())
		g.DELETE("/api/v1/tasks", api.DeleteTask())
	}
}

func (api *CourseAPI) CreateTask() GinHandler {
	return func(c *gin.Context) {
		var req service.CreateTaskReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.CourseID.IsZero() {
			response.Error(c, 400, nil, "courseId is required")
			return
		}
		if req.Title == "" {
			response.Error(c, 400, nil, "title is required")
			return
		}
		resp, err := api.CourseService.CreateTask(c.Request.Context(), req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "created")
	}
}

func (api *CourseAPI) EditTask() GinHandler {
	return func(c *gin.Context) {
		var req service.EditTaskReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.ID.IsZero() {
			response.Error(c, 400, nil, "id is required")
			return
		}
		resp, err := api.CourseService.EditTask(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "updated")
	}
}

type extendDueReq struct {
	ID     primitive.ObjectID `json:"id"`
	EndsAt util.Datetime      `json:"endsAt"`
}

func (api *CourseAPI) ExtendDue() GinHandler {
	return func(c *gin.Context) {
		var req extendDueReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.ID.IsZero() {
			response.Error(c, 400, nil, "id is required")
			return
		}
		endsAt := req.EndsAt.Time()
		if endsAt == nil || endsAt.IsZero() {
			response.Error(c, 400, nil, "endsAt is required")
			return
		}
		task, extended, err := api.CourseService.ExtendDue(c.Request.Context(), req.ID, *endsAt)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		msg := "due date unchanged"
		if extended {
			msg = "due date extended"
		}
		response.OK(c, task, msg)
	}
}

func (api *CourseAPI) ListTasks() GinHandler {
	return func(c *gin.Context) {
		var req service.ListTasksReq
		if err := c.ShouldBindQuery(&req); err != nil {
			response.Error(c, 400, err, "invalid query")
			return
		}
		if hex := c.Query("courseId"); hex != "" {
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				response.Error(c, 400, err, "invalid courseId")
				return
			}
			req.CourseID = oid
		}
		resp, total, err := api.CourseService.ListTasks(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.PageOK(c, resp, total, req.PageIndex, req.PageSize, "")
	}
}

func (api *CourseAPI) GetTask() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		resp, err := api.CourseService.GetTask(c.Request.Context(), oid)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}

func (api *CourseAPI) DeleteTask() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		if err := api.CourseService.DeleteTask(c.Request.Context(), oid); err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, nil, "deleted")
	}
}
