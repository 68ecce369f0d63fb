package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"coursehub/app/course/service"
	"coursehub/common/log"
	"coursehub/common/response"
)

func init() {
	routers = append(routers, courseRouter())
}

func courseRouter() Router {
	return func(g *gin.RouterGroup, api *CourseAPI) {
		g.POST("/api/v1/courses", api.CreateCourse())
		g.GET("/api/v1/courses", api.GetCourse())
		g.POST("/api/v1/courses/students", api.AddStudent())
		g.POST("/api/v1/problems", api.CreateProblem())
		g.GET("/api/v1/problems", api.GetProblem())
		g.GET("/api/v1/courses/top-commenters", api.TopCommenters())
		g.GET("/api/v1/notifications", api.ListNotifications())
	}
}

func (api *CourseAPI) CreateCourse() GinHandler {
	return func(c *gin.Context) {
		var req service.CreateCourseReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.Name == "" {
			response.Error(c, 400, nil, "name is required")
			return
		}
		resp, err := api.CourseService.CreateCourse(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "created")
	}
}

func (api *CourseAPI) GetCourse() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		resp, err := api.CourseService.GetCourse(c.Request.Context(), oid)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}

type addStudentReq struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
}

func (api *CourseAPI) AddStudent() GinHandler {
	return func(c *gin.Context) {
		var req addStudentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		oid, err := primitive.ObjectIDFromHex(req.CourseID)
		if err != nil {
			response.Error(c, 400, err, "invalid courseId")
			return
		}
		if req.UserID == "" {
			response.Error(c, 400, nil, "userId is required")
			return
		}
		if err := api.CourseService.AddStudent(c.Request.Context(), oid, req.UserID); err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, nil, "added")
	}
}

func (api *CourseAPI) CreateProblem() GinHandler {
	return func(c *gin.Context) {
		var req service.CreateProblemReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.CourseID.IsZero() {
			response.Error(c, 400, nil, "courseId is required")
			return
		}
		resp, err := api.CourseService.CreateProblem(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "created")
	}
}

func (api *CourseAPI) GetProblem() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		resp, err := api.CourseService.GetProblem(c.Request.Context(), oid)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}

func (api *CourseAPI) TopCommenters() GinHandler {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Query("courseId"))
		if err != nil {
			response.Error(c, 400, err, "invalid courseId")
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		resp, err := api.CourseService.TopCommenters(c.Request.Context(), oid, limit)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}

func (api *CourseAPI) ListNotifications() GinHandler {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			response.Error(c, 400, nil, "userId is required")
			return
		}
		resp, err := api.CourseService.ListNotifications(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}
