package api

import (
	"github.com/gin-gonic/gin"

	"coursehub/app/course/service"
	"coursehub/common/log"
	"coursehub/common/response"
)

func init() {
	routers = append(routers, submissionRouter())
}

func submissionRouter() Router {
	return func(g *gin.RouterGroup, api *CourseAPI) {
		g.POST("/api/v1/submissions", api.CreateSubmission())
		g.POST("/api/v1/submissions/complete", api.CompleteSubmission())
	}
}

func (api *CourseAPI) CreateSubmission() GinHandler {
	return func(c *gin.Context) {
		var req service.CreateSubmissionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.UserID == "" {
			response.Error(c, 400, nil, "userId is required")
			return
		}
		resp, err := api.CourseService.CreateSubmission(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "created")
	}
}

func (api *CourseAPI) CompleteSubmission() GinHandler {
	return func(c *gin.Context) {
		var req service.CompleteSubmissionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.ID.IsZero() {
			response.Error(c, 400, nil, "id is required")
			return
		}
		resp, err := api.CourseService.CompleteSubmission(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "completed")
	}
}
