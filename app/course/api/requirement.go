package api

import (
	"github.com/gin-gonic/gin"

	"coursehub/app/course/service"
	"coursehub/common/log"
	"coursehub/common/response"
)

func init() {
	routers = append(routers, requirementRouter())
}

func requirementRouter() Router {
	return func(g *gin.RouterGroup, api *CourseAPI) {
		g.POST("/api/v1/requirements", api.AddRequirement())
		g.GET("/api/v1/requirements", api.GetRequirement())
		g.DELETE("/api/v1/requirements", api.DeleteRequirement())
		g.GET("/api/v1/requirements/progress", api.Progress())
		g.POST("/api/v1/requirements/sync", api.SyncRequirement())
	}
}

func (api *CourseAPI) AddRequirement() GinHandler {
	return func(c *gin.Context) {
		var req service.AddRequirementReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.TaskID.IsZero() {
			response.Error(c, 400, nil, "taskId is required")
			return
		}
		resp, err := api.CourseService.AddRequirement(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "created")
	}
}

func (api *CourseAPI) GetRequirement() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		resp, err := api.CourseService.GetRequirement(c.Request.Context(), oid)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}

func (api *CourseAPI) DeleteRequirement() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		if err := api.CourseService.DeleteRequirement(c.Request.Context(), oid); err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, nil, "deleted")
	}
}

func (api *CourseAPI) Progress() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		userID := c.Query("userId")
		if userID == "" {
			response.Error(c, 400, nil, "userId is required")
			return
		}
		resp, err := api.CourseService.Progress(c.Request.Context(), oid, userID)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}

func (api *CourseAPI) SyncRequirement() GinHandler {
	return func(c *gin.Context) {
		var req service.SyncRequirementReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.ID.IsZero() {
			response.Error(c, 400, nil, "id is required")
			return
		}
		if err := api.CourseService.SyncRequirement(c.Request.Context(), req); err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, nil, "synced")
	}
}
