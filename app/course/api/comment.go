package api

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"coursehub/app/course/service"
	"coursehub/common/log"
	"coursehub/common/response"
)

func init() {
	routers = append(routers, commentRouter())
}

func commentRouter() Router {
	return func(g *gin.RouterGroup, api *CourseAPI) {
		g.POST("/api/v1/comments", api.AddComment())
		g.GET("/api/v1/comments", api.GetComment())
		g.POST("/api/v1/comments/replies", api.AddReply())
		g.POST("/api/v1/comments/like", api.LikeComment())
		g.POST("/api/v1/comments/unlike", api.UnlikeComment())
	}
}

func (api *CourseAPI) AddComment() GinHandler {
	return func(c *gin.Context) {
		var req service.AddCommentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.Author == "" {
			response.Error(c, 400, nil, "author is required")
			return
		}
		resp, err := api.CourseService.AddComment(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "created")
	}
}

func (api *CourseAPI) GetComment() GinHandler {
	return func(c *gin.Context) {
		oid, err := QueryObjectID(c)
		if err != nil {
			response.Error(c, 400, err, "invalid id")
			return
		}
		resp, err := api.CourseService.GetComment(c.Request.Context(), oid)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "")
	}
}

func (api *CourseAPI) AddReply() GinHandler {
	return func(c *gin.Context) {
		var req service.AddReplyReq
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, 400, err, "invalid request body")
			return
		}
		if req.Author == "" {
			response.Error(c, 400, nil, "author is required")
			return
		}
		resp, err := api.CourseService.AddReply(c.Request.Context(), req)
		if err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, resp, "created")
	}
}

type likeReq struct {
	CommentID string `json:"commentId"`
	UserID    string `json:"userId"`
}

func (api *CourseAPI) LikeComment() GinHandler {
	return func(c *gin.Context) {
		oid, userID, ok := bindLikeReq(c)
		if !ok {
			return
		}
		if err := api.CourseService.LikeComment(c.Request.Context(), oid, userID); err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, nil, "liked")
	}
}

func (api *CourseAPI) UnlikeComment() GinHandler {
	return func(c *gin.Context) {
		oid, userID, ok := bindLikeReq(c)
		if !ok {
			return
		}
		if err := api.CourseService.UnlikeComment(c.Request.Context(), oid, userID); err != nil {
			response.Error(c, statusOf(err), err, "")
			return
		}
		response.OK(c, nil, "unliked")
	}
}

func bindLikeReq(c *gin.Context) (primitive.ObjectID, string, bool) {
	var req likeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger().WithContext(c.Request.Context()).Error(err.Error())
		response.Error(c, 400, err, "invalid request body")
		return primitive.NilObjectID, "", false
	}
	oid, err := primitive.ObjectIDFromHex(req.CommentID)
	if err != nil {
		response.Error(c, 400, err, "invalid commentId")
		return primitive.NilObjectID, "", false
	}
	if req.UserID == "" {
		response.Error(c, 400, nil, "userId is required")
		return primitive.NilObjectID, "", false
	}
	return oid, req.UserID, true
}
