package api

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"coursehub/app/course/service"
)

type (
	GinHandler = func(c *gin.Context)
	Router     = func(g *gin.RouterGroup, api *CourseAPI)
)

type CourseAPI struct {
	CourseService *service.CourseService
}

func NewCourseAPI(svc *service.CourseService) *CourseAPI {
	return &CourseAPI{
		CourseService: svc,
	}
}

var routers = make([]Router, 0)

func InitRouter(r *gin.Engine, api *CourseAPI) {
	g := r.Group("")
	for _, f := range routers {
		f(g, api)
	}
}

func QueryObjectID(c *gin.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Query("id"))
}
