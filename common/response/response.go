package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code      int         `json:"code"`
	Msg       string      `json:"msg,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

type Page struct {
	List      interface{} `json:"list"`
	Count     int         `json:"count"`
	PageIndex int         `json:"pageIndex"`
	PageSize  int         `json:"pageSize"`
}

func requestID(c *gin.Context) string {
	return c.GetString("X-Request-Id")
}

func OK(c *gin.Context, data interface{}, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Msg:       msg,
		Data:      data,
		RequestID: requestID(c),
	})
}

func PageOK(c *gin.Context, list interface{}, count, pageIndex, pageSize int, msg string) {
	OK(c, Page{List: list, Count: count, PageIndex: pageIndex, PageSize: pageSize}, msg)
}

func Error(c *gin.Context, code int, err error, msg string) {
	res := Response{
		Code:      code,
		Msg:       msg,
		RequestID: requestID(c),
	}
	if msg == "" && err != nil {
		res.Msg = err.Error()
	}
	c.AbortWithStatusJSON(code, res)
}
