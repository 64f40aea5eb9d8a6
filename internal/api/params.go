package api

import (
	"net/http"
	"strconv"

	"gymhero/training-api/internal/repository"

	"github.com/gin-gonic/gin"
)

// pageQuery holds the pagination query parameters of list routes.
type pageQuery struct {
	Skip  *int `form:"skip" binding:"omitempty,gte=0"`
	Limit *int `form:"limit" binding:"omitempty,gt=0"`
}

// parsePage reads skip (default 0) and limit (default 10). On invalid input
// it writes a 400 and returns false.
func parsePage(c *gin.Context) (repository.Page, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid pagination parameters: skip must be >= 0 and limit > 0")
		return repository.Page{}, false
	}
	page := repository.FirstPage()
	if q.Skip != nil {
		page.Skip = *q.Skip
	}
	if q.Limit != nil {
		page.Limit = *q.Limit
	}
	return page, true
}

// pathID parses a positive integer path parameter. On invalid input it
// writes a 400 and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+": must be a positive integer")
		return 0, false
	}
	return id, true
}
