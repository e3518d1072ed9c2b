package request

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidJSON = errors.New("invalid json body")
)

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// BindJSON decodes the request body into obj. An empty body leaves obj
// untouched, so absent fields stay nil.
func BindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return ErrInvalidJSON
	}
	return nil
}
