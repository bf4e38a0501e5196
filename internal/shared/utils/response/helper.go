package response

import (
	"github.com/gin-gonic/gin"
)

// RespondJSON writes the standard API envelope
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:  status,
		Code:    code,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}
