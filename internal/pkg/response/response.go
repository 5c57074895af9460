package response

import "github.com/gin-gonic/gin"

// Every endpoint answers in the same envelope: {success, data, message} on
// the happy path, {success:false, message, error:{code,message}} otherwise.
// Clients read the top-level message verbatim on failure.

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func SuccessMessage(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
