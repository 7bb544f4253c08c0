package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type JSONResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes err with the status StatusFor assigns to it.
func RespondError(c *gin.Context, err error) {
	RespondErrorCode(c, StatusFor(err), err)
}

// RespondErrorCode writes err under an explicit status. Server errors are logged and masked.
func RespondErrorCode(c *gin.Context, code int, err error) {
	resp := JSONResponse{Status: false, Message: PublicMessage(err)}

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Errors = verr.Fields
	}

	if code >= http.StatusInternalServerError {
		ErrorLogger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": code,
		}).Error(err)
		resp.Message = "internal server error"
	}

	c.JSON(code, resp)
}

// AbortWithError writes err and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}
