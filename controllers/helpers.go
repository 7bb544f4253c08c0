package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// bindJSON -> 400 on a body that is not JSON
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, utils.NewValidationError("body", "malformed JSON: "+err.Error()))
		return false
	}
	return true
}

// requestLocation -> ?tz= or X-Timezone, else def
func requestLocation(c *gin.Context, def *time.Location) (*time.Location, error) {
	name := strings.TrimSpace(c.Query("tz"))
	if name == "" {
		name = strings.TrimSpace(c.GetHeader("X-Timezone"))
	}
	if name == "" {
		return def, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, utils.NewValidationError("tz", "unknown time zone "+name)
	}
	return loc, nil
}
