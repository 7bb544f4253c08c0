package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type RestaurantController struct {
	Restaurants *services.RestaurantService
}

func NewRestaurantController(svc *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Restaurants: svc}
}

func (rc *RestaurantController) ListRestaurants(c *gin.Context) {
	list, err := rc.Restaurants.List(c.Request.Context(), c.GetString(middlewares.ContextKeyUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", list)
}

func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req services.CreateRestaurantInput
	if !bindJSON(c, &req) {
		return
	}
	rest, err := rc.Restaurants.Create(c.Request.Context(), c.GetString(middlewares.ContextKeyUserID), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", rest)
}
