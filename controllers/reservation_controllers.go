package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// ownership goes through the reservation's table, so handlers pass the whole scope
type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: svc}
}

func (rc *ReservationController) ListReservations(c *gin.Context) {
	list, err := rc.Reservations.List(c.Request.Context(), middlewares.TenantFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.CreateReservationInput
	if !bindJSON(c, &req) {
		return
	}
	scope, _ := middlewares.ScopeFrom(c)
	res, err := rc.Reservations.Create(c.Request.Context(), scope, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", res)
}

func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var req services.UpdateReservationInput
	if !bindJSON(c, &req) {
		return
	}
	scope, _ := middlewares.ScopeFrom(c)
	res, err := rc.Reservations.Update(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", res)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	scope, _ := middlewares.ScopeFrom(c)
	if err := rc.Reservations.Delete(c.Request.Context(), scope, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", nil)
}
