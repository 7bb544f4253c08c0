package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/auth"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type UserController struct {
	Auth     *services.AuthService
	Resolver *auth.Resolver
	Cookies  *auth.CookieManager
}

func NewUserController(authSvc *services.AuthService, resolver *auth.Resolver, cookies *auth.CookieManager) *UserController {
	return &UserController{Auth: authSvc, Resolver: resolver, Cookies: cookies}
}

func (uc *UserController) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, issued, err := uc.Auth.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	uc.Cookies.Set(c, issued)

	utils.InfoLogger.WithField("user_id", user.ID).Info("user registered")
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user":       user,
		"token":      issued.Structured,
		"expires_at": issued.ExpiresAt,
	})
}

// Login -> sets both cookies, token in body for bearer clients
func (uc *UserController) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	user, issued, err := uc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	uc.Cookies.Set(c, issued)

	utils.InfoLogger.WithField("user_id", user.ID).Info("user logged in")
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"user":       user,
		"token":      issued.Structured,
		"expires_at": issued.ExpiresAt,
	})
}

// Logout -> clear cookies + revoke presented tokens
func (uc *UserController) Logout(c *gin.Context) {
	uc.Resolver.Revoke(auth.CarriersFromRequest(c))
	uc.Cookies.Clear(c)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) Me(c *gin.Context) {
	sess, ok := middlewares.SessionFrom(c)
	if !ok {
		utils.RespondError(c, utils.ErrUnauthenticated)
		return
	}
	profile, err := uc.Auth.Profile(c.Request.Context(), sess)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current user", gin.H{
		"profile": profile,
		"source":  sess.Source,
	})
}
