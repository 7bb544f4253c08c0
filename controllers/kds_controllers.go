package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// kdsCommand -> {"action":"join"|"leave","restaurantId":...}
type kdsCommand struct {
	Action       string `json:"action"`
	RestaurantID string `json:"restaurantId"`
}

type KDSController struct {
	Hub      *kds.Hub
	Scopes   *services.TenantScopeResolver
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades only from the listed origins. An empty list or "*" accepts any origin.
func NewKDSController(hub *kds.Hub, scopes *services.TenantScopeResolver, origins []string) *KDSController {
	allowed := make(map[string]struct{}, len(origins))
	anyOrigin := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			anyOrigin = true
		}
		allowed[o] = struct{}{}
	}

	return &KDSController{
		Hub:    hub,
		Scopes: scopes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || anyOrigin {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// KDSHandler -> endpoint WebSocket. Joins right away when the request named a restaurant.
func (kc *KDSController) KDSHandler(c *gin.Context) {
	userID := c.GetString(middlewares.ContextKeyUserID)
	explicit := strings.TrimSpace(c.Query("restaurantId")) != "" || strings.TrimSpace(c.GetHeader(middlewares.TenantHeader)) != ""

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("kds upgrade failed")
		return
	}

	client := kds.NewClient(ws, kds.DefaultSendBuffer)
	go client.WritePump()

	log := utils.InfoLogger.WithFields(logrus.Fields{"client": client.ID(), "user_id": userID})
	log.Info("kds client connected")

	if explicit {
		kc.join(client, userID, middlewares.TenantFrom(c))
	}

	client.ReadPump(func(raw []byte) {
		var cmd kdsCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			reply(client, kds.EventError, "", gin.H{"message": "malformed command"})
			return
		}
		switch cmd.Action {
		case "join":
			kc.join(client, userID, strings.TrimSpace(cmd.RestaurantID))
		case "leave":
			restaurantID, _ := kc.Hub.RestaurantOf(client)
			kc.Hub.Unsubscribe(client)
			reply(client, kds.EventLeft, restaurantID, nil)
		default:
			reply(client, kds.EventError, "", gin.H{"message": "unknown action " + cmd.Action})
		}
	})

	kc.Hub.Unsubscribe(client)
	client.Close()
	log.Info("kds client disconnected")
}

// join re-checks the scope each time, restaurants may be created after connecting
func (kc *KDSController) join(client *kds.Client, userID, restaurantID string) {
	if restaurantID == "" {
		reply(client, kds.EventError, "", gin.H{"message": "restaurantId is required"})
		return
	}
	scope, err := kc.Scopes.ScopeFor(context.Background(), userID)
	if err == nil {
		err = services.RequireOwnership(scope, restaurantID)
	}
	if err != nil {
		reply(client, kds.EventError, restaurantID, gin.H{"message": utils.PublicMessage(err)})
		return
	}
	if !kc.Hub.Subscribe(client, restaurantID) {
		reply(client, kds.EventError, restaurantID, gin.H{"message": "server is shutting down"})
		return
	}
	reply(client, kds.EventJoined, restaurantID, nil)
}

func reply(client *kds.Client, event, restaurantID string, data interface{}) {
	payload, err := json.Marshal(kds.Message{Event: event, RestaurantID: restaurantID, Data: data})
	if err != nil {
		return
	}
	client.Send(payload)
}
