package kds

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-hub/metrics"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// Subscriber is one live-feed connection. Send must not block; it reports false when the message was
// not queued.
type Subscriber interface {
	ID() string
	Send(msg []byte) bool
	Close()
}

// Relay carries frames between hub instances. Run delivers every frame seen on the relay, including the
// ones this instance published, until ctx ends.
type Relay interface {
	Publish(ctx context.Context, restaurantID string, payload []byte) error
	Run(ctx context.Context, deliver func(restaurantID string, payload []byte)) error
}

// Hub groups subscribers by restaurant and fans events out to exactly one restaurant's group. A
// subscriber belongs to at most one restaurant at a time.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[string]Subscriber
	memberOf map[string]string
	stopped  bool

	relay   Relay
	metrics *metrics.Metrics

	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(relay Relay, m *metrics.Metrics) *Hub {
	return &Hub{
		rooms:    make(map[string]map[string]Subscriber),
		memberOf: make(map[string]string),
		relay:    relay,
		metrics:  m,
	}
}

// Start -> consume the relay, if any
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	h.stopped = false
	if h.relay == nil || h.cancel != nil {
		h.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})
	done := h.done
	h.mu.Unlock()

	go func() {
		defer close(done)
		err := h.relay.Run(ctx, func(restaurantID string, payload []byte) {
			h.deliverLocal(restaurantID, payload)
		})
		if ctx.Err() != nil {
			return
		}
		// relay died on its own: publish locally from now on
		h.mu.Lock()
		if h.done == done {
			h.cancel, h.done = nil, nil
		}
		h.mu.Unlock()
		cancel()
		utils.ErrorLogger.WithError(err).Error("kds relay stopped, delivering locally")
	}()
	utils.InfoLogger.Info("KDS hub started with relay")
}

// Stop -> detach relay, close every subscriber
func (h *Hub) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.stopped = true

	var subs []Subscriber
	for _, room := range h.rooms {
		for _, s := range room {
			subs = append(subs, s)
		}
	}
	h.rooms = make(map[string]map[string]Subscriber)
	h.memberOf = make(map[string]string)
	h.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	for _, s := range subs {
		s.Close()
		h.metrics.SubscriberLeft()
	}
	utils.InfoLogger.WithField("closed", len(subs)).Info("KDS hub stopped")
}

// Subscribe puts sub in restaurantID's room, leaving any room it was in before.
func (h *Hub) Subscribe(sub Subscriber, restaurantID string) bool {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}

	id := sub.ID()
	if prev, ok := h.memberOf[id]; ok {
		if prev == restaurantID {
			return true
		}
		h.removeLocked(id, prev)
	} else {
		h.metrics.SubscriberJoined()
	}

	room := h.rooms[restaurantID]
	if room == nil {
		room = make(map[string]Subscriber)
		h.rooms[restaurantID] = room
	}
	room[id] = sub
	h.memberOf[id] = restaurantID
	return true
}

func (h *Hub) Unsubscribe(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := sub.ID()
	prev, ok := h.memberOf[id]
	if !ok {
		return
	}
	h.removeLocked(id, prev)
	delete(h.memberOf, id)
	h.metrics.SubscriberLeft()
}

func (h *Hub) removeLocked(id, restaurantID string) {
	room := h.rooms[restaurantID]
	delete(room, id)
	if len(room) == 0 {
		delete(h.rooms, restaurantID)
	}
}

func (h *Hub) RestaurantOf(sub Subscriber) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	id, ok := h.memberOf[sub.ID()]
	return id, ok
}

func (h *Hub) RoomSize(restaurantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[restaurantID])
}

// Publish delivers ev to the subscribers of restaurantID and nobody else. It never blocks on a
// subscriber and never fails; an empty room is a no-op.
func (h *Hub) Publish(restaurantID string, ev Event) {
	payload, err := json.Marshal(Message{Event: ev.Name, RestaurantID: restaurantID, Data: ev.Data})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", ev.Name).Error("kds: marshal event")
		return
	}
	h.metrics.EventPublished(ev.Name)

	if relay, ok := h.activeRelay(); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := relay.Publish(ctx, restaurantID, payload)
		cancel()
		if err == nil {
			return
		}
		utils.ErrorLogger.WithFields(logrus.Fields{
			"restaurant_id": restaurantID,
			"event":         ev.Name,
		}).WithError(err).Error("kds relay publish failed, delivering locally")
	}
	h.deliverLocal(restaurantID, payload)
}

// activeRelay -> the relay while its Run loop is alive
func (h *Hub) activeRelay() (Relay, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.relay, h.relay != nil && h.cancel != nil
}

func (h *Hub) deliverLocal(restaurantID string, payload []byte) {
	h.mu.RLock()
	room := h.rooms[restaurantID]
	targets := make([]Subscriber, 0, len(room))
	for _, s := range room {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if !s.Send(payload) {
			h.metrics.EventDropped()
		}
	}
}
