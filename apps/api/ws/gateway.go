// Package ws is the realtime adapter: it fans live-class registry updates
// out to every connected browser and accepts the same lifecycle commands the
// REST API exposes.
package ws

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/liveclass"
)

// Gateway owns all websocket clients. A single run loop serializes client
// registration and message fan-out, so no locks are needed around the
// clients map.
type Gateway struct {
	svc    *liveclass.Service
	logger core.Logger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

var _ liveclass.Broadcaster = (*Gateway)(nil)

func NewGateway(logger core.Logger) *Gateway {
	return &Gateway{
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Bind attaches the live-class service. The gateway and the service
// reference each other (the service broadcasts through the gateway), so the
// service is set after construction.
func (g *Gateway) Bind(svc *liveclass.Service) {
	g.svc = svc
}

// Run processes registration and fan-out until Shutdown is called. It must
// be started exactly once, as a goroutine.
func (g *Gateway) Run() {
	for {
		select {
		case client := <-g.register:
			g.clients[client] = true
		case client := <-g.unregister:
			if _, ok := g.clients[client]; ok {
				delete(g.clients, client)
				close(client.send)
			}
		case msg := <-g.broadcast:
			for client := range g.clients {
				select {
				case client.send <- msg:
				default:
					// client is too slow to keep up; drop it
					delete(g.clients, client)
					close(client.send)
				}
			}
		case <-g.done:
			for client := range g.clients {
				delete(g.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Shutdown disconnects all clients and stops the run loop.
func (g *Gateway) Shutdown() {
	close(g.done)
}

// BroadcastSessions pushes the full session list to every client. It never
// blocks the caller: if the fan-out queue is full the update is dropped, and
// the next registry mutation will carry the fresher state anyway.
func (g *Gateway) BroadcastSessions(sessions []liveclass.Session) {
	msg, err := newEnvelope(evtClassesUpdate, sessions)
	if err != nil {
		g.logger.Error(fmt.Sprintf("encoding session update: %v", err), err)
		return
	}
	select {
	case g.broadcast <- msg:
	default:
		g.logger.Warn("fan-out queue full, dropping session update")
	}
}

// handleMessage dispatches one inbound client message. Replies that concern
// only the sender go to client.send; registry changes reach everyone via the
// service's broadcast.
func (g *Gateway) handleMessage(client *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		client.sendEvent(evtJoinClassError, newErrorPayload("malformed message"))
		return
	}

	switch env.Event {
	case evtJoin:
		// new subscriber: remember who they are and send them the current
		// registry state directly
		var id identity
		if len(env.Data) > 0 {
			_ = json.Unmarshal(env.Data, &id)
		}
		client.identity = id
		client.sendEvent(evtClassesUpdate, g.svc.List())

	case evtStartClass:
		var p startClassPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			client.sendEvent(evtClassStarted, classStartedPayload{Success: false, Message: "malformed message"})
			return
		}
		session, err := g.svc.Start(p.NewSession)
		if err != nil {
			client.sendEvent(evtClassStarted, classStartedPayload{Success: false, Message: err.Error()})
			return
		}
		client.sendEvent(evtClassStarted, classStartedPayload{Success: true, LiveClass: &session})

	case evtEndClass:
		// the payload is the class id, either bare or wrapped
		var classID string
		if err := json.Unmarshal(env.Data, &classID); err != nil {
			var p joinClassPayload
			if err = json.Unmarshal(env.Data, &p); err != nil {
				client.sendEvent(evtClassEnded, classEndedPayload{Success: false, Message: "malformed message"})
				return
			}
			classID = p.ClassID
		}
		session, err := g.svc.End(classID)
		if err != nil {
			client.sendEvent(evtClassEnded, classEndedPayload{Success: false, Message: "class not found"})
			return
		}
		client.sendEvent(evtClassEnded, classEndedPayload{Success: true, ClassID: session.ID})

	case evtJoinClass:
		var p joinClassPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			client.sendEvent(evtJoinClassError, newErrorPayload("malformed message"))
			return
		}
		id := client.identity
		_, session, err := g.svc.Join(p.ClassID, id.ID, id.Name, id.Role)
		if err != nil {
			if errors.Cause(err) == liveclass.ErrNotFound {
				client.sendEvent(evtJoinClassError, newErrorPayload("Class not found"))
			} else {
				client.sendEvent(evtJoinClassError, newErrorPayload(err.Error()))
			}
			return
		}
		client.sendEvent(evtJoinClassSuccess, joinClassSuccessPayload{
			Success:   true,
			MeetingID: session.MeetingID,
			LiveClass: session,
		})

	default:
		client.sendEvent(evtJoinClassError, newErrorPayload("unknown event: "+env.Event))
	}
}
