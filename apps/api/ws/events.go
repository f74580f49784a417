package ws

import (
	"encoding/json"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/liveclass"
)

// Inbound event names.
const (
	evtJoin       = "join"
	evtStartClass = "startLiveClass"
	evtEndClass   = "endLiveClass"
	evtJoinClass  = "joinLiveClass"
)

// Outbound event names.
const (
	evtClassesUpdate    = "liveClassesUpdate"
	evtClassStarted     = "classStarted"
	evtClassEnded       = "classEnded"
	evtJoinClassSuccess = "joinClassSuccess"
	evtJoinClassError   = "joinClassError"
)

// envelope is the wire format in both directions: an event name plus an
// event-specific payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func newEnvelope(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: raw})
}

// identity is sent with the join event and reused for joinLiveClass.
type identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type startClassPayload struct {
	liveclass.NewSession
}

type joinClassPayload struct {
	ClassID string `json:"classId"`
}

type classStartedPayload struct {
	Success   bool               `json:"success"`
	LiveClass *liveclass.Session `json:"liveClass,omitempty"`
	Message   string             `json:"message,omitempty"`
}

type classEndedPayload struct {
	Success bool   `json:"success"`
	ClassID string `json:"classId,omitempty"`
	Message string `json:"message,omitempty"`
}

type joinClassSuccessPayload struct {
	Success   bool              `json:"success"`
	MeetingID string            `json:"meetingId"`
	LiveClass liveclass.Session `json:"liveClass"`
}

type errorPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newErrorPayload(msg string) errorPayload {
	return errorPayload{Success: false, Message: msg}
}
