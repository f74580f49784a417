package liveclass

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Broadcaster pushes the full live-session list to every connected client.
// Implementations must be fire-and-forget: BroadcastSessions may not block the
// mutation that triggered it, and a failure to reach one client must not
// prevent delivery to the others.
type Broadcaster interface {
	BroadcastSessions(sessions []Session)
}

// NopBroadcaster satisfies Broadcaster for contexts without connected clients
// (CLI commands, tests).
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastSessions([]Session) {}

// Service is the single mutation surface for the live-class registry. Both
// the HTTP handlers and the websocket gateway delegate here, so a class
// started over one channel is immediately visible on the other.
type Service struct {
	registry    *Registry
	broadcaster Broadcaster
	validate    *validator.Validate
}

func NewService(registry *Registry, broadcaster Broadcaster, validate *validator.Validate) *Service {
	return &Service{
		registry:    registry,
		broadcaster: broadcaster,
		validate:    validate,
	}
}

// Start validates `ns`, registers a new live session and broadcasts the
// updated list. Missing RoomName/JitsiURL are defaulted deterministically from
// the subject and class.
func (svc *Service) Start(ns NewSession) (Session, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	roomName := ns.RoomName
	if roomName == "" {
		roomName = fmt.Sprintf("%s-%s-%d", ns.Subject, ns.Class, now.UnixMilli())
	}
	jitsiURL := ns.JitsiURL
	if jitsiURL == "" {
		jitsiURL = "https://meet.jit.si/" + roomName
	}

	s := Session{
		ID:           uuid.New().String(),
		MeetingID:    uuid.New().String(),
		Subject:      ns.Subject,
		Teacher:      ns.Teacher,
		TeacherID:    ns.TeacherID,
		Class:        ns.Class,
		RoomName:     roomName,
		JitsiURL:     jitsiURL,
		IsLive:       true,
		StartTime:    now,
		Participants: []Participant{},
	}
	svc.registry.Add(s)
	svc.broadcastUpdate()
	return s, nil
}

// End removes the session from the registry and broadcasts the updated list.
// The returned session carries its end time. Ending an unknown (or already
// ended) session returns ErrNotFound.
func (svc *Service) End(id string) (Session, error) {
	s, err := svc.registry.Remove(id)
	if err != nil {
		return Session{}, err
	}
	svc.broadcastUpdate()
	return s, nil
}

func (svc *Service) List() []Session {
	return svc.registry.All()
}

func (svc *Service) ListByClass(class string) []Session {
	return svc.registry.ByClass(class)
}

func (svc *Service) ListByTeacher(teacherID string) []Session {
	return svc.registry.ByTeacher(teacherID)
}

func (svc *Service) Get(id string) (Session, error) {
	return svc.registry.Get(id)
}

// Join records the user as a participant and returns their entry alongside a
// snapshot of the session (the caller needs the MeetingID to let the user in).
// No broadcast: joins do not change the session list itself.
func (svc *Service) Join(id, userID, name, role string) (Participant, Session, error) {
	return svc.registry.Join(id, userID, name, role)
}

func (svc *Service) broadcastUpdate() {
	svc.broadcaster.BroadcastSessions(svc.registry.All())
}
