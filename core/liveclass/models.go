package liveclass

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

// Participant roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type (
	// Participant is a user that joined a live class. Owned exclusively by its
	// Session; there is at most one entry per UserID.
	Participant struct {
		UserID   string    `json:"userId"`
		Name     string    `json:"name"`
		Role     string    `json:"role"`
		JoinedAt time.Time `json:"joinTime"` // UTC
	}

	// Session is a live class currently in progress. Sessions are ephemeral:
	// they live in the in-memory Registry for as long as the class is running
	// and are dropped entirely on termination or process restart.
	Session struct {
		ID           string        `json:"id"`
		MeetingID    string        `json:"meetingId"`
		Subject      string        `json:"subject"`
		Teacher      string        `json:"teacher"`
		TeacherID    string        `json:"teacherId"`
		Class        string        `json:"class"`
		RoomName     string        `json:"roomName"`
		JitsiURL     string        `json:"jitsiUrl"`
		IsLive       bool          `json:"isLive"`
		StartTime    time.Time     `json:"startTime"` // UTC
		EndTime      *time.Time    `json:"endTime,omitempty"`
		Participants []Participant `json:"participants"`
	}
)

// clone returns a deep copy so callers can never mutate the registry through
// a returned Session.
func (s Session) clone() Session {
	cp := s
	cp.Participants = make([]Participant, len(s.Participants))
	copy(cp.Participants, s.Participants)
	return cp
}

// NewSession contains information needed to start a live class.
type NewSession struct {
	Subject   string `json:"subject" validate:"required"`
	Teacher   string `json:"teacher" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
	Class     string `json:"class" validate:"required"`
	RoomName  string `json:"roomName"`
	JitsiURL  string `json:"jitsiUrl"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.Teacher = core.CleanString(ns.Teacher)
	ns.TeacherID = core.CleanString(ns.TeacherID)
	ns.Class = core.CleanString(ns.Class)
	ns.RoomName = core.CleanString(ns.RoomName)
	ns.JitsiURL = core.CleanString(ns.JitsiURL)
	return validate.Struct(ns)
}
