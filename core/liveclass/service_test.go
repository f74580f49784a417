package liveclass

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

// recordingBroadcaster captures every snapshot pushed by the service.
type recordingBroadcaster struct {
	snapshots [][]Session
}

func (b *recordingBroadcaster) BroadcastSessions(sessions []Session) {
	b.snapshots = append(b.snapshots, sessions)
}

func setup(t *testing.T) (*Service, *recordingBroadcaster) {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	bc := &recordingBroadcaster{}
	svc := NewService(NewRegistry(), bc, validate)
	return svc, bc
}

func newClass(subject, teacher, teacherID, class string) NewSession {
	return NewSession{Subject: subject, Teacher: teacher, TeacherID: teacherID, Class: class}
}

func TestService_Start(t *testing.T) {
	svc, bc := setup(t)

	s, err := svc.Start(newClass("Maths", "T One", "t1", "10A"))
	assert.NoError(t, err)
	assert.True(t, s.IsLive)
	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.MeetingID)
	assert.Equal(t, "10A", s.Class)
	assert.Empty(t, s.Participants)
	assert.True(t, strings.HasPrefix(s.RoomName, "Maths-10A-"), "roomName %q", s.RoomName)
	assert.Equal(t, "https://meet.jit.si/"+s.RoomName, s.JitsiURL)

	// every mutation broadcasts the full list
	assert.Len(t, bc.snapshots, 1)
	assert.Len(t, bc.snapshots[0], 1)
}

func TestService_StartGeneratesUniqueIDs(t *testing.T) {
	svc, _ := setup(t)

	seenIDs := make(map[string]bool)
	seenMeetings := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := svc.Start(newClass("Maths", "T One", "t1", "10A"))
		assert.NoError(t, err)
		assert.False(t, seenIDs[s.ID], "duplicate session id")
		assert.False(t, seenMeetings[s.MeetingID], "duplicate meeting id")
		seenIDs[s.ID] = true
		seenMeetings[s.MeetingID] = true
	}
}

func TestService_StartValidation(t *testing.T) {
	svc, bc := setup(t)

	tests := []struct {
		name string
		data NewSession
	}{
		{"empty", NewSession{}},
		{"missing subject", newClass("", "T One", "t1", "10A")},
		{"missing teacher", newClass("Maths", "", "t1", "10A")},
		{"missing teacherId", newClass("Maths", "T One", "", "10A")},
		{"missing class", newClass("Maths", "T One", "t1", "")},
		{"whitespace only", newClass("  ", "T One", "t1", "10A")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Start(tt.data)
			assert.Error(t, err)
			var vErrs validator.ValidationErrors
			assert.ErrorAs(t, err, &vErrs)
		})
	}

	// failed starts never mutate nor broadcast
	assert.Empty(t, svc.List())
	assert.Empty(t, bc.snapshots)
}

func TestService_StartKeepsProvidedRoom(t *testing.T) {
	svc, _ := setup(t)

	ns := newClass("Maths", "T One", "t1", "10A")
	ns.RoomName = "my-room"
	ns.JitsiURL = "https://meet.example.org/my-room"
	s, err := svc.Start(ns)
	assert.NoError(t, err)
	assert.Equal(t, "my-room", s.RoomName)
	assert.Equal(t, "https://meet.example.org/my-room", s.JitsiURL)
}

func TestService_End(t *testing.T) {
	svc, bc := setup(t)

	s, err := svc.Start(newClass("Maths", "T One", "t1", "10A"))
	assert.NoError(t, err)

	ended, err := svc.End(s.ID)
	assert.NoError(t, err)
	assert.False(t, ended.IsLive)
	assert.NotNil(t, ended.EndTime)
	_, err = svc.Get(s.ID)
	assert.Equal(t, ErrNotFound, err)

	// second End of the same id is an observable failure, not a no-op
	_, err = svc.End(s.ID)
	assert.Equal(t, ErrNotFound, err)

	// one broadcast per successful mutation: start + end
	assert.Len(t, bc.snapshots, 2)
	assert.Empty(t, bc.snapshots[1])
}

func TestService_ListCounts(t *testing.T) {
	svc, _ := setup(t)

	var ids []string
	for i := 0; i < 5; i++ {
		s, err := svc.Start(newClass("Maths", "T One", "t1", fmt.Sprintf("10%c", 'A'+i)))
		assert.NoError(t, err)
		ids = append(ids, s.ID)
	}
	for _, id := range ids[:2] {
		_, err := svc.End(id)
		assert.NoError(t, err)
	}
	// N creates and M terminates leave exactly N-M live sessions
	assert.Len(t, svc.List(), 3)
}

func TestService_ListByClassAndTeacher(t *testing.T) {
	svc, _ := setup(t)

	a, _ := svc.Start(newClass("Maths", "T One", "t1", "10A"))
	_, _ = svc.Start(newClass("Physics", "T Two", "t2", "10B"))

	byClass := svc.ListByClass("10A")
	assert.Len(t, byClass, 1)
	assert.Equal(t, a.ID, byClass[0].ID)

	byTeacher := svc.ListByTeacher("t2")
	assert.Len(t, byTeacher, 1)
	assert.Equal(t, "Physics", byTeacher[0].Subject)
}

func TestService_Join(t *testing.T) {
	svc, bc := setup(t)

	s, _ := svc.Start(newClass("Maths", "T One", "t1", "10A"))

	p, snap, err := svc.Join(s.ID, "s1", "Asha", RoleStudent)
	assert.NoError(t, err)
	assert.Equal(t, "s1", p.UserID)
	assert.Equal(t, s.MeetingID, snap.MeetingID)
	assert.Len(t, snap.Participants, 1)

	_, snap, err = svc.Join(s.ID, "s1", "Asha", RoleStudent)
	assert.NoError(t, err)
	assert.Len(t, snap.Participants, 1)

	// joins do not broadcast; only the initial start did
	assert.Len(t, bc.snapshots, 1)
}
