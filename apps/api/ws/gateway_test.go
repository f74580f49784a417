package ws

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/liveclass"
)

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) (*Gateway, *liveclass.Service) {
	t.Helper()

	validate := validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	core.InitValidators(validate, trans)

	gateway := NewGateway(testLogger{})
	svc := liveclass.NewService(liveclass.NewRegistry(), gateway, validate)
	gateway.Bind(svc)
	go gateway.Run()
	t.Cleanup(gateway.Shutdown)
	return gateway, svc
}

func newTestClient(g *Gateway) *Client {
	client := &Client{
		gateway: g,
		logger:  testLogger{},
		send:    make(chan []byte, 16),
	}
	g.register <- client
	return client
}

func recvEvent(t *testing.T, client *Client) envelope {
	t.Helper()
	select {
	case msg, ok := <-client.send:
		require.True(t, ok, "send channel closed")
		var env envelope
		require.NoError(t, json.Unmarshal(msg, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return envelope{}
	}
}

// collectEvents drains n events into a map keyed by event name.
func collectEvents(t *testing.T, client *Client, n int) map[string]json.RawMessage {
	t.Helper()
	events := make(map[string]json.RawMessage, n)
	for i := 0; i < n; i++ {
		env := recvEvent(t, client)
		events[env.Event] = env.Data
	}
	return events
}

func Test_Gateway_joinSendsCurrentState(t *testing.T) {
	gateway, svc := setup(t)

	_, err := svc.Start(liveclass.NewSession{
		Subject: "Maths", Teacher: "Priya", TeacherID: "t1", Class: "10A",
	})
	require.NoError(t, err)

	client := newTestClient(gateway)
	gateway.handleMessage(client, []byte(`{"event":"join","data":{"id":"s1","name":"Kavya","role":"student"}}`))

	assert.Equal(t, "s1", client.identity.ID)
	env := recvEvent(t, client)
	assert.Equal(t, "liveClassesUpdate", env.Event)
	var sessions []liveclass.Session
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "Maths", sessions[0].Subject)
	assert.True(t, sessions[0].IsLive)
}

func Test_Gateway_startClass(t *testing.T) {
	gateway, _ := setup(t)
	starter := newTestClient(gateway)
	watcher := newTestClient(gateway)

	payload := `{"event":"startLiveClass","data":{"subject":"Physics","teacher":"Arun","teacherId":"t2","class":"12B"}}`
	gateway.handleMessage(starter, []byte(payload))

	// the starter gets a direct classStarted plus the fan-out update
	events := collectEvents(t, starter, 2)
	require.Contains(t, events, "classStarted")
	require.Contains(t, events, "liveClassesUpdate")

	var started classStartedPayload
	require.NoError(t, json.Unmarshal(events["classStarted"], &started))
	assert.True(t, started.Success)
	require.NotNil(t, started.LiveClass)
	assert.True(t, started.LiveClass.IsLive)
	assert.NotEmpty(t, started.LiveClass.ID)
	assert.NotEmpty(t, started.LiveClass.MeetingID)

	// watchers only see the registry update
	env := recvEvent(t, watcher)
	assert.Equal(t, "liveClassesUpdate", env.Event)
	var sessions []liveclass.Session
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	assert.Len(t, sessions, 1)
}

func Test_Gateway_startClassValidation(t *testing.T) {
	gateway, svc := setup(t)
	client := newTestClient(gateway)

	// missing subject and class
	payload := `{"event":"startLiveClass","data":{"teacher":"Arun","teacherId":"t2"}}`
	gateway.handleMessage(client, []byte(payload))

	env := recvEvent(t, client)
	require.Equal(t, "classStarted", env.Event)
	var started classStartedPayload
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.False(t, started.Success)
	assert.NotEmpty(t, started.Message)
	assert.Empty(t, svc.List())
}

func Test_Gateway_endClass(t *testing.T) {
	gateway, svc := setup(t)
	client := newTestClient(gateway)

	session, err := svc.Start(liveclass.NewSession{
		Subject: "Maths", Teacher: "Priya", TeacherID: "t1", Class: "10A",
	})
	require.NoError(t, err)
	// drain the update caused by Start
	recvEvent(t, client)

	// the class id is sent as a bare string
	gateway.handleMessage(client, []byte(fmt.Sprintf(`{"event":"endLiveClass","data":%q}`, session.ID)))

	events := collectEvents(t, client, 2)
	require.Contains(t, events, "classEnded")
	require.Contains(t, events, "liveClassesUpdate")

	var ended classEndedPayload
	require.NoError(t, json.Unmarshal(events["classEnded"], &ended))
	assert.True(t, ended.Success)
	assert.Equal(t, session.ID, ended.ClassID)

	var sessions []liveclass.Session
	require.NoError(t, json.Unmarshal(events["liveClassesUpdate"], &sessions))
	assert.Empty(t, sessions)
}

func Test_Gateway_endUnknownClass(t *testing.T) {
	gateway, _ := setup(t)
	client := newTestClient(gateway)

	gateway.handleMessage(client, []byte(`{"event":"endLiveClass","data":"nope"}`))

	env := recvEvent(t, client)
	require.Equal(t, "classEnded", env.Event)
	var ended classEndedPayload
	require.NoError(t, json.Unmarshal(env.Data, &ended))
	assert.False(t, ended.Success)
}

func Test_Gateway_joinClass(t *testing.T) {
	gateway, svc := setup(t)
	client := newTestClient(gateway)

	session, err := svc.Start(liveclass.NewSession{
		Subject: "Maths", Teacher: "Priya", TeacherID: "t1", Class: "10A",
	})
	require.NoError(t, err)
	recvEvent(t, client) // drain Start update

	gateway.handleMessage(client, []byte(`{"event":"join","data":{"id":"s1","name":"Kavya","role":"student"}}`))
	recvEvent(t, client) // drain join reply

	gateway.handleMessage(client, []byte(fmt.Sprintf(`{"event":"joinLiveClass","data":{"classId":%q}}`, session.ID)))

	env := recvEvent(t, client)
	require.Equal(t, "joinClassSuccess", env.Event)
	var success joinClassSuccessPayload
	require.NoError(t, json.Unmarshal(env.Data, &success))
	assert.True(t, success.Success)
	assert.Equal(t, session.MeetingID, success.MeetingID)
	assert.Equal(t, session.ID, success.LiveClass.ID)
	require.Len(t, success.LiveClass.Participants, 1)
	assert.Equal(t, "Kavya", success.LiveClass.Participants[0].Name)

	// joining a dead class fails
	gateway.handleMessage(client, []byte(`{"event":"joinLiveClass","data":{"classId":"nope"}}`))
	env = recvEvent(t, client)
	require.Equal(t, "joinClassError", env.Event)
	var errPayload errorPayload
	require.NoError(t, json.Unmarshal(env.Data, &errPayload))
	assert.False(t, errPayload.Success)
	assert.Equal(t, "Class not found", errPayload.Message)
}

func Test_Gateway_unknownEvent(t *testing.T) {
	gateway, _ := setup(t)
	client := newTestClient(gateway)

	gateway.handleMessage(client, []byte(`{"event":"teleport"}`))

	env := recvEvent(t, client)
	assert.Equal(t, "joinClassError", env.Event)
}
