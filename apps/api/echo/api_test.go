package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	echoapi "github.com/SRMV-Team/Online-Tutor-Backend/apps/api/echo"
	"github.com/SRMV-Team/Online-Tutor-Backend/apps/api/ws"
	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/admin"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/assignment"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/dashboard"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/liveclass"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/query"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
	emailsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/email"
	uploadsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/upload"
	dummydb "github.com/SRMV-Team/Online-Tutor-Backend/storage/database/dummy"
)

type testApp struct {
	server    echoapi.Server
	students  *student.Service
	teachers  *teacher.Service
	admins    *admin.Service
	liveclass *liveclass.Service
}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	conf := core.Config{
		AppName:         "OnlineTutor",
		SecretKey:       "test-secret",
		DefaultFromAddr: "noreply@localhost",
		TestMode:        true,
		UploadDir:       t.TempDir(),
	}

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	db, err := dummydb.Open()
	require.NoError(t, err)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	uploadSvc, err := uploadsvc.NewDiskService(conf)
	require.NoError(t, err)

	studentRepo := dummydb.NewStudentRepository(db)
	teacherRepo := dummydb.NewTeacherRepository(db)
	adminRepo := dummydb.NewAdminRepository(db)
	subjectRepo := dummydb.NewSubjectRepository(db)
	assignmentRepo := dummydb.NewAssignmentRepository(db)
	queryRepo := dummydb.NewQueryRepository(db)

	registry := liveclass.NewRegistry()
	gateway := ws.NewGateway(testLogger{})
	liveClassSvc := liveclass.NewService(registry, gateway, validate)
	gateway.Bind(liveClassSvc)
	go gateway.Run()
	t.Cleanup(gateway.Shutdown)

	studentSvc := student.NewService(studentRepo, mailSvc, conf, validate)
	teacherSvc := teacher.NewService(teacherRepo, subjectRepo, mailSvc, conf, validate)
	adminSvc := admin.NewService(adminRepo, validate)

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        testLogger{},
		Translator:    translator,
		Validate:      validate,
		Gateway:       gateway,
		LiveClassSvc:  liveClassSvc,
		StudentSvc:    studentSvc,
		TeacherSvc:    teacherSvc,
		AdminSvc:      adminSvc,
		SubjectSvc:    subject.NewService(subjectRepo, validate),
		AssignmentSvc: assignment.NewService(assignmentRepo, validate),
		QuerySvc:      query.NewService(queryRepo, validate),
		DashboardSvc:  dashboard.NewService(studentRepo, teacherRepo, subjectRepo, queryRepo, assignmentRepo, registry),
		UploadSvc:     uploadSvc,
	})

	return testApp{
		server:    server,
		students:  studentSvc,
		teachers:  teacherSvc,
		admins:    adminSvc,
		liveclass: liveClassSvc,
	}
}

func (app testApp) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), "body: %s", rec.Body.String())
	return m
}

func TestLiveClassAPI(t *testing.T) {
	app := newTestApp(t)

	// nothing live yet
	rec := app.do(t, http.MethodGet, "/api/live-classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Empty(t, body["liveClasses"])

	// start a class
	rec = app.do(t, http.MethodPost, "/api/live-classes/start", map[string]string{
		"subject":   "Maths",
		"teacher":   "Priya Nair",
		"teacherId": "t1",
		"class":     "10",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	require.Equal(t, true, body["success"])
	live := body["liveClass"].(map[string]interface{})
	classID := live["id"].(string)
	require.NotEmpty(t, classID)
	require.NotEmpty(t, live["meetingId"])
	require.Equal(t, true, live["isLive"])

	// missing fields get the failure envelope
	rec = app.do(t, http.MethodPost, "/api/live-classes/start", map[string]string{"subject": "Maths"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode(t, rec)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["message"], "missing or invalid fields")

	// filtered listings
	rec = app.do(t, http.MethodGet, "/api/live-classes/class/10", nil)
	body = decode(t, rec)
	require.Len(t, body["liveClasses"], 1)
	rec = app.do(t, http.MethodGet, "/api/live-classes/teacher/t2", nil)
	body = decode(t, rec)
	require.Empty(t, body["liveClasses"])

	// join
	rec = app.do(t, http.MethodPost, "/api/live-classes/join/"+classID, map[string]string{
		"userId": "s1",
		"name":   "Arun",
		"role":   "Student",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, live["meetingId"], body["meetingId"])

	rec = app.do(t, http.MethodPost, "/api/live-classes/join/unknown", map[string]string{"userId": "s1"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Class not found", decode(t, rec)["message"])

	// end
	rec = app.do(t, http.MethodDelete, "/api/live-classes/end/"+classID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["success"])

	rec = app.do(t, http.MethodDelete, "/api/live-classes/end/"+classID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Class not found", decode(t, rec)["message"])
}

func TestAuthLogin(t *testing.T) {
	app := newTestApp(t)

	_, err := app.students.Register(student.NewStudent{
		FirstName: "Arun", LastName: "Kumar", Email: "arun@example.com",
		Password: "s3cr3t!", Class: "10",
	}, "")
	require.NoError(t, err)

	rec := app.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"emailId":  "arun@example.com",
		"password": "s3cr3t!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.NotEmpty(t, body["token"])
	require.Equal(t, "Student", body["role"])

	rec = app.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"emailId":  "arun@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// an unapproved teacher can authenticate but may not get in
	_, err = app.teachers.Register(teacher.NewTeacher{
		FirstName: "Priya", LastName: "Nair", Email: "priya@example.com",
		Password: "s3cr3t!", Subjects: []string{"Maths"},
	})
	require.NoError(t, err)

	rec = app.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"emailId":  "priya@example.com",
		"password": "s3cr3t!",
		"type":     "Teacher",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, true, decode(t, rec)["needsApproval"])

	// admin accounts come from the CLI, not a signup endpoint
	_, err = app.admins.Create(admin.NewAdmin{Email: "root@example.com", Password: "s3cr3t!"})
	require.NoError(t, err)

	rec = app.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"emailId":  "root@example.com",
		"password": "s3cr3t!",
		"type":     "Admin",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Admin", decode(t, rec)["role"])
}

func TestStudentRegisterMultipart(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"firstName": "Arun",
		"lastName":  "Kumar",
		"email":     "arun@example.com",
		"password":  "s3cr3t!",
		"class":     "10",
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("proof", "receipt.pdf")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "%PDF-1.4 receipt")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/student/register", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	body := decode(t, rec)
	require.Equal(t, "arun@example.com", body["email"])
	require.NotEmpty(t, body["proof"])
	require.Equal(t, "Pending", body["approvalStatus"])

	// duplicate email conflicts
	rec = app.do(t, http.MethodPost, "/api/student/register", fields)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestStudentLifecycle(t *testing.T) {
	app := newTestApp(t)

	s, err := app.students.Register(student.NewStudent{
		FirstName: "Arun", LastName: "Kumar", Email: "arun@example.com",
		Password: "s3cr3t!", Class: "10",
	}, "")
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/api/student/pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	rec = app.do(t, http.MethodPut, "/api/student/"+s.ID+"/approve", map[string]string{
		"approvalStatus": "Approved",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Approved", decode(t, rec)["approvalStatus"])

	rec = app.do(t, http.MethodPut, "/api/student/"+s.ID+"/payment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Paid", decode(t, rec)["status"])

	rec = app.do(t, http.MethodGet, "/api/student/"+s.ID+"/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/student/"+s.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/student/"+s.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubjectAPI(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/subject", map[string]interface{}{
		"name":    "Maths",
		"classes": []string{"9", "10"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	id := body["id"].(string)
	require.Equal(t, "Regular", body["category"])

	rec = app.do(t, http.MethodPost, "/api/subject", map[string]interface{}{"name": "Maths"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/subject/class/10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var subjects []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subjects))
	require.Len(t, subjects, 1)

	rec = app.do(t, http.MethodPut, "/api/subject/"+id, map[string]interface{}{"name": "Mathematics"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Mathematics", decode(t, rec)["name"])

	rec = app.do(t, http.MethodDelete, "/api/subject/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
