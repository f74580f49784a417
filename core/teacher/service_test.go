package teacher_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
	emailsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/email"
	dummydb "github.com/SRMV-Team/Online-Tutor-Backend/storage/database/dummy"
)

func setup(t *testing.T) (*teacher.Service, *subject.Service) {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := core.Config{AppName: "OnlineTutor", DefaultFromAddr: "noreply@localhost"}
	subjectRepo := dummydb.NewSubjectRepository(db)
	svc := teacher.NewService(dummydb.NewTeacherRepository(db), subjectRepo, emailsvc.NewConsoleServiceMock(conf), conf, validate)
	return svc, subject.NewService(subjectRepo, validate)
}

func newApplication(email string) teacher.NewTeacher {
	return teacher.NewTeacher{
		Salutation: "Ms.",
		FirstName:  "Priya",
		LastName:   "Nair",
		Email:      email,
		Password:   "s3cr3t!",
		Subjects:   []string{"Maths", "Physics"},
	}
}

func TestService_Register(t *testing.T) {
	svc, _ := setup(t)

	tr, err := svc.Register(newApplication("Priya.N@Example.COM"))
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "priya.n@example.com", tr.Email)
	assert.Equal(t, teacher.ApprovalPending, tr.ApprovalStatus)
	assert.Equal(t, []string{"Maths", "Physics"}, tr.Subjects)
	assert.False(t, tr.IsAssigned())
	assert.NoError(t, tr.CheckPassword("s3cr3t!"))
}

func TestService_RegisterRequiresSubjects(t *testing.T) {
	svc, _ := setup(t)

	nt := newApplication("priya@example.com")
	nt.Subjects = nil
	_, err := svc.Register(nt)
	assert.Error(t, err)
	var vErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &vErrs)
}

func TestService_Authenticate(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Register(newApplication("priya@example.com"))
	require.NoError(t, err)

	tr, err := svc.Authenticate("priya@example.com", "s3cr3t!")
	assert.NoError(t, err)
	assert.Equal(t, "Priya Nair", tr.Name())

	_, err = svc.Authenticate("priya@example.com", "wrong")
	assert.Equal(t, teacher.ErrInvalidCredentials, err)
}

func TestService_Approve(t *testing.T) {
	svc, _ := setup(t)

	tr, err := svc.Register(newApplication("priya@example.com"))
	require.NoError(t, err)

	before := len(emailsvc.SentMessages)
	tr, err = svc.Approve(tr.ID, teacher.Approval{Status: teacher.ApprovalApproved})
	require.NoError(t, err)
	assert.Equal(t, teacher.ApprovalApproved, tr.ApprovalStatus)
	require.Len(t, emailsvc.SentMessages, before+1)
	assert.Equal(t, "Application Approved", emailsvc.SentMessages[before].Subject)
}

func TestService_Assign(t *testing.T) {
	svc, _ := setup(t)

	tr, err := svc.Register(newApplication("priya@example.com"))
	require.NoError(t, err)

	before := len(emailsvc.SentMessages)
	tr, err = svc.Assign(tr.ID, teacher.Assignment{
		Subjects: []string{"Maths"},
		Classes:  []string{"10", "11"},
	})
	require.NoError(t, err)
	assert.True(t, tr.IsAssigned())
	assert.True(t, tr.TeachesClass("10"))
	assert.False(t, tr.TeachesClass("9"))
	require.Len(t, emailsvc.SentMessages, before+1)
	assert.Contains(t, emailsvc.SentMessages[before].Body, "Subjects: Maths")
	assert.Contains(t, emailsvc.SentMessages[before].Body, "Classes: 10, 11")

	// assignment without classes is rejected
	_, err = svc.Assign(tr.ID, teacher.Assignment{Subjects: []string{"Maths"}})
	assert.Error(t, err)
}

func TestService_Query(t *testing.T) {
	svc, _ := setup(t)

	for i := 0; i < 5; i++ {
		nt := newApplication(fmt.Sprintf("t%d@example.com", i))
		nt.FirstName = fmt.Sprintf("Teacher%d", i)
		tr, err := svc.Register(nt)
		require.NoError(t, err)
		if i < 2 {
			_, err = svc.Approve(tr.ID, teacher.Approval{Status: teacher.ApprovalApproved})
			require.NoError(t, err)
		}
		time.Sleep(time.Millisecond) // keep CreatedAt ordering deterministic
	}

	teachers, stats, pg, err := svc.Query(teacher.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, teachers, 5)
	assert.Equal(t, teacher.Stats{Total: 5, Approved: 2, Pending: 3}, stats)
	assert.Equal(t, 1, pg.TotalPages)

	// newest first
	assert.Equal(t, "t4@example.com", teachers[0].Email)

	teachers, stats, _, err = svc.Query(teacher.QueryFilter{Status: teacher.ApprovalApproved})
	require.NoError(t, err)
	assert.Len(t, teachers, 2)
	assert.Equal(t, 5, stats.Total) // stats always cover the whole roster

	teachers, _, _, err = svc.Query(teacher.QueryFilter{Search: "teacher3"})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "t3@example.com", teachers[0].Email)

	teachers, _, pg, err = svc.Query(teacher.QueryFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, teachers, 2)
	assert.Equal(t, 2, pg.TotalPages)
}

func TestService_QueryByClass(t *testing.T) {
	svc, _ := setup(t)

	a, err := svc.Register(newApplication("a@example.com"))
	require.NoError(t, err)
	b, err := svc.Register(newApplication("b@example.com"))
	require.NoError(t, err)

	_, err = svc.Approve(a.ID, teacher.Approval{Status: teacher.ApprovalApproved})
	require.NoError(t, err)
	_, err = svc.Assign(a.ID, teacher.Assignment{Subjects: []string{"Maths"}, Classes: []string{"10"}})
	require.NoError(t, err)
	// b is assigned but never approved, so it must not show up
	_, err = svc.Assign(b.ID, teacher.Assignment{Subjects: []string{"Maths"}, Classes: []string{"10"}})
	require.NoError(t, err)

	teachers, err := svc.QueryByClass("10")
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, a.ID, teachers[0].ID)
}

func TestService_AssignedSubjectDetails(t *testing.T) {
	svc, subjectSvc := setup(t)

	_, err := subjectSvc.Create(subject.NewSubject{Name: "Maths", Classes: []string{"10"}})
	require.NoError(t, err)
	_, err = subjectSvc.Create(subject.NewSubject{Name: "Physics", Classes: []string{"10"}})
	require.NoError(t, err)

	tr, err := svc.Register(newApplication("priya@example.com"))
	require.NoError(t, err)

	// nothing assigned yet
	_, subjects, err := svc.AssignedSubjectDetails(tr.ID)
	require.NoError(t, err)
	assert.Empty(t, subjects)

	_, err = svc.Assign(tr.ID, teacher.Assignment{Subjects: []string{"Maths", "Physics"}, Classes: []string{"10"}})
	require.NoError(t, err)

	_, subjects, err = svc.AssignedSubjectDetails(tr.ID)
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}
