package student_test

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
	emailsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/email"
	dummydb "github.com/SRMV-Team/Online-Tutor-Backend/storage/database/dummy"
)

func setup(t *testing.T) *student.Service {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := core.Config{AppName: "OnlineTutor", DefaultFromAddr: "noreply@localhost"}
	return student.NewService(dummydb.NewStudentRepository(db), emailsvc.NewConsoleServiceMock(conf), conf, validate)
}

func newEnrollment(email string) student.NewStudent {
	return student.NewStudent{
		Salutation: "Mr.",
		FirstName:  "Arun",
		LastName:   "Kumar",
		Email:      email,
		Password:   "s3cr3t!",
		Class:      "10",
	}
}

func TestService_Register(t *testing.T) {
	svc := setup(t)

	s, err := svc.Register(newEnrollment("Arun.K@Example.COM"), "proof.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "arun.k@example.com", s.Email)
	assert.Equal(t, "Arun Kumar", s.Name())
	assert.Equal(t, "proof.pdf", s.Proof)
	assert.Equal(t, student.PaymentUnpaid, s.PaymentStatus)
	assert.Equal(t, student.ApprovalPending, s.ApprovalStatus)
	assert.True(t, s.IsActive)
	assert.NoError(t, s.CheckPassword("s3cr3t!"))
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc := setup(t)

	_, err := svc.Register(newEnrollment("arun@example.com"), "")
	require.NoError(t, err)

	_, err = svc.Register(newEnrollment("arun@example.com"), "")
	assert.Equal(t, student.ErrEmailExists, err)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := setup(t)

	tests := []struct {
		name   string
		mutate func(*student.NewStudent)
	}{
		{"missing firstName", func(ns *student.NewStudent) { ns.FirstName = "" }},
		{"missing email", func(ns *student.NewStudent) { ns.Email = "" }},
		{"bad email", func(ns *student.NewStudent) { ns.Email = "not-an-email" }},
		{"short password", func(ns *student.NewStudent) { ns.Password = "abc" }},
		{"missing class", func(ns *student.NewStudent) { ns.Class = "" }},
		{"bad salutation", func(ns *student.NewStudent) { ns.Salutation = "Dr." }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := newEnrollment("valid@example.com")
			tt.mutate(&ns)
			_, err := svc.Register(ns, "")
			assert.Error(t, err)
			var vErrs validator.ValidationErrors
			assert.ErrorAs(t, err, &vErrs)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := setup(t)

	_, err := svc.Register(newEnrollment("arun@example.com"), "")
	require.NoError(t, err)

	s, err := svc.Authenticate("ARUN@example.com", "s3cr3t!")
	assert.NoError(t, err)
	assert.Equal(t, "arun@example.com", s.Email)

	_, err = svc.Authenticate("arun@example.com", "wrong")
	assert.Equal(t, student.ErrInvalidCredentials, err)

	// unknown accounts fail the same way as bad passwords
	_, err = svc.Authenticate("nobody@example.com", "s3cr3t!")
	assert.Equal(t, student.ErrInvalidCredentials, err)
}

func TestService_Approve(t *testing.T) {
	svc := setup(t)

	s, err := svc.Register(newEnrollment("arun@example.com"), "")
	require.NoError(t, err)

	before := len(emailsvc.SentMessages)
	s, err = svc.Approve(s.ID, student.Approval{Status: student.ApprovalApproved})
	require.NoError(t, err)
	assert.Equal(t, student.ApprovalApproved, s.ApprovalStatus)
	require.Len(t, emailsvc.SentMessages, before+1)
	assert.Equal(t, "Enrollment Approved", emailsvc.SentMessages[before].Subject)
	assert.Equal(t, "arun@example.com", emailsvc.SentMessages[before].To[0].Address)
}

func TestService_ApproveUnknownStatus(t *testing.T) {
	svc := setup(t)

	s, err := svc.Register(newEnrollment("arun@example.com"), "")
	require.NoError(t, err)

	_, err = svc.Approve(s.ID, student.Approval{Status: "Maybe"})
	assert.Error(t, err)
}

func TestService_QueryPending(t *testing.T) {
	svc := setup(t)

	a, err := svc.Register(newEnrollment("a@example.com"), "")
	require.NoError(t, err)
	_, err = svc.Register(newEnrollment("b@example.com"), "")
	require.NoError(t, err)

	_, err = svc.Approve(a.ID, student.Approval{Status: student.ApprovalApproved})
	require.NoError(t, err)

	pending, err := svc.QueryPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b@example.com", pending[0].Email)
}

func TestService_TogglePayment(t *testing.T) {
	svc := setup(t)

	s, err := svc.Register(newEnrollment("arun@example.com"), "")
	require.NoError(t, err)

	s, err = svc.TogglePayment(s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.PaymentPaid, s.PaymentStatus)

	s, err = svc.TogglePayment(s.ID)
	require.NoError(t, err)
	assert.Equal(t, student.PaymentUnpaid, s.PaymentStatus)

	_, err = svc.TogglePayment("nope")
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_Update(t *testing.T) {
	svc := setup(t)

	s, err := svc.Register(newEnrollment("arun@example.com"), "")
	require.NoError(t, err)

	mobile := "+91 98765 43210"
	inactive := false
	s, err = svc.Update(s.ID, student.UpdateStudent{
		FirstName: "Arjun",
		Mobile:    &mobile,
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arjun", s.FirstName)
	assert.Equal(t, "Kumar", s.LastName) // untouched
	assert.Equal(t, mobile, s.Mobile)
	assert.False(t, s.IsActive)
}

func TestService_Classes(t *testing.T) {
	svc := setup(t)

	for i, class := range []string{"10", "2", "10", "KG"} {
		ns := newEnrollment("")
		ns.Email = string(rune('a'+i)) + "@example.com"
		ns.Class = class
		s, err := svc.Register(ns, "")
		require.NoError(t, err)
		_, err = svc.Approve(s.ID, student.Approval{Status: student.ApprovalApproved})
		require.NoError(t, err)
	}
	// one pending student whose class must not show up
	ns := newEnrollment("pending@example.com")
	ns.Class = "5"
	_, err := svc.Register(ns, "")
	require.NoError(t, err)

	classes, err := svc.Classes()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "10", "KG"}, classes)
}

func TestService_Delete(t *testing.T) {
	svc := setup(t)

	s, err := svc.Register(newEnrollment("arun@example.com"), "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(s.ID))
	_, err = svc.GetByID(s.ID)
	assert.Equal(t, student.ErrNotFound, err)
}
