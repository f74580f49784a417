package assignment_test

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/assignment"
	dummydb "github.com/SRMV-Team/Online-Tutor-Backend/storage/database/dummy"
)

func setup(t *testing.T) *assignment.Service {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	db, err := dummydb.Open()
	require.NoError(t, err)
	return assignment.NewService(dummydb.NewAssignmentRepository(db), validate)
}

func newHomework(title string) assignment.NewAssignment {
	return assignment.NewAssignment{
		Title:       title,
		Description: "Solve all exercises",
		Subject:     "Maths",
		Class:       "10",
		TeacherID:   "t1",
		TeacherName: "Priya Nair",
	}
}

func TestService_Create(t *testing.T) {
	svc := setup(t)

	a, err := svc.Create(newHomework("Chapter 4"), "worksheet.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "worksheet.pdf", a.Attachment)
	assert.Empty(t, a.Submissions)

	_, err = svc.Create(assignment.NewAssignment{Title: "No subject"}, "")
	assert.Error(t, err)
}

func TestService_Query(t *testing.T) {
	svc := setup(t)

	_, err := svc.Create(newHomework("Chapter 4"), "")
	require.NoError(t, err)

	other := newHomework("Essay")
	other.TeacherID = "t2"
	other.Class = "11"
	other.Subject = "English"
	_, err = svc.Create(other, "")
	require.NoError(t, err)

	all, err := svc.Query(assignment.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byTeacher, err := svc.Query(assignment.QueryFilter{TeacherID: "t2"})
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	assert.Equal(t, "Essay", byTeacher[0].Title)

	byClass, err := svc.Query(assignment.QueryFilter{Class: "10", Subject: "Maths"})
	require.NoError(t, err)
	require.Len(t, byClass, 1)
	assert.Equal(t, "Chapter 4", byClass[0].Title)
}

func TestService_Submit(t *testing.T) {
	svc := setup(t)

	a, err := svc.Create(newHomework("Chapter 4"), "")
	require.NoError(t, err)

	sub := assignment.NewSubmission{StudentID: "s1", StudentName: "Arun Kumar"}
	a, err = svc.Submit(a.ID, sub, "answers.pdf")
	require.NoError(t, err)
	require.Len(t, a.Submissions, 1)
	assert.Equal(t, "answers.pdf", a.Submissions[0].Filename)
	assert.True(t, a.HasSubmissionFrom("s1"))

	// one submission per student
	_, err = svc.Submit(a.ID, sub, "answers-v2.pdf")
	assert.Equal(t, assignment.ErrAlreadySubmitted, err)

	_, err = svc.Submit("nope", sub, "answers.pdf")
	assert.Equal(t, assignment.ErrNotFound, err)
}

func TestService_StatsForTeacher(t *testing.T) {
	svc := setup(t)

	soon := time.Now().UTC().Add(48 * time.Hour)
	later := time.Now().UTC().Add(30 * 24 * time.Hour)

	a := newHomework("Due soon")
	a.DueDate = &soon
	created, err := svc.Create(a, "")
	require.NoError(t, err)

	b := newHomework("Due later")
	b.DueDate = &later
	_, err = svc.Create(b, "")
	require.NoError(t, err)

	// someone else's assignment must not count
	c := newHomework("Other teacher")
	c.TeacherID = "t2"
	_, err = svc.Create(c, "")
	require.NoError(t, err)

	_, err = svc.Submit(created.ID, assignment.NewSubmission{StudentID: "s1", StudentName: "Arun"}, "a.pdf")
	require.NoError(t, err)

	stats, err := svc.StatsForTeacher("t1")
	require.NoError(t, err)
	assert.Equal(t, assignment.Stats{Total: 2, TotalSubmissions: 1, DueSoon: 1}, stats)
}

func TestService_Delete(t *testing.T) {
	svc := setup(t)

	a, err := svc.Create(newHomework("Chapter 4"), "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(a.ID))
	_, err = svc.GetByID(a.ID)
	assert.Equal(t, assignment.ErrNotFound, err)
}
