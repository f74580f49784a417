// Package dashboard aggregates read-only metrics across the other domains
// for the role dashboards. All figures are derived from stored records; none
// are sampled or estimated.
package dashboard

import (
	"sort"
	"time"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/assignment"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/liveclass"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/query"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
)

// Activity is one line in a dashboard's recent-activity feed.
type Activity struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	When    string `json:"when"`

	at time.Time
}

type StudentCounts struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Paid     int `json:"paid"`
}

type TeacherCounts struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Assigned int `json:"assigned"`
}

// AdminDashboard is the platform-wide summary shown after admin login.
type AdminDashboard struct {
	Students     StudentCounts `json:"students"`
	Teachers     TeacherCounts `json:"teachers"`
	Subjects     int           `json:"subjects"`
	Queries      query.Stats   `json:"queries"`
	LiveSessions int           `json:"liveSessions"`
	Activities   []Activity    `json:"activities"`
}

// StudentDashboard is what a logged-in student sees first.
type StudentDashboard struct {
	Student      student.Student   `json:"student"`
	Subjects     []subject.Subject `json:"subjects"`
	Teachers     []teacher.Teacher `json:"teachers"`
	LiveSessions int               `json:"liveSessions"`
	Assignments  int               `json:"assignments"`
	Queries      query.Stats       `json:"queries"`
}

// TeacherDashboard is what a logged-in teacher sees first.
type TeacherDashboard struct {
	Teacher         teacher.Teacher  `json:"teacher"`
	StudentsByClass map[string]int   `json:"studentsByClass"`
	TotalStudents   int              `json:"totalStudents"`
	Assignments     assignment.Stats `json:"assignments"`
	PendingQueries  int              `json:"pendingQueries"`
	LiveSessions    int              `json:"liveSessions"`
}

// Service computes dashboards straight from the domain repositories.
type Service struct {
	students    student.Repository
	teachers    teacher.Repository
	subjects    subject.Repository
	queries     query.Repository
	assignments assignment.Repository
	sessions    *liveclass.Registry
}

func NewService(
	students student.Repository,
	teachers teacher.Repository,
	subjects subject.Repository,
	queries query.Repository,
	assignments assignment.Repository,
	sessions *liveclass.Registry,
) *Service {
	return &Service{
		students:    students,
		teachers:    teachers,
		subjects:    subjects,
		queries:     queries,
		assignments: assignments,
		sessions:    sessions,
	}
}

// ForAdmin builds the platform-wide summary. The activity feed holds the 10
// most recent signups and doubts.
func (svc *Service) ForAdmin() (AdminDashboard, error) {
	var d AdminDashboard
	now := time.Now().UTC()

	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return d, err
	}
	var activities []Activity
	for _, s := range students {
		d.Students.Total++
		switch s.ApprovalStatus {
		case student.ApprovalApproved:
			d.Students.Approved++
		case student.ApprovalPending:
			d.Students.Pending++
		}
		if s.PaymentStatus == student.PaymentPaid {
			d.Students.Paid++
		}
		activities = append(activities, Activity{
			Type:    "student",
			Message: s.Name() + " enrolled for class " + s.Class,
			When:    core.TimeAgo(s.CreatedAt, now),
			at:      s.CreatedAt,
		})
	}

	teachers, err := svc.teachers.QueryAllTeachers()
	if err != nil {
		return d, err
	}
	for _, t := range teachers {
		d.Teachers.Total++
		switch t.ApprovalStatus {
		case teacher.ApprovalApproved:
			d.Teachers.Approved++
		case teacher.ApprovalPending:
			d.Teachers.Pending++
		}
		if t.IsAssigned() {
			d.Teachers.Assigned++
		}
		activities = append(activities, Activity{
			Type:    "teacher",
			Message: t.Name() + " applied to teach",
			When:    core.TimeAgo(t.CreatedAt, now),
			at:      t.CreatedAt,
		})
	}

	subjects, err := svc.subjects.QueryAllSubjects()
	if err != nil {
		return d, err
	}
	d.Subjects = len(subjects)

	queries, err := svc.queries.QueryAllQueries()
	if err != nil {
		return d, err
	}
	for _, q := range queries {
		d.Queries.Total++
		if q.Status == query.StatusResolved {
			d.Queries.Resolved++
		} else {
			d.Queries.Pending++
		}
		activities = append(activities, Activity{
			Type:    "query",
			Message: q.StudentName + " raised a doubt in " + q.Subject,
			When:    core.TimeAgo(q.CreatedAt, now),
			at:      q.CreatedAt,
		})
	}

	d.LiveSessions = len(svc.sessions.All())

	sort.Slice(activities, func(i, j int) bool { return activities[i].at.After(activities[j].at) })
	if len(activities) > 10 {
		activities = activities[:10]
	}
	if activities == nil {
		activities = []Activity{}
	}
	d.Activities = activities
	return d, nil
}

// ForStudent builds a student's dashboard from their class.
func (svc *Service) ForStudent(studentID string) (StudentDashboard, error) {
	var d StudentDashboard

	s, err := svc.students.GetStudentByID(studentID)
	if err != nil {
		return d, err
	}
	d.Student = s

	subjects, err := svc.subjects.QueryAllSubjects()
	if err != nil {
		return d, err
	}
	d.Subjects = []subject.Subject{}
	for _, sub := range subjects {
		if !sub.IsActive {
			continue
		}
		for _, c := range sub.Classes {
			if c == s.Class {
				d.Subjects = append(d.Subjects, sub)
				break
			}
		}
	}

	teachers, err := svc.teachers.QueryAllTeachers()
	if err != nil {
		return d, err
	}
	d.Teachers = []teacher.Teacher{}
	for _, t := range teachers {
		if t.ApprovalStatus == teacher.ApprovalApproved && t.TeachesClass(s.Class) {
			d.Teachers = append(d.Teachers, t)
		}
	}

	d.LiveSessions = len(svc.sessions.ByClass(s.Class))

	assignments, err := svc.assignments.QueryAssignments(assignment.QueryFilter{Class: s.Class})
	if err != nil {
		return d, err
	}
	for _, a := range assignments {
		if !a.HasSubmissionFrom(s.ID) {
			d.Assignments++
		}
	}

	queries, err := svc.queries.QueryAllQueries()
	if err != nil {
		return d, err
	}
	for _, q := range queries {
		if q.StudentID != s.ID {
			continue
		}
		d.Queries.Total++
		if q.Status == query.StatusResolved {
			d.Queries.Resolved++
		} else {
			d.Queries.Pending++
		}
	}
	return d, nil
}

// ForTeacher builds a teacher's dashboard from their assigned classes.
func (svc *Service) ForTeacher(teacherID string) (TeacherDashboard, error) {
	var d TeacherDashboard

	t, err := svc.teachers.GetTeacherByID(teacherID)
	if err != nil {
		return d, err
	}
	d.Teacher = t
	d.StudentsByClass = make(map[string]int, len(t.AssignedClasses))
	for _, c := range t.AssignedClasses {
		d.StudentsByClass[c] = 0
	}

	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return d, err
	}
	for _, s := range students {
		if s.ApprovalStatus != student.ApprovalApproved {
			continue
		}
		if _, ok := d.StudentsByClass[s.Class]; ok {
			d.StudentsByClass[s.Class]++
			d.TotalStudents++
		}
	}

	assignments, err := svc.assignments.QueryAssignments(assignment.QueryFilter{TeacherID: t.ID})
	if err != nil {
		return d, err
	}
	now := time.Now().UTC()
	cutoff := now.Add(7 * 24 * time.Hour)
	for _, a := range assignments {
		d.Assignments.Total++
		d.Assignments.TotalSubmissions += len(a.Submissions)
		if a.DueDate != nil && a.DueDate.After(now) && a.DueDate.Before(cutoff) {
			d.Assignments.DueSoon++
		}
	}

	queries, err := svc.queries.QueryAllQueries()
	if err != nil {
		return d, err
	}
	for _, q := range queries {
		if q.Status != query.StatusPending {
			continue
		}
		if t.TeachesClass(q.Class) {
			d.PendingQueries++
		}
	}

	d.LiveSessions = len(svc.sessions.ByTeacher(t.ID))
	return d, nil
}

// StudentActivities is the recent-activity feed on a student's dashboard:
// new assignments and answered doubts for their class, newest first.
func (svc *Service) StudentActivities(studentID string) ([]Activity, error) {
	s, err := svc.students.GetStudentByID(studentID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	var activities []Activity
	assignments, err := svc.assignments.QueryAssignments(assignment.QueryFilter{Class: s.Class})
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		activities = append(activities, Activity{
			Type:    "assignment",
			Message: "New assignment \"" + a.Title + "\" in " + a.Subject,
			When:    core.TimeAgo(a.CreatedAt, now),
			at:      a.CreatedAt,
		})
	}

	queries, err := svc.queries.QueryAllQueries()
	if err != nil {
		return nil, err
	}
	for _, q := range queries {
		if q.StudentID != s.ID || q.Status != query.StatusResolved || q.ResolvedAt == nil {
			continue
		}
		activities = append(activities, Activity{
			Type:    "query",
			Message: "Your doubt \"" + q.Title + "\" was answered by " + q.RespondedBy,
			When:    core.TimeAgo(*q.ResolvedAt, now),
			at:      *q.ResolvedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool { return activities[i].at.After(activities[j].at) })
	if len(activities) > 10 {
		activities = activities[:10]
	}
	if activities == nil {
		activities = []Activity{}
	}
	return activities, nil
}
