package dummydb

import (
	"sync"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/admin"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/assignment"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/query"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
)

// DB is an in-memory stand-in for the real database, used in tests and
// local development without Postgres.
type (
	DB struct {
		student    *studentTable
		teacher    *teacherTable
		admin      *adminTable
		subject    *subjectTable
		assignment *assignmentTable
		query      *queryTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}
	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher
	}
	adminTable struct {
		sync.RWMutex
		table map[string]*admin.Admin
	}
	subjectTable struct {
		sync.RWMutex
		table map[string]*subject.Subject
	}
	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment
	}
	queryTable struct {
		sync.RWMutex
		table map[string]*query.Query
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:    &studentTable{table: make(map[string]*student.Student)},
		teacher:    &teacherTable{table: make(map[string]*teacher.Teacher)},
		admin:      &adminTable{table: make(map[string]*admin.Admin)},
		subject:    &subjectTable{table: make(map[string]*subject.Subject)},
		assignment: &assignmentTable{table: make(map[string]*assignment.Assignment)},
		query:      &queryTable{table: make(map[string]*query.Query)},
	}
	return db, nil
}
