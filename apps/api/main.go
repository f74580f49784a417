package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

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
	logsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/logger"
	uploadsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/upload"
	"github.com/SRMV-Team/Online-Tutor-Backend/storage/database"
	sqlxrepos "github.com/SRMV-Team/Online-Tutor-Backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		*conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(*conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(*conf, logger)
	}

	uploadSvc, err := uploadsvc.NewDiskService(*conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up upload storage: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	studentRepo := sqlxrepos.NewStudentRepository(db)
	teacherRepo := sqlxrepos.NewTeacherRepository(db)
	adminRepo := sqlxrepos.NewAdminRepository(db)
	subjectRepo := sqlxrepos.NewSubjectRepository(db)
	assignmentRepo := sqlxrepos.NewAssignmentRepository(db)
	queryRepo := sqlxrepos.NewQueryRepository(db)

	registry := liveclass.NewRegistry()
	gateway := ws.NewGateway(logger)
	liveClassSvc := liveclass.NewService(registry, gateway, validate)
	gateway.Bind(liveClassSvc)
	go gateway.Run()
	defer gateway.Shutdown()

	studentSvc := student.NewService(studentRepo, mailSvc, *conf, validate)
	teacherSvc := teacher.NewService(teacherRepo, subjectRepo, mailSvc, *conf, validate)
	adminSvc := admin.NewService(adminRepo, validate)
	subjectSvc := subject.NewService(subjectRepo, validate)
	assignmentSvc := assignment.NewService(assignmentRepo, validate)
	querySvc := query.NewService(queryRepo, validate)
	dashboardSvc := dashboard.NewService(studentRepo, teacherRepo, subjectRepo, queryRepo, assignmentRepo, registry)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          *conf,
			Logger:        logger,
			Translator:    translator,
			Validate:      validate,
			Gateway:       gateway,
			LiveClassSvc:  liveClassSvc,
			StudentSvc:    studentSvc,
			TeacherSvc:    teacherSvc,
			AdminSvc:      adminSvc,
			SubjectSvc:    subjectSvc,
			AssignmentSvc: assignmentSvc,
			QuerySvc:      querySvc,
			DashboardSvc:  dashboardSvc,
			UploadSvc:     uploadSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
