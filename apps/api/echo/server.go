package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
	uploadsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/upload"
)

type (
	ServerDeps struct {
		Conf       core.Config
		Logger     core.Logger
		Translator ut.Translator
		Validate   *validator.Validate

		Gateway *ws.Gateway

		LiveClassSvc  *liveclass.Service
		StudentSvc    *student.Service
		TeacherSvc    *teacher.Service
		AdminSvc      *admin.Service
		SubjectSvc    *subject.Service
		AssignmentSvc *assignment.Service
		QuerySvc      *query.Service
		DashboardSvc  *dashboard.Service
		UploadSvc     uploadsvc.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{conf.Server.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.Static("/uploads", conf.UploadDir)

	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return conf.Debug || r.Header.Get("Origin") == conf.Server.AllowedOrigin
		},
	}
	s.app.GET("/ws", func(ctx echo.Context) error {
		return s.deps.Gateway.ServeWS(upgrader, ctx.Response(), ctx.Request())
	})

	api := s.app.Group("/api")
	registerAuthAPI(api, s.deps)
	registerLiveClassAPI(api, s.deps)
	registerStudentAPI(api, s.deps)
	registerTeacherAPI(api, s.deps)
	registerAdminAPI(api, s.deps)
	registerSubjectAPI(api, s.deps)
	registerAssignmentAPI(api, s.deps)
	registerQueryAPI(api, s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown lets the error handler request an integrity shutdown.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Online Tutor API!")
}
