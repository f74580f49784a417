package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/liveclass"
)

type liveClassApi struct {
	svc *liveclass.Service
}

func registerLiveClassAPI(g *echo.Group, deps ServerDeps) {
	api := liveClassApi{svc: deps.LiveClassSvc}

	lg := g.Group("/live-classes")
	lg.GET("", api.list)
	lg.GET("/class/:className", api.listByClass)
	lg.GET("/teacher/:teacherId", api.listByTeacher)
	lg.POST("/start", api.start)
	lg.DELETE("/end/:classId", api.end)
	lg.POST("/join/:classId", api.join)
}

// The live-class endpoints keep the {success, ...} envelope the realtime
// protocol uses, so both adapters speak the same dialect to the frontend.

func (api *liveClassApi) list(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"liveClasses": api.svc.List(),
	})
}

func (api *liveClassApi) listByClass(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"liveClasses": api.svc.ListByClass(ctx.Param("className")),
	})
}

func (api *liveClassApi) listByTeacher(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"liveClasses": api.svc.ListByTeacher(ctx.Param("teacherId")),
	})
}

func (api *liveClassApi) start(ctx echo.Context) error {
	var data liveclass.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}

	session, err := api.svc.Start(data)
	if err != nil {
		// the frontend expects the failure envelope, not a bare error
		return ctx.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": validationMessage(err),
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"liveClass": session,
	})
}

func (api *liveClassApi) end(ctx echo.Context) error {
	_, err := api.svc.End(ctx.Param("classId"))
	if err != nil {
		if errors.Cause(err) == liveclass.ErrNotFound {
			return ctx.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "Class not found",
			})
		}
		return errors.Wrap(err, "ending live class")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

type joinRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (api *liveClassApi) join(ctx echo.Context) error {
	var data joinRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to joinRequest")
	}

	_, session, err := api.svc.Join(ctx.Param("classId"), data.UserID, data.Name, data.Role)
	if err != nil {
		if errors.Cause(err) == liveclass.ErrNotFound {
			return ctx.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "Class not found",
			})
		}
		return errors.Wrap(err, "joining live class")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"meetingId": session.MeetingID,
		"liveClass": session,
	})
}
