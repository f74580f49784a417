package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/dashboard"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
)

type teacherApi struct {
	svc          *teacher.Service
	dashboardSvc *dashboard.Service
	validate     *validator.Validate
}

func registerTeacherAPI(g *echo.Group, deps ServerDeps) {
	api := teacherApi{
		svc:          deps.TeacherSvc,
		dashboardSvc: deps.DashboardSvc,
		validate:     deps.Validate,
	}

	tg := g.Group("/teacher")
	tg.POST("/register", api.register)
	tg.GET("", api.query)
	tg.GET("/pending", api.queryPending)
	tg.GET("/class/:className", api.queryByClass)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
	tg.PUT("/:id/approve", api.approve)
	tg.PUT("/:id/assign", api.assign)
	tg.GET("/:id/subjects", api.subjects)
	tg.GET("/:id/dashboard", api.getDashboard)
}

func (api *teacherApi) register(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}

	t, err := api.svc.Register(data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusCreated, t)
}

// query lists the roster with search/status filters, roster stats and
// pagination, for the admin teacher-management screen.
func (api *teacherApi) query(ctx echo.Context) error {
	var qf teacher.QueryFilter
	if err := ctx.Bind(&qf); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	teachers, stats, pg, err := api.svc.Query(qf)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"teachers":   teachers,
		"stats":      stats,
		"pagination": pg,
	})
}

func (api *teacherApi) queryPending(ctx echo.Context) error {
	teachers, err := api.svc.QueryPending()
	if err != nil {
		return errors.Wrap(err, "querying pending teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) queryByClass(ctx echo.Context) error {
	teachers, err := api.svc.QueryByClass(ctx.Param("className"))
	if err != nil {
		return errors.Wrap(err, "querying teachers by class")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}

	t, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return mapDomainErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teacherApi) approve(ctx echo.Context) error {
	var data teacher.Approval
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Approval")
	}

	t, err := api.svc.Approve(ctx.Param("id"), data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) assign(ctx echo.Context) error {
	var data teacher.Assignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Assignment")
	}

	t, err := api.svc.Assign(ctx.Param("id"), data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, t)
}

// subjects returns the teacher's assignments joined with the subject catalog.
func (api *teacherApi) subjects(ctx echo.Context) error {
	t, subjects, err := api.svc.AssignedSubjectDetails(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"teacher":  t.Name(),
		"classes":  t.AssignedClasses,
		"subjects": subjects,
	})
}

func (api *teacherApi) getDashboard(ctx echo.Context) error {
	d, err := api.dashboardSvc.ForTeacher(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, d)
}
