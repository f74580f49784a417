package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
)

type subjectApi struct {
	svc *subject.Service
}

func registerSubjectAPI(g *echo.Group, deps ServerDeps) {
	api := subjectApi{svc: deps.SubjectSvc}

	sg := g.Group("/subject")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/class/:className", api.queryForClass)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}

	s, err := api.svc.Create(data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *subjectApi) query(ctx echo.Context) error {
	var qf subject.QueryFilter
	if err := ctx.Bind(&qf); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	subjects, pg, err := api.svc.Query(qf)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"subjects":   subjects,
		"pagination": pg,
	})
}

// queryForClass lists the active subjects offered for a class, used by the
// student catalog.
func (api *subjectApi) queryForClass(ctx echo.Context) error {
	subjects, err := api.svc.QueryForClass(ctx.Param("className"))
	if err != nil {
		return errors.Wrap(err, "querying subjects for class")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *subjectApi) update(ctx echo.Context) error {
	var data subject.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}

	s, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return mapDomainErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
