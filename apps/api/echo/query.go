package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/query"
	uploadsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/upload"
)

type queryApi struct {
	svc       *query.Service
	uploadSvc uploadsvc.Service
}

func registerQueryAPI(g *echo.Group, deps ServerDeps) {
	api := queryApi{
		svc:       deps.QuerySvc,
		uploadSvc: deps.UploadSvc,
	}

	qg := g.Group("/query")
	qg.POST("", api.create)
	qg.GET("", api.query)
	qg.GET("/:id", api.retrieve)
	qg.PUT("/:id/respond", api.respond)
	qg.DELETE("/:id", api.destroy)
}

func (api *queryApi) create(ctx echo.Context) error {
	var data query.NewQuery
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuery")
	}

	var attachment string
	if fh, err := ctx.FormFile("attachment"); err == nil {
		if attachment, err = api.uploadSvc.Save(fh); err != nil {
			return mapDomainErr(err)
		}
	}

	q, err := api.svc.Create(data, attachment)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *queryApi) query(ctx echo.Context) error {
	var qf query.QueryFilter
	if err := ctx.Bind(&qf); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	queries, stats, pg, err := api.svc.Query(qf)
	if err != nil {
		return errors.Wrap(err, "querying doubts")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"queries":    queries,
		"stats":      stats,
		"pagination": pg,
	})
}

func (api *queryApi) retrieve(ctx echo.Context) error {
	q, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *queryApi) respond(ctx echo.Context) error {
	var data query.Response
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Response")
	}

	q, err := api.svc.Respond(ctx.Param("id"), data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *queryApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return mapDomainErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
