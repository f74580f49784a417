package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/assignment"
	uploadsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/upload"
)

type assignmentApi struct {
	svc       *assignment.Service
	uploadSvc uploadsvc.Service
}

func registerAssignmentAPI(g *echo.Group, deps ServerDeps) {
	api := assignmentApi{
		svc:       deps.AssignmentSvc,
		uploadSvc: deps.UploadSvc,
	}

	ag := g.Group("/assignment")
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/stats/:teacherId", api.statsForTeacher)
	ag.GET("/download/:filename", api.download)
	ag.GET("/:id", api.retrieve)
	ag.POST("/:id/submit", api.submit)
	ag.DELETE("/:id", api.destroy)
}

// create accepts multipart form data so the teacher can attach reference
// material alongside the assignment fields.
func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	var attachment string
	if fh, err := ctx.FormFile("attachment"); err == nil {
		if attachment, err = api.uploadSvc.Save(fh); err != nil {
			return mapDomainErr(err)
		}
	}

	a, err := api.svc.Create(data, attachment)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	var qf assignment.QueryFilter
	if err := ctx.Bind(&qf); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	assignments, err := api.svc.Query(qf)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	a, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	var data assignment.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	fh, err := ctx.FormFile("submission")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "submission file is required")
	}
	filename, err := api.uploadSvc.Save(fh)
	if err != nil {
		return mapDomainErr(err)
	}

	a, err := api.svc.Submit(ctx.Param("id"), data, filename)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) download(ctx echo.Context) error {
	name := ctx.Param("filename")
	path := api.uploadSvc.Path(name)
	return ctx.Attachment(path, name)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return mapDomainErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) statsForTeacher(ctx echo.Context) error {
	stats, err := api.svc.StatsForTeacher(ctx.Param("teacherId"))
	if err != nil {
		return errors.Wrap(err, "querying assignment stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
