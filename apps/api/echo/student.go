package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/dashboard"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
	uploadsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/upload"
)

type studentApi struct {
	svc          *student.Service
	dashboardSvc *dashboard.Service
	uploadSvc    uploadsvc.Service
	validate     *validator.Validate
}

func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := studentApi{
		svc:          deps.StudentSvc,
		dashboardSvc: deps.DashboardSvc,
		uploadSvc:    deps.UploadSvc,
		validate:     deps.Validate,
	}

	sg := g.Group("/student")
	sg.POST("/register", api.register)
	sg.GET("", api.query)
	sg.GET("/pending", api.queryPending)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
	sg.PUT("/:id/approve", api.approve)
	sg.PUT("/:id/payment", api.togglePayment)
	sg.GET("/:id/dashboard", api.getDashboard)
	sg.GET("/:id/activities", api.activities)
}

// register enrolls a student. The request is multipart so a payment proof
// file can ride along with the form fields.
func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	var proof string
	if fh, err := ctx.FormFile("proof"); err == nil && fh != nil {
		proof, err = api.uploadSvc.Save(fh)
		if err != nil {
			return mapDomainErr(err)
		}
	}

	s, err := api.svc.Register(data, proof)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) queryPending(ctx echo.Context) error {
	students, err := api.svc.QueryPending()
	if err != nil {
		return errors.Wrap(err, "querying pending students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	s, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return mapDomainErr(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) approve(ctx echo.Context) error {
	var data student.Approval
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Approval")
	}

	s, err := api.svc.Approve(ctx.Param("id"), data)
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) togglePayment(ctx echo.Context) error {
	s, err := api.svc.TogglePayment(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) getDashboard(ctx echo.Context) error {
	d, err := api.dashboardSvc.ForStudent(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *studentApi) activities(ctx echo.Context) error {
	activities, err := api.dashboardSvc.StudentActivities(ctx.Param("id"))
	if err != nil {
		return mapDomainErr(err)
	}
	return ctx.JSON(http.StatusOK, activities)
}
