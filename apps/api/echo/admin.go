package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/dashboard"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
)

type adminApi struct {
	dashboardSvc *dashboard.Service
	studentSvc   *student.Service
}

func registerAdminAPI(g *echo.Group, deps ServerDeps) {
	api := adminApi{
		dashboardSvc: deps.DashboardSvc,
		studentSvc:   deps.StudentSvc,
	}

	ag := g.Group("/admin")
	ag.GET("/dashboard", api.getDashboard)
	ag.GET("/classes", api.availableClasses)
}

func (api *adminApi) getDashboard(ctx echo.Context) error {
	d, err := api.dashboardSvc.ForAdmin()
	if err != nil {
		return errors.Wrap(err, "building admin dashboard")
	}
	return ctx.JSON(http.StatusOK, d)
}

// availableClasses lists the classes with at least one approved enrollment,
// used to populate class pickers.
func (api *adminApi) availableClasses(ctx echo.Context) error {
	classes, err := api.studentSvc.Classes()
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"classes": classes})
}
