package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
)

type dashboardApi struct {
	usrSvc user.ServiceInterface
	acaSvc academics.ServiceInterface
	attSvc attendance.ServiceInterface
}

type dashboardSummary struct {
	ActiveStudents  int                   `json:"estudiantes_activos"`
	Teachers        int                   `json:"profesores"`
	Groups          int                   `json:"grupos"`
	Classes         int                   `json:"clases"`
	Users           int                   `json:"usuarios_totales"`
	AttendanceToday attendance.DailyCount `json:"asistencias_hoy"`
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := dashboardApi{usrSvc: opts.UserSvc, acaSvc: opts.AcademicsSvc, attSvc: opts.AttendanceSvc}

	perm := permissionMiddleware(opts.UserSvc, user.PermDashboard)

	dg := g.Group("/dashboard", jwt, perm)
	dg.GET("/resumen", api.summary)
	dg.GET("/asistencias-diarias", api.dailyAttendance)
	dg.GET("/estudiantes-por-programa", api.studentsPerProgram)
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	var (
		sum dashboardSummary
		err error
	)
	if sum.ActiveStudents, err = api.acaSvc.CountActiveStudents(rctx); err != nil {
		return err
	}
	if sum.Teachers, err = api.acaSvc.CountTeachers(rctx); err != nil {
		return err
	}
	if sum.Groups, err = api.acaSvc.CountGroups(rctx); err != nil {
		return err
	}
	if sum.Classes, err = api.acaSvc.CountClasses(rctx); err != nil {
		return err
	}
	if sum.Users, err = api.usrSvc.Count(rctx); err != nil {
		return err
	}

	today := time.Now().Format(attendance.DateLayout)
	counts, err := api.attSvc.DailyCounts(rctx, 1)
	if err != nil {
		return err
	}
	sum.AttendanceToday = attendance.DailyCount{Date: today}
	for _, count := range counts {
		if count.Date == today {
			sum.AttendanceToday = count
			break
		}
	}
	return respondOK(ctx, sum)
}

func (api *dashboardApi) dailyAttendance(ctx echo.Context) error {
	days, _ := strconv.Atoi(ctx.QueryParam("dias"))
	counts, err := api.attSvc.DailyCounts(ctx.Request().Context(), days)
	if err != nil {
		return err
	}
	return respondOK(ctx, counts)
}

func (api *dashboardApi) studentsPerProgram(ctx echo.Context) error {
	counts, err := api.acaSvc.StudentsPerProgram(ctx.Request().Context())
	if err != nil {
		return err
	}
	if top, _ := strconv.Atoi(ctx.QueryParam("top")); top > 0 && top < len(counts) {
		counts = counts[:top]
	}
	return respondOK(ctx, counts)
}
