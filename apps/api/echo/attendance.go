package echoapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
)

type attendanceApi struct {
	svc      attendance.ServiceInterface
	usrSvc   user.ServiceInterface
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := attendanceApi{svc: opts.AttendanceSvc, usrSvc: opts.UserSvc, validate: opts.Validate}

	perm := permissionMiddleware(opts.UserSvc, user.PermAttendance)

	ag := g.Group("/asistencias", jwt, perm)
	ag.POST("", api.upsert)
	ag.GET("", api.query)
	// eligibility is additionally role gated on top of the group's
	// permission: only admin or teacher accounts may ask which classes
	// they can take attendance for.
	ag.GET("/elegibles", api.eligible, roleMiddleware(opts.UserSvc, user.RoleAdmin, user.RoleTeacher))
	ag.GET("/clase/:id", api.byClass)
	ag.GET("/clase/:id/resumen", api.classSummary)
	ag.GET("/estudiante/:documento", api.byStudent)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *attendanceApi) upsert(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Upsert(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, rec)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	page := bindPagination(ctx)

	records, total, err := api.svc.Filter(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	return respondList(ctx, records, total, page)
}

func (api *attendanceApi) eligible(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	classes, err := api.svc.EligibleClasses(ctx.Request().Context(), ident, time.Now())
	if err != nil {
		return err
	}
	return respondOK(ctx, classes)
}

func (api *attendanceApi) byClass(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	date, err := queryDate(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.ClassRecords(ctx.Request().Context(), id, date)
	if err != nil {
		return err
	}
	return respondOK(ctx, records)
}

func (api *attendanceApi) classSummary(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	date, err := queryDate(ctx)
	if err != nil {
		return err
	}
	summary, err := api.svc.ClassSummary(ctx.Request().Context(), id, date)
	if err != nil {
		return err
	}
	return respondOK(ctx, summary)
}

func (api *attendanceApi) byStudent(ctx echo.Context) error {
	records, err := api.svc.StudentHistory(ctx.Request().Context(), pathDocument(ctx))
	if err != nil {
		return err
	}
	return respondOK(ctx, records)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, rec)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data attendance.UpdateRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, rec)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "registro de asistencia eliminado")
}

// queryDate reads the fecha query param, defaulting to today.
func queryDate(ctx echo.Context) (string, error) {
	date := core.CleanString(ctx.QueryParam("fecha"))
	if date == "" {
		return time.Now().Format(attendance.DateLayout), nil
	}
	if _, err := time.Parse(attendance.DateLayout, date); err != nil {
		return "", core.NewValidationError(nil, core.FieldError{Field: "fecha", Error: "fecha inválida, formato esperado AAAA-MM-DD"})
	}
	return date, nil
}
