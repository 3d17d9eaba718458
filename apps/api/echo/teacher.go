package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/user"
)

type teacherApi struct {
	svc      academics.ServiceInterface
	validate *validator.Validate
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := teacherApi{svc: opts.AcademicsSvc, validate: opts.Validate}

	perm := permissionMiddleware(opts.UserSvc, user.PermTeachers)

	tg := g.Group("/profesores", jwt, perm)
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data academics.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tch, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, tch)
}

func (api *teacherApi) query(ctx echo.Context) error {
	var filter academics.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	page := bindPagination(ctx)

	teachers, total, err := api.svc.FilterTeachers(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return respondList(ctx, teachers, total, page)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	tch, err := api.svc.GetTeacher(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, tch)
}

func (api *teacherApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data academics.UpdateTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	tch, err := api.svc.UpdateTeacher(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, tch)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteTeacher(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "profesor eliminado")
}
