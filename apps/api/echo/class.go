package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/user"
)

type classApi struct {
	svc      academics.ServiceInterface
	validate *validator.Validate
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := classApi{svc: opts.AcademicsSvc, validate: opts.Validate}

	perm := permissionMiddleware(opts.UserSvc, user.PermClasses)

	cg := g.Group("/clases", jwt, perm)
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
	cg.GET("/grupo/:id", api.byGroup)
	cg.GET("/profesor/:id", api.byTeacher)
	cg.GET("/dia/:dia", api.byWeekday)
}

func (api *classApi) create(ctx echo.Context) error {
	var data academics.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, cls)
}

func (api *classApi) query(ctx echo.Context) error {
	var filter academics.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	page := bindPagination(ctx)

	classes, total, err := api.svc.FilterClasses(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return respondList(ctx, classes, total, page)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	cls, err := api.svc.GetClass(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, cls)
}

func (api *classApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data academics.UpdateClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.UpdateClass(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteClass(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "clase eliminada")
}

func (api *classApi) byGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	classes, err := api.svc.ClassesByGroup(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, classes)
}

func (api *classApi) byTeacher(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	classes, err := api.svc.ClassesByTeacher(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, classes)
}

func (api *classApi) byWeekday(ctx echo.Context) error {
	classes, err := api.svc.ClassesByWeekday(ctx.Request().Context(), ctx.Param("dia"))
	if err != nil {
		return err
	}
	return respondOK(ctx, classes)
}
