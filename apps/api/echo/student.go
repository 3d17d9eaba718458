package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/user"
)

type studentApi struct {
	svc      academics.ServiceInterface
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := studentApi{svc: opts.AcademicsSvc, validate: opts.Validate}

	perm := permissionMiddleware(opts.UserSvc, user.PermStudents)

	sg := g.Group("/estudiantes", jwt, perm)
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/:documento", api.retrieve)
	sg.PUT("/:documento", api.update)
	sg.DELETE("/:documento", api.destroy)
	sg.POST("/:documento/grupos/:id", api.enrollGroup)
	sg.DELETE("/:documento/grupos/:id", api.withdrawGroup)
	sg.POST("/:documento/programas/:id", api.enrollProgram)
	sg.DELETE("/:documento/programas/:id", api.withdrawProgram)
	sg.GET("/grupo/:id", api.byGroup)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data academics.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, std)
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter academics.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	page := bindPagination(ctx)

	students, total, err := api.svc.FilterStudents(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return respondList(ctx, students, total, page)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetStudent(ctx.Request().Context(), pathDocument(ctx))
	if err != nil {
		return err
	}
	return respondOK(ctx, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data academics.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.UpdateStudent(ctx.Request().Context(), pathDocument(ctx), data)
	if err != nil {
		return err
	}
	return respondOK(ctx, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Request().Context(), pathDocument(ctx)); err != nil {
		return err
	}
	return respondMessage(ctx, "estudiante eliminado")
}

func (api *studentApi) enrollGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.EnrollStudentInGroup(ctx.Request().Context(), pathDocument(ctx), id); err != nil {
		return err
	}
	return respondMessage(ctx, "estudiante matriculado en el grupo")
}

func (api *studentApi) withdrawGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.WithdrawStudentFromGroup(ctx.Request().Context(), pathDocument(ctx), id); err != nil {
		return err
	}
	return respondMessage(ctx, "estudiante retirado del grupo")
}

func (api *studentApi) enrollProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.EnrollStudentInProgram(ctx.Request().Context(), pathDocument(ctx), id); err != nil {
		return err
	}
	return respondMessage(ctx, "estudiante matriculado en el programa")
}

func (api *studentApi) withdrawProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.WithdrawStudentFromProgram(ctx.Request().Context(), pathDocument(ctx), id); err != nil {
		return err
	}
	return respondMessage(ctx, "estudiante retirado del programa")
}

func (api *studentApi) byGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.StudentsByGroup(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, students)
}

// pathDocument reads the :documento path param as given; the service
// layer treats unknown documents as not found.
func pathDocument(ctx echo.Context) string {
	return core.CleanString(ctx.Param("documento"))
}
