package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/user"
)

type academicsApi struct {
	svc      academics.ServiceInterface
	validate *validator.Validate
}

// registerAcademicsAPI wires the groups, programs and rooms endpoints.
func registerAcademicsAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := academicsApi{svc: opts.AcademicsSvc, validate: opts.Validate}

	gg := g.Group("/grupos", jwt, permissionMiddleware(opts.UserSvc, user.PermGroups))
	gg.POST("", api.createGroup)
	gg.GET("", api.queryGroups)
	gg.GET("/:id", api.retrieveGroup)
	gg.PUT("/:id", api.updateGroup)
	gg.DELETE("/:id", api.destroyGroup)

	pg := g.Group("/programas", jwt, permissionMiddleware(opts.UserSvc, user.PermPrograms))
	pg.POST("", api.createProgram)
	pg.GET("", api.queryPrograms)
	pg.GET("/:id", api.retrieveProgram)
	pg.PUT("/:id", api.updateProgram)
	pg.DELETE("/:id", api.destroyProgram)

	rg := g.Group("/salones", jwt, permissionMiddleware(opts.UserSvc, user.PermRooms))
	rg.POST("", api.createRoom)
	rg.GET("", api.queryRooms)
	rg.GET("/:id", api.retrieveRoom)
	rg.PUT("/:id", api.updateRoom)
	rg.DELETE("/:id", api.destroyRoom)
}

// groups

func (api *academicsApi) createGroup(ctx echo.Context) error {
	var data academics.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	grp, err := api.svc.CreateGroup(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, grp)
}

func (api *academicsApi) queryGroups(ctx echo.Context) error {
	groups, err := api.svc.QueryAllGroups(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	return respondOK(ctx, groups)
}

func (api *academicsApi) retrieveGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	grp, err := api.svc.GetGroup(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, grp)
}

func (api *academicsApi) updateGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data academics.NewGroup
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	grp, err := api.svc.UpdateGroup(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, grp)
}

func (api *academicsApi) destroyGroup(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteGroup(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "grupo eliminado")
}

// programs

func (api *academicsApi) createProgram(ctx echo.Context) error {
	var data academics.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prg, err := api.svc.CreateProgram(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, prg)
}

func (api *academicsApi) queryPrograms(ctx echo.Context) error {
	programs, err := api.svc.QueryAllPrograms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	return respondOK(ctx, programs)
}

func (api *academicsApi) retrieveProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	prg, err := api.svc.GetProgram(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, prg)
}

func (api *academicsApi) updateProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data academics.NewProgram
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	prg, err := api.svc.UpdateProgram(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, prg)
}

func (api *academicsApi) destroyProgram(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteProgram(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "programa eliminado")
}

// rooms

func (api *academicsApi) createRoom(ctx echo.Context) error {
	var data academics.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	room, err := api.svc.CreateRoom(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, room)
}

func (api *academicsApi) queryRooms(ctx echo.Context) error {
	rooms, err := api.svc.QueryAllRooms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying rooms")
	}
	return respondOK(ctx, rooms)
}

func (api *academicsApi) retrieveRoom(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	room, err := api.svc.GetRoom(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, room)
}

func (api *academicsApi) updateRoom(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data academics.NewRoom
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	room, err := api.svc.UpdateRoom(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, room)
}

func (api *academicsApi) destroyRoom(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteRoom(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "salón eliminado")
}
