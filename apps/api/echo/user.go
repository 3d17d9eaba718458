package echoapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"contrasena" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true)
	return validate.Struct(lr)
}

type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

type authApi struct {
	svc      user.ServiceInterface
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := authApi{svc: opts.UserSvc, validate: opts.Validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.GET("/perfil", api.profile, jwt)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(ctx, data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return respondOK(ctx, LoginResponse{
		Token: token,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
}

func (api *authApi) profile(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx, api.svc)
	if err != nil {
		return err
	}
	return respondOK(ctx, ident.User)
}

type userApi struct {
	svc      user.ServiceInterface
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := userApi{svc: opts.UserSvc, validate: opts.Validate}

	perm := permissionMiddleware(opts.UserSvc, user.PermUsers)
	rolePerm := permissionMiddleware(opts.UserSvc, user.PermRoles)

	ug := g.Group("/usuarios", jwt, perm)
	ug.POST("", api.create)
	ug.GET("", api.query)
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)

	rg := g.Group("/roles", jwt, rolePerm)
	rg.POST("", api.createRole)
	rg.GET("", api.queryRoles)
	rg.GET("/:id", api.retrieveRole)
	rg.PUT("/:id", api.updateRole)
	rg.PATCH("/:id/estado", api.setRoleState)
	rg.DELETE("/:id", api.destroyRole)

	g.GET("/permisos", api.queryPermissions, jwt, rolePerm)
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return respondCreated(ctx, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return respondOK(ctx, users)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	origUsr, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err = data.Validate(api.validate, origUsr, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "usuario eliminado")
}

// roles

func (api *userApi) createRole(ctx echo.Context) error {
	var data user.NewRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRole")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	role, err := api.svc.CreateRole(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respondCreated(ctx, role)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	var filter user.RoleQueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to RoleQueryFilter")
	}
	page := bindPagination(ctx)

	roles, total, err := api.svc.FilterRoles(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying roles")
	}
	return respondList(ctx, roles, total, page)
}

func (api *userApi) retrieveRole(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	role, err := api.svc.GetRole(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(ctx, role)
}

func (api *userApi) updateRole(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data user.UpdateRole
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRole")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	role, err := api.svc.EditRole(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return respondOK(ctx, role)
}

type roleStateRequest struct {
	Active *bool `json:"activo" validate:"required"`
}

func (api *userApi) setRoleState(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data roleStateRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to roleStateRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	role, err := api.svc.SetRoleState(ctx.Request().Context(), id, *data.Active)
	if err != nil {
		return err
	}
	return respondOK(ctx, role)
}

func (api *userApi) destroyRole(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteRole(ctx.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(ctx, "rol eliminado")
}

func (api *userApi) queryPermissions(ctx echo.Context) error {
	perms, err := api.svc.QueryAllPermissions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying permissions")
	}
	return respondOK(ctx, perms)
}

// pathID parses the numeric :id path param.
func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "id", Error: "identificador inválido"})
	}
	return id, nil
}
