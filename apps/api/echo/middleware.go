package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core/user"
)

// permissionMiddleware lets the request through only when the caller's
// role grants the permission.
func permissionMiddleware(svc user.ServiceInterface, perm user.Perm) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ident, err := getContextIdentity(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context identity")
			}
			if ident.HasPermission(perm) {
				return next(ctx)
			}
			return errHTTPForbidden
		}
	}
}

// roleMiddleware lets the request through only when the caller holds
// one of the named roles.
func roleMiddleware(svc user.ServiceInterface, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ident, err := getContextIdentity(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context identity")
			}
			if ident.HasAnyRole(roles...) {
				return next(ctx)
			}
			return errHTTPForbidden
		}
	}
}
