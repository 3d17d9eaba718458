package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	authConf *core.Config

	contextIdentityKey = "identity"
)

func initAuth(conf *core.Config) {
	authConf = conf
	appJWTConfig.SigningKey = conf.SecretKey
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserID int    `json:"uid"`
	Name   string `json:"nombre,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"rol,omitempty"`
}

func GetUserClaims(usr user.User, role user.Role) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    authConf.AppName,
			ExpiresAt: now.Add(authConf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID: usr.ID,
		Name:   usr.FullName(),
		Email:  usr.Email,
		Role:   role.Name,
	}
}

// authenticate resolves login credentials to token claims.
func authenticate(ctx echo.Context, email, pwd string, svc user.ServiceInterface) (*Claims, error) {
	usr, err := svc.Authenticate(ctx.Request().Context(), email, pwd)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrBadCredentials:
			return nil, errAuthenticationFailed
		case user.ErrDeactivated:
			return nil, errAccountDeactivated
		case user.ErrNoRoleAssigned:
			return nil, errNoRoleAssigned
		}
		return nil, errors.Wrap(err, "authenticating")
	}

	role, err := svc.GetRole(ctx.Request().Context(), *usr.RoleID)
	if err != nil {
		if errors.Cause(err) == user.ErrRoleNotFound {
			return nil, errNoRoleAssigned
		}
		return nil, errors.Wrap(err, "loading role")
	}
	return GetUserClaims(usr, role), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextIdentity loads the caller's full Identity (user, role and
// permission set) once per request.
func getContextIdentity(ctx echo.Context, svc user.ServiceInterface) (user.Identity, error) {
	if ident, ok := ctx.Get(contextIdentityKey).(user.Identity); ok {
		return ident, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.Identity{}, err
	}

	ident, err := svc.GetIdentity(ctx.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			// token refers to a user that no longer exists
			return user.Identity{}, errUnauthorized
		}
		return user.Identity{}, errors.Wrap(err, "loading identity")
	}
	if ident.User.IsActive != nil && !*ident.User.IsActive {
		return user.Identity{}, errAccountDeactivated
	}
	ctx.Set(contextIdentityKey, ident)
	return ident, nil
}
