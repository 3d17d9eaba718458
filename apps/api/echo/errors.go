package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "no autenticado")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, user.ErrBadCredentials.Error())
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, user.ErrDeactivated.Error())
	errNoRoleAssigned       = echo.NewHTTPError(http.StatusForbidden, user.ErrNoRoleAssigned.Error())
	errHTTPForbidden        = echo.NewHTTPError(http.StatusForbidden, "permiso denegado")
)

// statusFor maps domain sentinel errors to HTTP status codes; 0 means
// the error is not a domain sentinel.
func statusFor(err error) int {
	switch err {
	case user.ErrNotFound, user.ErrRoleNotFound, user.ErrPermNotFound,
		academics.ErrStudentNotFound, academics.ErrTeacherNotFound,
		academics.ErrGroupNotFound, academics.ErrProgramNotFound,
		academics.ErrRoomNotFound, academics.ErrClassNotFound,
		academics.ErrMembershipNotFound,
		attendance.ErrRecordNotFound, attendance.ErrTeacherNotProvisioned:
		return http.StatusNotFound
	case user.ErrRoleInUse, user.ErrRoleNameExists,
		user.ErrEmailExists, user.ErrDocumentExists,
		academics.ErrEntityInUse, academics.ErrMembershipExists:
		return http.StatusConflict
	case user.ErrUserProtected, user.ErrRoleProtected, attendance.ErrForbidden:
		return http.StatusForbidden
	case user.ErrBadCredentials:
		return http.StatusUnauthorized
	case user.ErrDeactivated, user.ErrNoRoleAssigned:
		return http.StatusForbidden
	}
	return 0
}

type errorEnvelope struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string
		var fields interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = "no autenticado"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = "datos inválidos"
			fields = fldErrs
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
			if message == "" {
				message = "datos inválidos"
			}
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				fields = fldErrs
			}
		default:
			if code = statusFor(cause); code != 0 {
				message = cause.Error()
				break
			}
			// any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.UserID
				usr.Email = claims.Email
			}
			logger.Error(message, errors.Wrap(err, message), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, errorEnvelope{Message: message, Error: fields})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
