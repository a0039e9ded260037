package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/course"
	"github.com/codegrow/frontend/core/user"
	apisvc "github.com/codegrow/frontend/services/api"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case *apisvc.Error:
			code = apiErrorStatus(origErr)
			if origErr.Kind == apisvc.KindValidation && len(origErr.Fields) > 0 {
				message = origErr.Fields
			} else {
				message = apisvc.UserMessage(origErr)
			}
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if errors.Is(err, course.ErrInvalidLesson) {
				code = http.StatusBadRequest
				message = origErr.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.Username = claims.Username
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// apiErrorStatus maps an upstream failure to the status the browser sees. Auth and lookup
// failures keep their status; everything the browser cannot fix is a bad gateway.
func apiErrorStatus(err *apisvc.Error) int {
	switch err.Kind {
	case apisvc.KindUnauthorized:
		return http.StatusUnauthorized
	case apisvc.KindForbidden:
		return http.StatusForbidden
	case apisvc.KindNotFound:
		return http.StatusNotFound
	case apisvc.KindValidation:
		return http.StatusBadRequest
	case apisvc.KindNetwork, apisvc.KindServer:
		return http.StatusBadGateway
	}
	if err.Status >= 400 && err.Status < 500 {
		return err.Status
	}
	return http.StatusBadGateway
}
