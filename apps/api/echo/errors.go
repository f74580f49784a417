package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/admin"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/assignment"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/liveclass"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/query"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
	uploadsvc "github.com/SRMV-Team/Online-Tutor-Backend/services/upload"
)

var (
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// mapDomainErr translates the domain sentinel errors into HTTP errors; any
// other error passes through for the error handler to deal with.
func mapDomainErr(err error) error {
	switch errors.Cause(err) {
	case student.ErrNotFound, teacher.ErrNotFound, admin.ErrNotFound,
		subject.ErrNotFound, assignment.ErrNotFound, query.ErrNotFound,
		liveclass.ErrNotFound:
		return errHttpNotFound
	case student.ErrEmailExists, teacher.ErrEmailExists, admin.ErrEmailExists:
		return echo.NewHTTPError(http.StatusConflict, "email address already in use")
	case subject.ErrNameExists:
		return echo.NewHTTPError(http.StatusConflict, "subject name already in use")
	case student.ErrInvalidCredentials, teacher.ErrInvalidCredentials, admin.ErrInvalidCredentials:
		return errAuthenticationFailed
	case assignment.ErrAlreadySubmitted:
		return echo.NewHTTPError(http.StatusBadRequest, "assignment already submitted")
	case uploadsvc.ErrUnsupportedType:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported file type")
	}
	return err
}

// validationMessage flattens a validation failure into a single line for
// responses that carry a plain message instead of a field map.
func validationMessage(err error) string {
	if vErrs, ok := errors.Cause(err).(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(vErrs))
		for _, vErr := range vErrs {
			fields = append(fields, vErr.Field())
		}
		return "missing or invalid fields: " + strings.Join(fields, ", ")
	}
	return err.Error()
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
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
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
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
