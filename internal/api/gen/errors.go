package gen

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/labstack/echo/v4"
)

type APIError struct {
	// Human readable error display message
	Message string `json:"message"`

	// A machine readable and stable identifier for the error case being represented
	Code string `json:"code"`

	// Used to alter the HTTP response status in accordance with the error
	Status int `json:"-"`

	// Additional message for internal logging only. Will not be included in the message
	// sent to the user.
	InternalMessage string `json:"-"`
}

func (err APIError) Error() string {
	return fmt.Sprintf("api error: %s", err.Message)
}

// GetHTTPErrorHandler returns an echo HTTP error handler which renders
// APIError values as JSON. Echo's own HTTP errors (e.g. unmatched routes)
// are converted to an APIError with the same status, and anything else
// becomes an opaque 500 with the original error logged.
func GetHTTPErrorHandler() echo.HTTPErrorHandler {
	logger := logger.Get("API")
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var apiErr APIError
		var httpErr *echo.HTTPError
		if errors.As(err, &apiErr) {
			// fall through
		} else if errors.As(err, &httpErr) {
			apiErr = APIError{Status: httpErr.Code, Message: fmt.Sprint(httpErr.Message)}
		} else {
			logger.Warnf(
				"%s request to %s caused error response which is not an APIError: %v\n",
				ctx.Request().Method, ctx.Request().RequestURI, err,
			)
			apiErr = APIError{Status: http.StatusInternalServerError}
		}

		if apiErr.Status == 0 {
			apiErr.Status = http.StatusInternalServerError
		}
		if len(apiErr.Message) == 0 {
			apiErr.Message = http.StatusText(apiErr.Status)
		}
		if len(apiErr.Code) == 0 {
			apiErr.Code = http.StatusText(apiErr.Status)
		}
		if len(apiErr.InternalMessage) > 0 {
			logger.Errorf("Request failure, internal error: %s\n", apiErr.InternalMessage)
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(apiErr.Status)
		} else {
			err = ctx.JSON(apiErr.Status, apiErr)
		}
		if err != nil {
			logger.Errorf("Failed to write error response: %v\n", err)
		}
	}
}
