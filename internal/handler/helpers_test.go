package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/finze/finze-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// newUserContext builds a request context as UserScope would leave it
func newUserContext(e *echo.Echo, method, path, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserIDKey, userID)
	return c, rec
}
