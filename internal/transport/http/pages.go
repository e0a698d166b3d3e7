package httpserver

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

type PagesHTTP struct {
	Dir string
}

func (h *PagesHTTP) Page(name string) echo.HandlerFunc {
	path := filepath.Join(h.Dir, name)
	return func(c echo.Context) error {
		return c.File(path)
	}
}
