package echoweb

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codegrow/frontend/core/collection"
)

// bindQuery reads page, search and the allowed filters of a list screen from the query string.
// Unknown params are ignored.
func bindQuery(ctx echo.Context, filters []string) collection.Query {
	q := collection.NewQuery()
	for _, name := range filters {
		if val := ctx.QueryParam(name); val != "" {
			q = collection.OnFilterChange(q, name, val)
		}
	}
	if search := ctx.QueryParam("search"); search != "" {
		q = collection.OnSearchChange(q, search)
	}
	if page, err := strconv.Atoi(ctx.QueryParam("page")); err == nil {
		q = collection.OnPageChange(q, page, 0)
	}
	return q
}

func bindID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}
