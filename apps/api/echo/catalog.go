package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/classtrack/core/project"
)

type catalogApi struct {
	dir project.Directory
}

func registerCatalogAPI(g *echo.Group, authed []echo.MiddlewareFunc, dir project.Directory) {
	api := catalogApi{dir: dir}

	cg := g.Group("/catalog", authed...)
	cg.GET("/groups", api.groups)
	cg.GET("/groups/:id", api.group)
	cg.GET("/subjects", api.subjects)
}

func (api *catalogApi) groups(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.dir.Groups())
}

func (api *catalogApi) group(ctx echo.Context) error {
	grp, ok := api.dir.GroupByID(ctx.Param("id"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *catalogApi) subjects(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.dir.Subjects())
}
