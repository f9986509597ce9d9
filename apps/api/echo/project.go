package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/payload"
	"github.com/trezcool/classtrack/core/project"
)

const confirmParam = "confirm"

type projectApi struct {
	svc *project.Service
}

func registerProjectAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *project.Service) {
	api := projectApi{svc: svc}

	pg := g.Group("/projects", authed...)
	pg.GET("", api.query)
	pg.POST("", api.create, teacherMiddleware)
	pg.GET("/summary", api.summary, studentMiddleware)

	// detail endpoints
	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherMiddleware)
	dg.DELETE("", api.destroy, teacherMiddleware)
	dg.POST("/submissions", api.submit, studentMiddleware)
	dg.GET("/submissions/:student/file", api.submissionFile)

	// tasks
	dg.POST("/tasks", api.createTask, teacherMiddleware)
	dg.PUT("/tasks/:taskId", api.updateTask, teacherMiddleware)
	dg.DELETE("/tasks/:taskId", api.destroyTask, teacherMiddleware)
	dg.POST("/tasks/:taskId/submit", api.submitTask)
	dg.GET("/tasks/:taskId/file", api.taskFile)
}

// Handlers

func (api *projectApi) query(ctx echo.Context) error {
	projects, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying projects")
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (api *projectApi) summary(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	sum, err := api.svc.StudentSummary(ctx.Request().Context(), sess.Username)
	if err != nil {
		return errors.Wrap(err, "summarizing projects")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *projectApi) create(ctx echo.Context) error {
	var data project.NewProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProject")
	}
	prj, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating project")
	}
	return ctx.JSON(http.StatusCreated, prj)
}

func (api *projectApi) retrieve(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	prj, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting project")
	}
	return ctx.JSON(http.StatusOK, prj)
}

func (api *projectApi) update(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	var data project.UpdateProject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProject")
	}
	prj, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating project")
	}
	return ctx.JSON(http.StatusOK, prj)
}

func (api *projectApi) destroy(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id, queryConfirm(ctx)); err != nil {
		return errors.Wrap(err, "deleting project")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *projectApi) submit(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	f, closeFile, err := uploadedFile(ctx)
	if err != nil {
		return err
	}
	defer closeFile()

	prj, err := api.svc.RecordSubmission(ctx.Request().Context(), id, sess.Username, f)
	if err != nil {
		return errors.Wrap(err, "recording submission")
	}
	return ctx.JSON(http.StatusCreated, prj)
}

func (api *projectApi) submissionFile(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	student := ctx.Param("student")
	if !sess.IsTeacher() && sess.Username != student {
		return errHttpForbidden
	}

	prj, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting project")
	}
	sub, ok := prj.SubmissionBy(student)
	if !ok {
		return errHttpNotFound
	}
	return sendPayload(ctx, sub.FileName, sub.FileData)
}

// Helpers

func projectID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

// queryConfirm confirms destructive operations called with `?confirm=true`.
func queryConfirm(ctx echo.Context) core.ConfirmFunc {
	return func(string) bool {
		ok, _ := strconv.ParseBool(ctx.QueryParam(confirmParam))
		return ok
	}
}

// uploadedFile returns the multipart "file" field, or nil when none was sent.
func uploadedFile(ctx echo.Context) (*payload.File, func(), error) {
	noop := func() {}
	fh, err := ctx.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, core.NewIOError("reading upload", err)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, noop, core.NewIOError("opening "+fh.Filename, err)
	}
	return &payload.File{
		Name:    fh.Filename,
		Type:    fh.Header.Get(echo.HeaderContentType),
		Content: src,
	}, func() { _ = src.Close() }, nil
}

// sendPayload decodes an embedded file and serves it as an attachment.
func sendPayload(ctx echo.Context, name, dataURL string) error {
	ct, content, err := payload.Decode(dataURL)
	if err != nil {
		return errors.Wrap(err, "decoding payload")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(name))
	return ctx.Blob(http.StatusOK, ct, content)
}
