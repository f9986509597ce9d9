package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core/project"
)

func (api *projectApi) createTask(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data project.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}

	task, err := api.svc.CreateTask(ctx.Request().Context(), id, sess, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, task)
}

func (api *projectApi) updateTask(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	var data project.UpdateTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}

	task, err := api.svc.UpdateTask(ctx.Request().Context(), id, ctx.Param("taskId"), data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, task)
}

func (api *projectApi) destroyTask(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteTask(ctx.Request().Context(), id, ctx.Param("taskId"), queryConfirm(ctx)); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *projectApi) submitTask(ctx echo.Context) error {
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

	task, err := api.svc.SubmitTask(ctx.Request().Context(), id, ctx.Param("taskId"), sess, f)
	if err != nil {
		return errors.Wrap(err, "submitting task")
	}
	return ctx.JSON(http.StatusOK, task)
}

func (api *projectApi) taskFile(ctx echo.Context) error {
	id, err := projectID(ctx)
	if err != nil {
		return err
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	prj, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting project")
	}
	idx := prj.TaskIndex(ctx.Param("taskId"))
	if idx < 0 {
		return project.ErrTaskNotFound
	}
	task := prj.Tasks[idx]
	if !sess.IsTeacher() && sess.Username != task.AssignedTo && sess.Username != task.SubmittedBy.String {
		return errHttpForbidden
	}
	if !task.IsSubmitted() || !task.FileData.Valid {
		return errHttpNotFound
	}
	return sendPayload(ctx, task.FileName.String, task.FileData.String)
}
