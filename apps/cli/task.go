package main

import (
	"context"
	"fmt"

	"github.com/trezcool/classtrack/core/project"
)

func (cli *commandLine) createTask(projectID int64, nt project.NewTask) error {
	sess, err := cli.current()
	if err != nil {
		return err
	}
	task, err := cli.prjSvc.CreateTask(context.Background(), projectID, sess, nt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created task %s %q for %s\n", task.ID, task.Title, task.AssignedTo)
	return nil
}

func (cli *commandLine) updateTask(projectID int64, taskID string, upd project.UpdateTask) error {
	if _, err := cli.requireTeacher(); err != nil {
		return err
	}
	task, err := cli.prjSvc.UpdateTask(context.Background(), projectID, taskID, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated task %s %q for %s\n", task.ID, task.Title, task.AssignedTo)
	return nil
}

func (cli *commandLine) deleteTask(projectID int64, taskID string) error {
	if _, err := cli.requireTeacher(); err != nil {
		return err
	}
	if err := cli.prjSvc.DeleteTask(context.Background(), projectID, taskID, cli.confirm); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted task %s\n", taskID)
	return nil
}

func (cli *commandLine) submitTask(projectID int64, taskID, path string) error {
	sess, err := cli.current()
	if err != nil {
		return err
	}
	f, closeFile, err := openFile(path)
	if err != nil {
		return err
	}
	defer closeFile()

	task, err := cli.prjSvc.SubmitTask(context.Background(), projectID, taskID, sess, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Submitted %s for task %q\n", task.FileName.String, task.Title)
	return nil
}
