package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/payload"
	"github.com/trezcool/classtrack/core/project"
)

// listProjects prints every project, preceded by the student's summary for students.
func (cli *commandLine) listProjects() error {
	ctx := context.Background()
	sess, err := cli.current()
	if err != nil {
		return err
	}
	projects, err := cli.prjSvc.QueryAll(ctx)
	if err != nil {
		return err
	}

	if sess.IsStudent() {
		sum, err := cli.prjSvc.StudentSummary(ctx, sess.Username)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Projects: %d, submitted: %d\n", sum.Total, sum.Submitted)
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tDEADLINE\tGROUP\tSUBMISSIONS\tTASKS")
	for _, p := range projects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
			p.ID, p.Title, p.Subject, p.Deadline, p.GroupName, len(p.Submissions), len(p.Tasks))
		for _, t := range p.Tasks {
			fmt.Fprintf(w, "\t- %s\t%s\t%s\t%s\t\t\n", t.ID, t.Title, t.AssignedTo, t.Status)
		}
	}
	return w.Flush()
}

func (cli *commandLine) createProject(np project.NewProject) error {
	if _, err := cli.requireTeacher(); err != nil {
		return err
	}
	prj, err := cli.prjSvc.Create(context.Background(), np)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created project %d %q\n", prj.ID, prj.Title)
	return nil
}

func (cli *commandLine) updateProject(id int64, up project.UpdateProject) error {
	if _, err := cli.requireTeacher(); err != nil {
		return err
	}
	prj, err := cli.prjSvc.Update(context.Background(), id, up)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated project %d %q\n", prj.ID, prj.Title)
	return nil
}

func (cli *commandLine) deleteProject(id int64) error {
	if _, err := cli.requireTeacher(); err != nil {
		return err
	}
	if err := cli.prjSvc.Delete(context.Background(), id, cli.confirm); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted project %d\n", id)
	return nil
}

func (cli *commandLine) submitProject(id int64, path string) error {
	sess, err := cli.current()
	if err != nil {
		return err
	}
	if !sess.IsStudent() {
		return core.NewPermissionError("only students can submit projects")
	}

	f, closeFile, err := openFile(path)
	if err != nil {
		return err
	}
	defer closeFile()

	if _, err = cli.prjSvc.RecordSubmission(context.Background(), id, sess.Username, f); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Submitted %s\n", f.Name)
	return nil
}

// openFile returns a nil file for an empty path so that the missing file is reported by the service.
func openFile(path string) (*payload.File, func(), error) {
	noop := func() {}
	if path == "" {
		return nil, noop, nil
	}
	src, err := os.Open(path)
	if err != nil {
		return nil, noop, core.NewIOError("opening "+path, err)
	}
	return &payload.File{Name: filepath.Base(path), Content: src}, func() { _ = src.Close() }, nil
}
