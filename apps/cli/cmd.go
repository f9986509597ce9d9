package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/core/project"
	"github.com/trezcool/classtrack/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	readConfirmFunc  = readConfirm       // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	sessSvc *session.Service
	prjSvc  *project.Service
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -role teacher|student -username NAME - open a session (the password is prompted next)")
	fmt.Fprintln(cli.out, "  logout - close the current session")
	fmt.Fprintln(cli.out, "  whoami - print the current session")
	fmt.Fprintln(cli.out, "  projects - list projects")
	fmt.Fprintln(cli.out, "  project-create -title TITLE -subject SUBJECT -deadline YYYY-MM-DD -group GROUP_ID")
	fmt.Fprintln(cli.out, "  project-update -id ID -title TITLE -subject SUBJECT -deadline YYYY-MM-DD -group GROUP_ID")
	fmt.Fprintln(cli.out, "  project-delete -id ID")
	fmt.Fprintln(cli.out, "  submit -id ID -file PATH - submit a project file")
	fmt.Fprintln(cli.out, "  task-create -project ID -title TITLE -assignee STUDENT")
	fmt.Fprintln(cli.out, "  task-update -project ID -task TASK_ID -title TITLE -assignee STUDENT")
	fmt.Fprintln(cli.out, "  task-delete -project ID -task TASK_ID")
	fmt.Fprintln(cli.out, "  task-submit -project ID -task TASK_ID -file PATH")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "login":
		return cli.runLogin(args[2:])
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	case "projects":
		return cli.listProjects()
	case "project-create":
		return cli.runProjectCreate(args[2:])
	case "project-update":
		return cli.runProjectUpdate(args[2:])
	case "project-delete":
		return cli.runProjectDelete(args[2:])
	case "submit":
		return cli.runSubmit(args[2:])
	case "task-create":
		return cli.runTaskCreate(args[2:])
	case "task-update":
		return cli.runTaskUpdate(args[2:])
	case "task-delete":
		return cli.runTaskDelete(args[2:])
	case "task-submit":
		return cli.runTaskSubmit(args[2:])
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) runLogin(args []string) error {
	cmd := cli.flagSet("login")
	role := cmd.String("role", "", "teacher or student")
	uname := cmd.String("username", "", "The username or email. The password will be prompted next.")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *role == "" || *uname == "" {
		cmd.Usage()
		return errHelp
	}
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	return cli.login(*role, *uname, string(pwd))
}

func (cli *commandLine) runProjectCreate(args []string) error {
	cmd := cli.flagSet("project-create")
	np := projectFlags(cmd)
	if err := parse(cmd, args); err != nil {
		return err
	}
	return cli.createProject(*np)
}

func (cli *commandLine) runProjectUpdate(args []string) error {
	cmd := cli.flagSet("project-update")
	id := cmd.Int64("id", 0, "The project id")
	np := projectFlags(cmd)
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *id == 0 {
		cmd.Usage()
		return errHelp
	}
	return cli.updateProject(*id, project.UpdateProject(*np))
}

func (cli *commandLine) runProjectDelete(args []string) error {
	cmd := cli.flagSet("project-delete")
	id := cmd.Int64("id", 0, "The project id")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *id == 0 {
		cmd.Usage()
		return errHelp
	}
	return cli.deleteProject(*id)
}

func (cli *commandLine) runSubmit(args []string) error {
	cmd := cli.flagSet("submit")
	id := cmd.Int64("id", 0, "The project id")
	path := cmd.String("file", "", "The file to submit")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *id == 0 {
		cmd.Usage()
		return errHelp
	}
	return cli.submitProject(*id, *path)
}

func (cli *commandLine) runTaskCreate(args []string) error {
	cmd := cli.flagSet("task-create")
	pid := cmd.Int64("project", 0, "The project id")
	nt := taskFlags(cmd)
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *pid == 0 {
		cmd.Usage()
		return errHelp
	}
	return cli.createTask(*pid, *nt)
}

func (cli *commandLine) runTaskUpdate(args []string) error {
	cmd := cli.flagSet("task-update")
	pid := cmd.Int64("project", 0, "The project id")
	taskID := cmd.String("task", "", "The task id")
	nt := taskFlags(cmd)
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *pid == 0 || *taskID == "" {
		cmd.Usage()
		return errHelp
	}
	return cli.updateTask(*pid, *taskID, project.UpdateTask(*nt))
}

func (cli *commandLine) runTaskDelete(args []string) error {
	cmd := cli.flagSet("task-delete")
	pid := cmd.Int64("project", 0, "The project id")
	taskID := cmd.String("task", "", "The task id")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *pid == 0 || *taskID == "" {
		cmd.Usage()
		return errHelp
	}
	return cli.deleteTask(*pid, *taskID)
}

func (cli *commandLine) runTaskSubmit(args []string) error {
	cmd := cli.flagSet("task-submit")
	pid := cmd.Int64("project", 0, "The project id")
	taskID := cmd.String("task", "", "The task id")
	path := cmd.String("file", "", "The file to submit")
	if err := parse(cmd, args); err != nil {
		return err
	}
	if *pid == 0 || *taskID == "" {
		cmd.Usage()
		return errHelp
	}
	return cli.submitTask(*pid, *taskID, *path)
}

func projectFlags(cmd *flag.FlagSet) *project.NewProject {
	var np project.NewProject
	cmd.StringVar(&np.Title, "title", "", "The project title")
	cmd.StringVar(&np.Subject, "subject", "", "The subject")
	cmd.StringVar(&np.Deadline, "deadline", "", "The deadline (YYYY-MM-DD)")
	cmd.StringVar(&np.GroupID, "group", "", "The group id")
	return &np
}

func taskFlags(cmd *flag.FlagSet) *project.NewTask {
	var nt project.NewTask
	cmd.StringVar(&nt.Title, "title", "", "The task title")
	cmd.StringVar(&nt.AssignedTo, "assignee", "", "The assigned student")
	return &nt
}

// confirm prompts on the CLI output and reads the answer with readConfirmFunc.
func (cli *commandLine) confirm(prompt string) bool {
	fmt.Fprintf(cli.out, "%s [y/N]: ", prompt)
	return readConfirmFunc()
}

func readConfirm() bool {
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (cli *commandLine) current() (session.Session, error) {
	return cli.sessSvc.Current(context.Background())
}

func (cli *commandLine) requireTeacher() (session.Session, error) {
	sess, err := cli.current()
	if err != nil {
		return sess, err
	}
	if !sess.IsTeacher() {
		return sess, core.NewPermissionError("only teachers can manage projects and tasks")
	}
	return sess, nil
}
