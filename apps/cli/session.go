package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core/session"
)

func (cli *commandLine) login(role, uname, pwd string) error {
	sess, err := cli.sessSvc.Login(context.Background(), session.Credentials{
		Role:     role,
		Username: uname,
		Password: pwd,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s)\n", sess.Username, sess.Role)
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.sessSvc.Logout(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	sess, err := cli.current()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(cli.out, "Not logged in")
			return nil
		}
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s)\n", sess.Username, sess.Role)
	return nil
}
