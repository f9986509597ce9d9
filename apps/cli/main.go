package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/apps/shared"
	"github.com/trezcool/classtrack/core"
	logsvc "github.com/trezcool/classtrack/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "CLI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	deps, err := shared.Setup(context.Background(), conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	cli := commandLine{
		conf:    conf,
		sessSvc: deps.SessionSvc,
		prjSvc:  deps.ProjectSvc,
		out:     os.Stdout,
	}
	err = cli.run(os.Args)
	_ = deps.Store.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", message(err))
		}
		os.Exit(1)
	}
}

// message renders validation errors with their per-field details.
func message(err error) string {
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	msg := verr.Error()
	for _, f := range verr.Fields {
		msg += fmt.Sprintf("\n  %s: %s", f.Field, f.Error)
	}
	return msg
}
