package main

import (
	"context"

	"github.com/trezcool/classtrack/storage/database"
)

var (
	createDBFunc = database.CreateIfNotExist // mockable
	openDBFunc   = database.Open             // mockable
	gooseRunFunc = database.Run              // mockable
)

func (cli *commandLine) migrate(args []string) error {
	ctx := context.Background()
	if err := createDBFunc(ctx, cli.conf); err != nil {
		return err
	}
	db, err := openDBFunc(ctx, cli.conf)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	return gooseRunFunc(args[0], db, args[1:]...)
}
