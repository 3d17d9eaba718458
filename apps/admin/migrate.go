package main

import (
	"github.com/trezcool/classlog/storage/database"
)

func (cli *commandLine) migrate() error {
	if err := database.CreateIfNotExist(cli.conf); err != nil {
		return err
	}
	if err := cli.connect(); err != nil {
		return err
	}
	return database.Migrate(cli.db.DB)
}
