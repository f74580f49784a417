package main

import (
	"fmt"

	"github.com/SRMV-Team/Online-Tutor-Backend/storage/database"
)

func (cli *commandLine) migrate(args []string) error {
	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}
	switch direction {
	case "up":
		return database.Migrate(cli.db.DB)
	case "down":
		return database.Rollback(cli.db.DB)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
}
