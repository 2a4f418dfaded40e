package main

import (
	"os"

	"github.com/habitrack/habit-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
