package main

import (
	"os"

	"github.com/taskflow-app/taskflow/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
