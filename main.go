package main

import (
	"os"

	"github.com/GoMLSettings/GoMLSettings/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
