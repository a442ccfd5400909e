package main

import (
	"os"

	"github.com/0x0918/sstan/internal/app"
)

func main() {
	if err := app.BuildRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
