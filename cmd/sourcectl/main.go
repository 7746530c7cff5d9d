package main

import (
	"os"

	"sourced/internal/ctl"
)

func main() { os.Exit(ctl.Main()) }
