package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"sourced/internal/common/envutil"
)

// DefaultConfig reads defaults from the environment.
func DefaultConfig() *Config {
	return &Config{
		Server: envutil.Str("SOURCECTL_SERVER", "http://127.0.0.1:8080"),
		Output: envutil.Str("SOURCECTL_OUTPUT", "text"),
		LogLvl: envutil.Str("SOURCECTL_LOG_LEVEL", "warn"),
	}
}

// MainWithArgs runs sourcectl with explicit args and writers. It returns an
// exit code: 0 on success, 2 without a command, 3 for daemon errors and 1
// otherwise.
func MainWithArgs(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_ = runWith(context.Background(), DefaultConfig(), []string{"--help"}, stdout)
		return 2
	}
	if err := runWith(context.Background(), DefaultConfig(), args, stdout); err != nil {
		fmt.Fprintln(stderr, err.Error())
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return 3
		}
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/sourcectl.
func Main() int { return MainWithArgs(os.Args[1:], os.Stdout, os.Stderr) }
