// Package envutil reads typed defaults from the environment.
package envutil

import (
	"os"
	"strconv"
	"strings"
)

// Str returns the value of key, or def when unset or empty.
func Str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Bool treats 1, true and yes (any case) as true.
func Bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	s := strings.ToLower(v)
	return s == "1" || s == "true" || s == "yes"
}

// Int returns def when key is unset or not an integer.
func Int(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}
