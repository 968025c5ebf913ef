package main

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		verbose, quiet bool
		want           log.Level
	}{
		{false, false, log.InfoLevel},
		{true, false, log.DebugLevel},
		{false, true, log.WarnLevel},
	}
	for _, tt := range tests {
		if got := logLevel(tt.verbose, tt.quiet); got != tt.want {
			t.Errorf("logLevel(%v, %v) = %v, want %v", tt.verbose, tt.quiet, got, tt.want)
		}
	}
}
