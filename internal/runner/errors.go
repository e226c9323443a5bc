package runner

import (
	"fmt"
	"strings"
	"time"
)

// CommandNotFoundError reports that an executable could not be resolved on PATH.
// Root resolution failures are the only unconditionally fatal crawl error.
type CommandNotFoundError struct {
	Cmd string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Cmd)
}

// CaptureTimeoutError reports that a command invocation exceeded its
// wall-clock timeout. This is always a per-node, non-fatal condition.
type CaptureTimeoutError struct {
	Argv    []string
	Timeout time.Duration
}

func (e *CaptureTimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s: %s", e.Timeout, strings.Join(e.Argv, " "))
}
