// Package runner executes external commands and captures their help and
// version output. Invocations run with pagers disabled and a deterministic
// locale, and captured text has ANSI escape sequences stripped.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

var (
	ansiRe    = regexp.MustCompile(`\x1b\[[0-9;]*[mK]`)
	versionRe = regexp.MustCompile(`(v?\d+\.\d+(?:\.\d+){0,2}(?:[-+A-Za-z0-9.]*)?)`)
)

// Help invocation formats for subcommands. Most tools accept
// "tool sub --help"; some only respond to one of the alternatives.
const (
	FormatSubcommandHelp = "subcommand-help" // tool sub --help
	FormatHelpSubcommand = "help-subcommand" // tool --help sub
	FormatToolSubcommand = "tool-subcommand" // tool sub
	FormatSubcommandOnly = "subcommand-only" // sub
)

// versionFlagCandidates are tried in order by TryVersion.
var versionFlagCandidates = []string{"--version", "-v"}

// Runner captures output from external commands. A Runner is constructed
// once per crawl and is safe for use by concurrent workers.
type Runner struct {
	Timeout    time.Duration
	Env        map[string]string // overlaid on the base environment
	Dir        string
	HelpFlags  []string
	HelpFormat string
	Log        *log.Logger

	timeouts atomic.Int64
}

// New creates a Runner with the default help flag order.
func New(timeout time.Duration) *Runner {
	return &Runner{
		Timeout:    timeout,
		HelpFlags:  []string{"--help", "-h", "help"},
		HelpFormat: FormatSubcommandHelp,
		Log:        log.Default(),
	}
}

// Which resolves a command name on PATH.
func (r *Runner) Which(cmd string) (string, error) {
	path, err := exec.LookPath(cmd)
	if err != nil {
		return "", &CommandNotFoundError{Cmd: cmd}
	}
	return path, nil
}

// Capture runs argv and returns its output and exit code. Stdout is
// preferred; stderr is used when stdout is empty. The result is trimmed
// and has ANSI escape codes stripped. Exceeding the timeout returns a
// CaptureTimeoutError.
func (r *Runner) Capture(argv []string) (string, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir

	// Disable pagers and force a deterministic locale, then overlay
	// caller-supplied variables.
	env := os.Environ()
	env = append(env, "PAGER=cat", "MANPAGER=cat", "LC_ALL=C")
	for k, v := range r.Env {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		r.timeouts.Add(1)
		return "", -1, &CaptureTimeoutError{Argv: append([]string(nil), argv...), Timeout: r.Timeout}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// Start failures (binary vanished, permission denied).
			return "", -1, err
		}
	}

	out := stdout.String()
	if out == "" && stderr.Len() > 0 {
		out = stderr.String()
	}
	return strings.TrimSpace(StripANSI(out)), exitCode, nil
}

// TryHelp tries each candidate help flag against commandPath (binary plus
// subcommand tokens) and returns the first non-empty output. Timeouts and
// exec failures are absorbed: producing no help text is not an error here,
// so the result is simply empty.
func (r *Runner) TryHelp(commandPath []string) (string, int) {
	r.Log.Debug("invoking help", "command", strings.Join(commandPath, " "))

	for _, argv := range r.helpInvocations(commandPath) {
		out, code, err := r.Capture(argv)
		if err != nil {
			var timeoutErr *CaptureTimeoutError
			if errors.As(err, &timeoutErr) {
				r.Log.Warn("help capture timed out", "command", strings.Join(argv, " "), "timeout", r.Timeout)
			} else {
				r.Log.Debug("help capture failed", "command", strings.Join(argv, " "), "err", err)
			}
			continue
		}
		if out != "" {
			return out, code
		}
	}
	return "", 1
}

// helpInvocations builds the candidate argv lists for one command path.
// The root command always uses the default format; subcommands honor the
// configured HelpFormat.
func (r *Runner) helpInvocations(commandPath []string) [][]string {
	base := commandPath[0]
	subs := commandPath[1:]

	if len(subs) == 0 || r.HelpFormat == FormatSubcommandHelp || r.HelpFormat == "" {
		// tool sub --help
		argvs := make([][]string, 0, len(r.HelpFlags))
		for _, hf := range r.HelpFlags {
			argvs = append(argvs, appendArg(commandPath, hf))
		}
		return argvs
	}

	switch r.HelpFormat {
	case FormatHelpSubcommand:
		// tool --help sub
		argvs := make([][]string, 0, len(r.HelpFlags))
		for _, hf := range r.HelpFlags {
			argv := append([]string{base, hf}, subs...)
			argvs = append(argvs, argv)
		}
		return argvs
	case FormatToolSubcommand:
		// tool sub, no help flag; a single attempt
		return [][]string{append([]string(nil), commandPath...)}
	case FormatSubcommandOnly:
		// sub, no tool prefix and no help flag
		return [][]string{append([]string(nil), subs...)}
	default:
		argvs := make([][]string, 0, len(r.HelpFlags))
		for _, hf := range r.HelpFlags {
			argvs = append(argvs, appendArg(commandPath, hf))
		}
		return argvs
	}
}

func appendArg(argv []string, arg string) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv...)
	return append(out, arg)
}

// TryVersion tries the version flag candidates and extracts a version
// number from the first line of output. Returns "" when nothing matches;
// a missing version is not an error.
func (r *Runner) TryVersion(commandPath []string) string {
	r.Log.Debug("checking version", "command", strings.Join(commandPath, " "))
	for _, vf := range versionFlagCandidates {
		out, _, err := r.Capture(appendArg(commandPath, vf))
		if err != nil || out == "" {
			continue
		}
		firstLine := out
		if i := strings.IndexByte(out, '\n'); i >= 0 {
			firstLine = out[:i]
		}
		if v := ExtractVersion(firstLine); v != "" {
			r.Log.Debug("found version", "version", v)
			return v
		}
	}
	return ""
}

// Timeouts returns the number of capture timeouts observed so far.
func (r *Runner) Timeouts() int {
	return int(r.timeouts.Load())
}

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// ExtractVersion returns the first version-looking token in text, with a
// leading "v" removed when the remainder is purely numeric (v1.2.3 -> 1.2.3).
func ExtractVersion(text string) string {
	m := versionRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	v := m[1]
	if strings.HasPrefix(v, "v") && isNumericVersion(v[1:]) {
		return v[1:]
	}
	return v
}

func isNumericVersion(s string) bool {
	for _, c := range strings.ReplaceAll(s, ".", "") {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
