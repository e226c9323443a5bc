// Package review implements the interactive checkpoint between parsing the
// root command and crawling its subcommands. The user can correct the
// discovered subcommand list before the crawl spends time and model calls
// on it.
package review

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReparseFunc re-runs the root parse with the discovery-emphasized prompt
// and returns the freshly discovered subcommand names.
type ReparseFunc func() ([]string, error)

// Subcommands runs the review loop over the discovered subcommand names of
// rootCmd, reading commands from in and writing prompts to out. It returns
// the corrected list, sorted and deduplicated. A read error or EOF ends the
// loop as if the user chose continue.
func Subcommands(in io.Reader, out io.Writer, rootCmd string, discovered []string, reparse ReparseFunc) []string {
	current := dedupe(discovered)

	fmt.Fprintf(out, "Discovered %d subcommand(s) for %s:\n", len(current), rootCmd)
	printList(out, current)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "[c]ontinue, [a]dd <names>, [r]emove <names>, [e] re-parse, [p]rint: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return current
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		verb, args := strings.ToLower(fields[0]), fields[1:]

		switch verb {
		case "c", "continue":
			return current

		case "a", "add":
			if len(args) == 0 {
				fmt.Fprintln(out, "usage: a <name> [name...]")
				continue
			}
			current = dedupe(append(current, args...))
			printList(out, current)

		case "r", "remove":
			if len(args) == 0 {
				fmt.Fprintln(out, "usage: r <name> [name...]")
				continue
			}
			drop := map[string]bool{}
			for _, name := range args {
				drop[name] = true
			}
			kept := current[:0]
			for _, name := range current {
				if !drop[name] {
					kept = append(kept, name)
				}
			}
			current = kept
			printList(out, current)

		case "e", "reparse":
			if reparse == nil {
				fmt.Fprintln(out, "re-parse not available")
				continue
			}
			fmt.Fprintln(out, "re-parsing with emphasis on subcommand discovery...")
			names, err := reparse()
			if err != nil {
				fmt.Fprintf(out, "re-parse failed: %v\n", err)
				continue
			}
			// Union with the user's current list so manual additions survive.
			current = dedupe(append(current, names...))
			printList(out, current)

		case "p", "print":
			printList(out, current)

		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
		}
	}
}

func printList(out io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
}

func dedupe(names []string) []string {
	seen := map[string]bool{}
	uniq := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		uniq = append(uniq, name)
	}
	sort.Strings(uniq)
	return uniq
}
