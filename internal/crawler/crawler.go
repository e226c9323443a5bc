// Package crawler walks the subcommand hierarchy of an executable and
// assembles structured documentation for every discovered command.
//
// Discovery is breadth-first in bounded waves: each wave dispatches up to
// Concurrency queued nodes to workers and joins all of them before the next
// wave starts, so children discovered in wave N only become candidates in
// wave N+1. The scheduler loop is the sole owner of the work queue, the
// visited set, and the diagnostics counters; workers report back over a
// channel and never touch shared state.
package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cmdsaw/cmdsaw/internal/config"
	"github.com/cmdsaw/cmdsaw/internal/parsecache"
	"github.com/cmdsaw/cmdsaw/internal/parser"
	"github.com/cmdsaw/cmdsaw/internal/schema"
	"github.com/cmdsaw/cmdsaw/internal/transcript"
)

// HelpRunner is the slice of process-runner behavior the crawler needs.
// *runner.Runner implements it; tests substitute a fake.
type HelpRunner interface {
	Which(cmd string) (string, error)
	TryHelp(commandPath []string) (string, int)
	TryVersion(commandPath []string) string
	Timeouts() int
}

// Crawler discovers and documents a command tree.
type Crawler struct {
	Runner      HelpRunner
	Client      parser.Client
	Cache       *parsecache.Cache // nil disables memoization
	Transcript  *transcript.Recorder
	MaxDepth    int
	Concurrency int
	Retries     int
	Log         *log.Logger

	// OnWave, when set, observes the paths dispatched in each wave.
	// Used by tests to verify wave boundaries.
	OnWave func(paths []string)

	// ReviewRoot, when set, can correct the root's discovered subcommand
	// list before any crawling starts. It receives the parsed root doc and
	// a re-parse function running the discovery-emphasized prompt; its
	// return value replaces the root's subcommand list. Re-parse results
	// are never cached.
	ReviewRoot func(doc *schema.CommandDoc, reparse func() ([]string, error)) []string
}

// New creates a Crawler with configured defaults.
func New(r HelpRunner, c parser.Client) *Crawler {
	cfg := config.Get()
	return &Crawler{
		Runner:      r,
		Client:      c,
		MaxDepth:    cfg.MaxDepth,
		Concurrency: cfg.Concurrency,
		Retries:     cfg.Retries,
		Log:         log.Default(),
	}
}

// workItem is one queued (path, depth) pair awaiting processing.
type workItem struct {
	path  string
	depth int
}

// nodeResult is what a worker reports back to the scheduler.
type nodeResult struct {
	path    string
	depth   int
	doc     *schema.CommandDoc
	retries int
	warning string
	err     error // cache I/O only; anything else degrades instead
}

// BuildTree inspects rootCmd and every reachable subcommand up to MaxDepth.
// It returns the aggregated result plus the flattened doc list (root first,
// then all other nodes sorted by path).
//
// Only two failures are fatal: the root executable not resolving, and cache
// storage I/O errors. Everything else degrades per node.
func (cr *Crawler) BuildTree(ctx context.Context, rootCmd string) (*schema.Result, []*schema.CommandDoc, error) {
	binPath, err := cr.Runner.Which(rootCmd)
	if err != nil {
		return nil, nil, err
	}
	cr.Log.Info("resolved root command", "command", rootCmd, "path", binPath)

	diag := &schema.Diagnostics{Warnings: []string{}}

	helpText, _ := cr.Runner.TryHelp([]string{binPath})
	version := cr.Runner.TryVersion([]string{binPath})
	diag.VersionExtracted = version != ""
	cr.record(rootCmd, helpText)

	rootDoc, retries, degraded, err := cr.parseNode(ctx, rootCmd, version, helpText)
	if err != nil {
		return nil, nil, err
	}
	diag.LLMRetries += retries
	if degraded {
		diag.Warnings = append(diag.Warnings, fmt.Sprintf("%s: parse degraded after %d retries", rootCmd, cr.Retries))
	}

	if cr.ReviewRoot != nil {
		reparse := func() ([]string, error) {
			doc, _, reparseDegraded := parser.ParseWithEmphasis(ctx, cr.Client, rootCmd, helpText, cr.Retries)
			if reparseDegraded {
				return nil, fmt.Errorf("emphasized re-parse of %s did not produce a valid doc", rootCmd)
			}
			return doc.Subcommands, nil
		}
		rootDoc.Subcommands = cr.ReviewRoot(rootDoc, reparse)
	}

	if len(rootDoc.Subcommands) > 0 {
		cr.Log.Info("discovered root subcommands", "count", len(rootDoc.Subcommands))
	} else {
		cr.Log.Info("no subcommands discovered in root")
	}

	visited := map[string]bool{rootCmd: true}
	queue := make([]workItem, 0, len(rootDoc.Subcommands))
	for _, name := range rootDoc.Subcommands {
		queue = append(queue, workItem{path: rootCmd + " " + name, depth: 1})
	}

	subdocs := make(map[string]*schema.CommandDoc)

	for len(queue) > 0 {
		// Drain up to Concurrency dispatchable items. Visited paths and
		// over-depth items are consumed and skipped, never dispatched.
		batch := make([]workItem, 0, cr.Concurrency)
		for len(queue) > 0 && len(batch) < cr.Concurrency {
			item := queue[0]
			queue = queue[1:]
			if visited[item.path] || item.depth > cr.MaxDepth {
				continue
			}
			visited[item.path] = true
			batch = append(batch, item)
		}
		if len(batch) == 0 {
			continue
		}

		if cr.OnWave != nil {
			paths := make([]string, len(batch))
			for i, item := range batch {
				paths[i] = item.path
			}
			cr.OnWave(paths)
		}

		results := make(chan nodeResult, len(batch))
		for _, item := range batch {
			go cr.process(ctx, item, version, results)
		}

		// Full join: every worker in the wave reports before new work
		// starts, keeping the breadth-first layering intact.
		for i := 0; i < len(batch); i++ {
			res := <-results
			if res.err != nil {
				return nil, nil, res.err
			}
			subdocs[res.path] = res.doc
			diag.VisitedCommands++
			diag.LLMRetries += res.retries
			if res.warning != "" {
				diag.Warnings = append(diag.Warnings, res.warning)
			}
			for _, child := range res.doc.Subcommands {
				queue = append(queue, workItem{path: res.path + " " + child, depth: res.depth + 1})
			}
		}
	}

	diag.Timeouts = cr.Runner.Timeouts()

	tool, all := aggregate(rootCmd, binPath, version, helpText, rootDoc, subdocs)
	result := &schema.Result{
		SchemaVersion: schema.SchemaVersion,
		Tool:          tool,
		Diagnostics:   diag,
	}
	return result, all, nil
}

// process handles one node: resolve its binary, capture help text, and run
// the cache-then-parse protocol. Sub-binary resolution failures degrade the
// node rather than aborting the wave; root resolution already succeeded, so
// a failure here means the environment changed mid-crawl.
func (cr *Crawler) process(ctx context.Context, item workItem, version string, results chan<- nodeResult) {
	cr.Log.Debug("processing subcommand", "path", item.path, "depth", item.depth)

	parts := strings.Fields(item.path)
	bin, err := cr.Runner.Which(parts[0])
	if err != nil {
		results <- nodeResult{
			path:    item.path,
			depth:   item.depth,
			doc:     parser.FallbackDoc(item.path, ""),
			warning: fmt.Sprintf("%s: %v", item.path, err),
		}
		return
	}

	argv := append([]string{bin}, parts[1:]...)
	helpText, _ := cr.Runner.TryHelp(argv)
	cr.record(item.path, helpText)

	doc, retries, degraded, err := cr.parseNode(ctx, item.path, version, helpText)
	if err != nil {
		results <- nodeResult{path: item.path, err: err}
		return
	}

	warning := ""
	if degraded {
		warning = fmt.Sprintf("%s: parse degraded after %d retries", item.path, cr.Retries)
	}
	results <- nodeResult{
		path:    item.path,
		depth:   item.depth,
		doc:     doc,
		retries: retries,
		warning: warning,
	}
}

// parseNode runs the cache-then-parse protocol for one command. Cache I/O
// errors are fatal; parser failures degrade into a fallback doc. Fresh
// successful parses are written back to the cache, degraded ones are not.
func (cr *Crawler) parseNode(ctx context.Context, commandPath, version, helpText string) (*schema.CommandDoc, int, bool, error) {
	if cr.Cache != nil {
		doc, ok, err := cr.Cache.Get(commandPath, version, cr.Client.Model(), helpText)
		if err != nil {
			return nil, 0, false, err
		}
		if ok {
			cr.Log.Debug("cache hit", "path", commandPath)
			return doc, 0, false, nil
		}
		cr.Log.Debug("cache miss", "path", commandPath)
	}

	doc, retries, degraded := parser.Parse(ctx, cr.Client, commandPath, helpText, cr.Retries)

	if cr.Cache != nil && !degraded {
		if err := cr.Cache.Set(commandPath, version, cr.Client.Model(), helpText, doc); err != nil {
			return nil, retries, degraded, err
		}
	}
	return doc, retries, degraded, nil
}

func (cr *Crawler) record(commandPath, helpText string) {
	if cr.Transcript == nil {
		return
	}
	if err := cr.Transcript.Record(commandPath, helpText); err != nil {
		cr.Log.Warn("transcript write failed", "path", commandPath, "err", err)
	}
}

func nowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}
