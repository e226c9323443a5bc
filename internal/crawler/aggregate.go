package crawler

import (
	"sort"

	"github.com/cmdsaw/cmdsaw/internal/schema"
)

// aggregate assembles the final ToolDoc from the root doc and the per-path
// subcommand docs, and flattens everything into one deterministic list.
//
// Output ordering is independent of crawl scheduling: the tool's direct
// children and the flattened list are both sorted lexicographically by path,
// with the root always first in the flattened list.
func aggregate(rootCmd, binPath, version, helpText string, rootDoc *schema.CommandDoc, subdocs map[string]*schema.CommandDoc) (*schema.ToolDoc, []*schema.CommandDoc) {
	paths := make([]string, 0, len(subdocs))
	for p := range subdocs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	direct := make([]*schema.CommandDoc, 0, len(rootDoc.Subcommands))
	all := make([]*schema.CommandDoc, 0, len(subdocs)+1)
	all = append(all, rootDoc)
	for _, p := range paths {
		doc := subdocs[p]
		all = append(all, doc)
		if doc.Depth() == 1 {
			direct = append(direct, doc)
		}
	}

	tool := &schema.ToolDoc{
		Command:     rootCmd,
		Version:     version,
		HelpText:    helpText,
		Invocation:  []string{binPath},
		Options:     rootDoc.Options,
		Positionals: rootDoc.Positionals,
		Subcommands: direct,
		CapturedAt:  nowISO(),
	}
	return tool, all
}
