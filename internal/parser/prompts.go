package parser

import "fmt"

const systemPrompt = `You convert raw CLI help text into a structured JSON object for one command node.

Rules:
- Output MUST be valid JSON matching the provided schema.
- Do not invent items.
- Types: INT, FLOAT, BOOL, PATH/FILE/DIR -> 'path' or 'str' if unclear.
- Flags have no value.
- Choices from braces or clear prose.
- Positionals ordered from USAGE or headings. Index 0-based.
- Subcommands list immediate child names only.
- Repeatable if stated or shown with '...'.

Return only JSON.
`

// emphasizedPrompt is used by the re-parse path of the subcommand review
// flow, when the first pass looks like it missed children.
const emphasizedPrompt = `You convert raw CLI help text into a structured JSON object for one command node.

Rules:
- Output MUST be valid JSON matching the provided schema.
- Do not invent items.
- Types: INT, FLOAT, BOOL, PATH/FILE/DIR -> 'path' or 'str' if unclear.
- Flags have no value.
- Choices from braces or clear prose.
- Positionals ordered from USAGE or headings. Index 0-based.
- Repeatable if stated or shown with '...'.

CRITICAL: SUBCOMMAND DISCOVERY
Pay special attention to discovering ALL available subcommands:
- Look for sections like "Commands:", "Available Commands:", "Subcommands:", "COMMANDS:"
- Check "Usage:" lines that show command hierarchy
- Include every subcommand name found, even across different sections
- List immediate child subcommand names only (not nested sub-subcommands)

Return only JSON.
`

// validJSONReminder is appended to the user prompt after a validation
// failure before retrying.
const validJSONReminder = "\nReminder: Return ONLY valid JSON matching the CommandDoc schema."

type fewshotExample struct {
	helpText string
	json     string
}

var fewshot = []fewshotExample{
	{
		helpText: "imgkit 1.4.0\n\nUSAGE:\n  imgkit [OPTIONS] <INPUT> [OUTPUT]\n\nOPTIONS:\n  -q, --quality INT           JPEG quality (default: 90)\n      --format {png|jpg|webp} Output format\n  -v, --verbose               Increase verbosity\n\nARGUMENTS:\n  INPUT                        Source file path\n  OUTPUT                       Destination path\n",
		json: `{"name":"imgkit","path":"imgkit","help_text":"imgkit 1.4.0...","options":[{"long":"--quality","short":"-q","is_flag":false,"type":"int","required":false,"default":"90","description":"JPEG quality","repeatable":false},{"long":"--format","is_flag":false,"type":"choice","choices":["png","jpg","webp"],"required":false,"description":"Output format","repeatable":false},{"long":"--verbose","short":"-v","is_flag":true,"type":"bool","required":false,"description":"Increase verbosity","repeatable":true}],"positionals":[{"name":"INPUT","index":0,"variadic":false,"required":true,"type":"path","description":"Source file path"},{"name":"OUTPUT","index":1,"variadic":false,"required":false,"type":"path","description":"Destination path"}],"subcommands":[],"requires_subcommand":false}`,
	},
	{
		helpText: "datactl\n\nManage datasets.\n\nUsage:\n  datactl [command]\n\nAvailable Commands:\n  pull        Download a dataset\n  push        Upload a dataset\n  info        Show dataset info\n\nFlags:\n  -h, --help     help for datactl\n      --profile  Profile name\n",
		json: `{"name":"datactl","path":"datactl","help_text":"datactl...","options":[{"long":"--help","short":"-h","is_flag":true,"type":"bool","required":false,"description":"help for datactl","repeatable":false},{"long":"--profile","is_flag":false,"type":"str","required":false,"description":"Profile name","repeatable":false}],"positionals":[],"subcommands":["pull","push","info"],"requires_subcommand":true}`,
	},
}

// buildSystemPrompt combines the rules with the few-shot examples.
func buildSystemPrompt(base string) string {
	blob := base
	for _, ex := range fewshot {
		blob += fmt.Sprintf("\n### Example help:\n%s\n### Example JSON:\n%s\n", ex.helpText, ex.json)
	}
	return blob
}

// buildUserPrompt formats one command's help text for the model.
func buildUserPrompt(commandPath, helpText string) string {
	return fmt.Sprintf("command_path: %s\n\nhelp_text:\n%s\n", commandPath, helpText)
}
