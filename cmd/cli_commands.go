package cmd

import (
	"fmt"
	"strings"
)

// cliCommandArg is one argument in a command synopsis.
type cliCommandArg struct {
	name     string
	optional bool
}

// commandDocs documentation info used for help command.
type commandDocs struct {
	name    string
	summary string
	group   string
	since   string
	args    []cliCommandArg
}

var commandDocsTable = []commandDocs{
	{
		name:    "GET",
		summary: "Returns the string value of a key.",
		group:   "string",
		since:   "1.0.0",
		args:    []cliCommandArg{{name: "key"}},
	},
	{
		name:    "SET",
		summary: "Sets the string value of a key.",
		group:   "string",
		since:   "1.0.0",
		args:    []cliCommandArg{{name: "key"}, {name: "value"}},
	},
}

func (d commandDocs) params() string {
	parts := make([]string, 0, len(d.args))
	for _, a := range d.args {
		if a.optional {
			parts = append(parts, "["+a.name+"]")
		} else {
			parts = append(parts, a.name)
		}
	}
	return strings.Join(parts, " ")
}

// help prints the entries matching argv, either a command name or a
// "@group". Without arguments it prints the help banner.
func (cli *RedisCli) help(argv []string) {
	if len(argv) == 0 {
		fmt.Fprintf(cli.out, "redis-cli %s\n", cli.Version())
		fmt.Fprint(cli.out, `To get help about a command:
      "help <command>" for help on <command>
      "help @<group>" to get a list of commands in <group>
      "quit" to exit
`+"\n")
		return
	}

	found := false
	for _, d := range commandDocsTable {
		var match bool
		if group, ok := strings.CutPrefix(argv[0], "@"); ok {
			match = strings.EqualFold(group, d.group)
		} else {
			match = strings.EqualFold(strings.Join(argv, " "), d.name)
		}
		if !match {
			continue
		}
		found = true
		fmt.Fprintf(cli.out, "\n  %s %s\n  summary: %s\n  since: %s\n  group: %s\n",
			d.name, d.params(), d.summary, d.since, d.group)
	}
	if found {
		fmt.Fprintln(cli.out)
	}
}
