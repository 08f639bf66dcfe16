// Command cfo tracks crypto portfolios from the command line.
//
// Run "cfo help" for the list of commands. Shell completion is installed with
// COMP_INSTALL=1 cfo. An unknown command runs the cfo-<command> executable
// found in the PATH.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cryptofolio/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	cmd.Completion(flag.CommandLine).Complete(name)

	flag.Parse()
	if name := flag.Arg(0); name != "" && !cmd.IsCommand(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
