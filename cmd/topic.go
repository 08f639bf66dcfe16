package cmd

import (
	"context"
	"flag"

	"github.com/etnz/cryptofolio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the documentation" }
func (*topicCmd) Usage() string {
	return `cfo topic [<topic>...]

Print documentation topics. Without argument, print the list of topics.
'*' prints every topic.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := f.Args()
	if len(names) == 0 {
		names = []string{docs.Index}
	}
	md, err := docs.Join(names...)
	if err != nil {
		return fail(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
