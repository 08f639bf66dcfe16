package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors of the flags with known values. Boolean flags take no value;
// other flags take something.
var predictors = map[string]complete.Predictor{
	"config":   predict.Files("*.yaml"),
	"data-dir": predict.Dirs("*"),
	"interval": predict.Set{"hourly", "daily", "weekly", "monthly", "yearly"},
	"type":     transactionTypes(),
}

func transactionTypes() predict.Set {
	var set predict.Set
	for _, t := range cryptofolio.TransactionTypes {
		set = append(set, string(t), strings.ToLower(string(t)))
	}
	return set
}

// flagsOf returns the completion of every flag in fs.
func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		if p, ok := predictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// Completion describes the command line for shell completion: the global flags
// and every subcommand with its flags.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(global),
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	for _, g := range groups {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: flagsOf(fs)}
		}
	}
	if topics, err := docs.Topics(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, docs.Index))
	}
	return root
}
