package cmd

import (
	"flag"
	"slices"
	"testing"
)

func TestCompletion(t *testing.T) {
	global := flag.NewFlagSet("cfo", flag.ContinueOnError)
	global.String("config", "", "")
	global.String("data-dir", "", "")
	global.Bool("plain", false, "")

	c := Completion(global)
	for _, g := range groups {
		for _, cmd := range g.commands {
			if _, ok := c.Sub[cmd.Name()]; !ok {
				t.Errorf("no completion for %q", cmd.Name())
			}
		}
	}
	if _, ok := c.Flags["data-dir"]; !ok {
		t.Errorf("no completion for the global flag -data-dir")
	}

	testCases := []struct {
		command string
		flag    string
		want    string
	}{
		{"tx", "type", "BUY"},
		{"tx", "type", "transfer_deposit"},
		{"candles", "interval", "daily"},
	}
	for _, tc := range testCases {
		p, ok := c.Sub[tc.command].Flags[tc.flag]
		if !ok {
			t.Errorf("%s: no completion for -%s", tc.command, tc.flag)
			continue
		}
		if got := p.Predict(""); !slices.Contains(got, tc.want) {
			t.Errorf("%s -%s predicts %v, want %q among them", tc.command, tc.flag, got, tc.want)
		}
	}

	if got := c.Sub["topic"].Args.Predict(""); !slices.Contains(got, "pnl") {
		t.Errorf("topic predicts %v, want pnl among them", got)
	}

	if got := c.Sub["coins"].Flags["remote"].Predict(""); len(got) != 0 {
		t.Errorf("coins -remote predicts %v, want nothing", got)
	}
}
