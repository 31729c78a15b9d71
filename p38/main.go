package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/pit38/pit38/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell completion. Running the binary
// with COMP_LINE set (as bash does during completion) prints candidates
// and exits instead of executing a subcommand.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"dir":      predict.Dirs("*"),
		"lookback": predict.Something,
	},
	Sub: map[string]*complete.Command{
		"compute": {Flags: map[string]complete.Predictor{
			"year":   predict.Something,
			"method": predict.Set{"fifo", "custom"},
			"strict": predict.Nothing,
		}},
		"lots": {Flags: map[string]complete.Predictor{
			"year": predict.Something,
		}},
		"tx": {Flags: map[string]complete.Predictor{
			"year":     predict.Something,
			"category": predict.Something,
		}},
		"rate":   {Flags: map[string]complete.Predictor{"d": predict.Something}},
		"topic":  {Args: predict.Set{"fifo", "custom", "rates", "rounding", "*"}},
		"assist": {},
	},
}

func main() {
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
