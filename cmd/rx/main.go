// Command rx runs the autonomous single-goal agent execution kernel:
// rx "<goal text>" [flags].
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rxkernel/rx/internal/bootstrap"
	"github.com/rxkernel/rx/pkg/config"
)

func main() {
	config.LoadEnv()

	var opts bootstrap.Options
	flag.IntVar(&opts.MaxIterations, "max-iterations", 50, "maximum kernel iterations before terminating")
	flag.StringVar(&opts.Model, "model", "", "override the configured model name")
	flag.BoolVar(&opts.AutoCommit, "auto-commit", false, "commit working-tree changes after every tool call")
	flag.BoolVar(&opts.ToolVerbose, "tool-verbose", false, "print every tool call and its output")
	flag.StringVar(&opts.DebugLogPath, "debug-log", "", "append every event as JSONL to this path")
	flag.StringVar(&opts.Resume, "resume", "", "resume an existing goal by ID instead of starting a new one")
	flag.BoolVar(&opts.List, "list", false, "list recorded goals and exit (requires RX_STORE=sql)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] \"<goal text>\"\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if !opts.List && opts.Resume == "" {
		if flag.NArg() == 0 {
			fmt.Fprintln(os.Stderr, "error: goal text is required (or pass --resume / --list)")
			flag.Usage()
			os.Exit(1)
		}
		opts.GoalText = flag.Arg(0)
		for _, extra := range flag.Args()[1:] {
			opts.GoalText += " " + extra
		}
	}

	os.Exit(bootstrap.Run(context.Background(), opts))
}
