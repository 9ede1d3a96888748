// Command numbo is the one-shot CLI solver entrypoint (SPEC_FULL.md §6.3):
// reads a {target, bricks} problem instance from a JSON file or stdin,
// runs it through the Coderack/Slipnet/Cytoplasm engine, and prints the
// result — grounded on cmd/cli/main.go's flag-package usage-string style
// and its golang.org/x/term-gated colorized output, trimmed from a
// multi-command workflow tool down to Numbo's single operation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/smilemakc/numbo/internal/numbo"
	"github.com/smilemakc/numbo/internal/numbo/animation"
)

const usage = `numbo - probabilistic arithmetic solver (Coderack/Slipnet/Cytoplasm)

USAGE:
    numbo [options] [input.json]

    Reads a JSON problem instance {"target": "11", "bricks": ["2","3","5","6"]}
    from input.json, or from stdin if no file is given.

OPTIONS:
    -seed <int>      RNG seed (default: time-seeded, non-reproducible)
    -steps <int>      Step cap before giving up (default: 150)
    -decay <int>      Slipnet decay cadence in steps (default: 10)
    -animate          Print the animation event log alongside the result
    -format <fmt>     Output format: tree, json (default: tree)
`

// problemInput mirrors numbo.Input for JSON decoding.
type problemInput struct {
	Target string   `json:"target"`
	Bricks []string `json:"bricks"`
}

func main() {
	_ = godotenv.Load()

	var (
		seed    int64
		seedSet bool
		steps   = flag.Int("steps", 150, "step cap before giving up")
		decay   = flag.Int("decay", 10, "slipnet decay cadence in steps")
		animate = flag.Bool("animate", false, "print the animation event log alongside the result")
		format  = flag.String("format", "tree", "output format: tree, json")
	)
	flag.Func("seed", "RNG seed (default: time-seeded)", func(v string) error {
		var err error
		seed, err = parseInt64(v)
		seedSet = err == nil
		return err
	})
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *format != "tree" && *format != "json" {
		fmt.Fprintf(os.Stderr, "numbo: unknown -format %q (want tree or json)\n", *format)
		os.Exit(2)
	}

	input, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "numbo: %v\n", err)
		os.Exit(2)
	}

	var sink *animation.MemorySink
	opts := numbo.Options{StepCap: *steps, DecayInterval: *decay, Seed: seed, SeedSet: seedSet}
	if *animate {
		sink = animation.NewMemorySink()
		opts.Sink = sink
	}

	result := numbo.Solve(context.Background(), numbo.Input{Target: input.Target, Bricks: input.Bricks}, opts)

	switch *format {
	case "json":
		printJSON(result, sink)
	default:
		printTree(result, sink)
	}

	if !result.Solved {
		os.Exit(1)
	}
}

func readInput(path string) (problemInput, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return problemInput{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in problemInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return problemInput{}, fmt.Errorf("decode input: %w", err)
	}
	if in.Target == "" || len(in.Bricks) == 0 {
		return problemInput{}, fmt.Errorf("input requires a non-empty target and at least one brick")
	}
	return in, nil
}

func printTree(result numbo.Result, sink *animation.MemorySink) {
	colorize := term.IsTerminal(int(os.Stdout.Fd()))

	status := "UNSOLVED"
	colorCode := "31" // red
	if result.Solved {
		status = "SOLVED"
		colorCode = "32" // green
	}
	if colorize {
		fmt.Printf("\x1b[%sm%s\x1b[0m\n", colorCode, status)
	} else {
		fmt.Println(status)
	}

	if result.Tree != "" {
		fmt.Println(result.Tree)
	}
	fmt.Printf("steps=%d reason=%s\n", result.Steps, result.Reason)

	if sink != nil {
		fmt.Println("--- animation ---")
		for _, ev := range sink.Events() {
			fmt.Printf("%+v\n", ev)
		}
	}
}

func printJSON(result numbo.Result, sink *animation.MemorySink) {
	out := struct {
		Solved bool              `json:"solved"`
		Tree   string            `json:"tree,omitempty"`
		Steps  int               `json:"steps"`
		Reason string            `json:"reason"`
		Events []animation.Event `json:"events,omitempty"`
	}{
		Solved: result.Solved,
		Tree:   result.Tree,
		Steps:  result.Steps,
		Reason: string(result.Reason),
	}
	if sink != nil {
		out.Events = sink.Events()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func parseInt64(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}
