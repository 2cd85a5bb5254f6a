// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package main provides the PennyLane-Go CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jkanem/pennylane/device/defaultqubit"
	"github.com/jkanem/pennylane/execute"
	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/qnode"
	"github.com/jkanem/pennylane/tape"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "version":
		fmt.Printf("PennyLane-Go %s\n", version)
	case "run":
		if err := run(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("PennyLane-Go - Differentiable Quantum Circuits for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                          Show version")
	fmt.Println("  run [-config file] [-theta x]    Execute an entangled rotation and its gradient")
}

// run executes a two-qubit demonstration circuit on the analytic
// simulator and prints the expectation value and its gradient, using
// execution options from a YAML file when one is given.
func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	config := fs.String("config", "", "YAML execution options file")
	theta := fs.Float64("theta", 0.432, "rotation angle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := execute.DefaultOptions()
	if *config != "" {
		loaded, err := execute.LoadOptions(*config)
		if err != nil {
			return err
		}
		opts = loaded
	}

	n, err := qnode.New(func(q *tape.Queue, args []*num.Value) {
		q.Apply(ops.NewRX(args[0], 0))
		q.Apply(ops.NewCNOT(0, 1))
		q.Expval(ops.Z(1))
	}, defaultqubit.New(), opts)
	if err != nil {
		return err
	}

	out, err := n.Call(num.Var(*theta))
	if err != nil {
		return err
	}
	grads, err := n.Grad(num.Var(*theta))
	if err != nil {
		return err
	}

	fmt.Printf("Circuit: RX(%g) 0; CNOT 0 1; <Z_1>\n", *theta)
	fmt.Printf("  value    = %+.8f\n", out.Float())
	fmt.Printf("  gradient = %+.8f (%s)\n", grads[0].Float(), n.Options().DiffMethod)
	return nil
}
