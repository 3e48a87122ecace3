/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command cflow simplifies the control flow of an assembled IL program.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cloudwego/cflow"
	"github.com/cloudwego/cflow/blocks"
	"github.com/cloudwego/cflow/debug"
	"github.com/cloudwego/cflow/il"
	"github.com/cloudwego/cflow/internal/opts"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	Usage = `cflow simplifies the control flow graph of an IL program.

Usage:

  cflow [options] file.il

Options:

`
)

var (
	confPath string
	showDot  bool
	verbose  bool
)

func init() {
	flag.StringVar(&confPath, "config", "", "Load optimizer options from a YAML file")
	flag.BoolVar(&showDot, "dot", false, "Print the optimized graph in DOT format")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
}

func logger() *zap.SugaredLogger {
	var err error
	var log *zap.Logger

	/* development config prints debug messages */
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}

	/* check for errors */
	if err != nil {
		panic(err)
	}
	return log.Sugar()
}

func options() ([]cflow.Option, error) {
	if confPath == "" {
		return nil, nil
	}

	/* load the config file */
	o, err := opts.LoadFile(confPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config: %s", confPath)
	}
	return []cflow.Option{cflow.WithOptions(o)}, nil
}

func run(fn string, log *zap.SugaredLogger) error {
	src, err := os.ReadFile(fn)
	if err != nil {
		return errors.Wrapf(err, "failed to read from file: %s", fn)
	}

	/* assemble the program */
	p, err := il.Assemble(string(src))
	if err != nil {
		return errors.Wrapf(err, "failed to assemble: %s", fn)
	}

	/* load the options */
	log.Debugw("assembled", "file", fn, "instructions", len(p))
	ops, err := options()
	if err != nil {
		return err
	}

	/* build the graph */
	g, err := blocks.BuildGraph(p)
	if err != nil {
		return errors.Wrap(err, "failed to build the graph")
	}

	/* optimize it */
	log.Debugw("graph built", "blocks", g.Len())
	if err = cflow.Optimize(g, ops...); err != nil {
		return errors.Wrap(err, "failed to optimize")
	}

	/* print the result */
	if st := debug.GetStats(); showDot {
		fmt.Print(blocks.Dot(g))
	} else {
		r := blocks.Linearize(g)
		fmt.Print(listing(r))
		log.Debugw("optimized",
			"instructions", len(r),
			"blocks", g.Len(),
			"nops", st.Nops,
			"folds", st.Folds,
			"threads", st.Threads,
			"merges", st.Merges,
			"dead", st.DeadBlocks,
			"flips", st.Flips,
		)
	}
	return nil
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, Usage)
		flag.PrintDefaults()
		os.Exit(2)
	}

	/* run the optimizer */
	log := logger()
	defer log.Sync()

	/* report errors */
	if err := run(flag.Arg(0), log); err != nil {
		log.Fatalw("cflow failed", "error", err)
	}
}
