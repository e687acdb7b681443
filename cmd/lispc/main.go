//
// Copyright 2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

// Command lispc hosts the lisp package's Engine behind a minimal
// read-eval-print loop. The REPL itself sits outside the core language's
// scope; this front end exists to exercise Engine the way an embedder
// would, not to be a full-featured shell.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/avery-hale/liswat/lisp"
)

var (
	verbose = pflag.BoolP("verbose", "v", false, "enable debug-level logging")
	loadSrc = pflag.StringP("load", "l", "", "path to a source file to evaluate before the prompt")
	binds   = pflag.StringArray("bind", nil, "NAME=VALUE binding to seed into the root environment before the prompt; VALUE is parsed as a number when possible, otherwise a string")
)

func main() {
	pflag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	engine := lisp.NewEngine()
	seedBindings(engine, *binds, logger)
	installQuit(engine)

	if *loadSrc != "" {
		if err := loadFile(engine, *loadSrc, logger); err != nil {
			logger.Error("failed to load source file", zap.String("path", *loadSrc), zap.Error(err))
			os.Exit(1)
		}
	}

	fmt.Println("Welcome to lispc. Use (quit) or Ctrl-D to leave.")
	repl(engine, logger)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// seedBindings parses each "NAME=VALUE" entry from --bind and defines it
// in the engine's root environment, using cast to decide whether VALUE
// reads as an integer before falling back to treating it as a string.
func seedBindings(engine *lisp.Engine, binds []string, logger *zap.Logger) {
	for _, b := range binds {
		name, value, ok := strings.Cut(b, "=")
		if !ok {
			logger.Warn("ignoring malformed --bind (expected NAME=VALUE)", zap.String("bind", b))
			continue
		}
		if n, err := cast.ToInt64E(value); err == nil {
			engine.DefineValue(name, lisp.NewNumber(n))
		} else {
			engine.DefineValue(name, lisp.NewString(value))
		}
	}
}

// installQuit defines `(quit)` / `(quit CODE)` as a primitive that raises
// a QuitSignal by panicking with it, the convention Engine.ProcessOneForm
// recovers from without treating it as an ordinary LispError.
func installQuit(engine *lisp.Engine) {
	engine.DefinePrimitive("quit", func(name string, args []lisp.Value) (lisp.Value, *lisp.Error) {
		code := 0
		if len(args) == 1 {
			if n, ok := args[0].(*lisp.Number); ok {
				code = int(n.Val.Int64())
			}
		}
		panic(&lisp.QuitSignal{Code: code})
	}, 0, 1)
}

func loadFile(engine *lisp.Engine, path string, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(data)
	for strings.TrimSpace(text) != "" {
		report, rest, ok, quit := engine.ProcessOneForm(text, nil)
		if quit != nil {
			os.Exit(quit.Code)
		}
		if !ok {
			break
		}
		if strings.HasPrefix(report, ";; ") {
			logger.Error("form failed while loading source file", zap.String("path", path), zap.String("report", report))
		}
		text = rest
	}
	return nil
}

// repl implements the read-eval-print-loop in which forms are read from
// standard input, evaluated by the Engine, and their results (or
// reported errors) are printed via the Engine's own emit sink
// (ProcessOneForm writes each report there before returning it). A line
// that does not yet close every open paren is accumulated with the next
// one, per Engine.Balance.
func repl(engine *lisp.Engine, logger *zap.Logger) {
	stdin := bufio.NewReader(os.Stdin)
	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			fmt.Print("lispc> ")
		} else {
			fmt.Print("  ... > ")
		}
		line, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		pending.WriteString(line)

		complete, berr := engine.Balance(pending.String())
		if berr != nil {
			fmt.Println(lisp.FormatError(berr))
			pending.Reset()
			continue
		}
		if complete > 0 {
			continue
		}

		text := pending.String()
		pending.Reset()
		for strings.TrimSpace(text) != "" {
			_, rest, ok, quit := engine.ProcessOneForm(text, nil)
			if quit != nil {
				logger.Info("quit requested", zap.Int("code", quit.Code))
				os.Exit(quit.Code)
			}
			if !ok {
				break
			}
			text = rest
		}
	}
}
