// Command htsmc runs a bounded-model-checking problem file against a
// transition system read through a registered front-end parser.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/problem"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

var (
	configPath  string
	topModule   string
	smt2File    string
	skipSolving bool
	verbose     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "htsmc",
		Short: "Bounded model checker for hardware transition systems",
		RunE:  runRoot,
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML problem file")
	cmd.Flags().StringVar(&topModule, "top-module", "", "top-level module name passed to the front-end parser")
	cmd.Flags().StringVar(&smt2File, "smt2file", "", "path to tee every SMT-LIB2 assertion batch to")
	cmd.Flags().BoolVar(&skipSolving, "skip-solving", false, "parse and build the HTS without invoking the solver")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	cmd.MarkFlagRequired("config")
	return cmd
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}
	return log.Sugar()
}

// fileConfig is the top-level shape of a problem file: a general section
// (batch-wide defaults, currently unused by individual problems) and a
// set of named problem sections, each decoded into its own Config.
type fileConfig struct {
	General  problem.Config            `yaml:"general"`
	Problems map[string]problem.Config `yaml:"problems"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc := &fileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	fc, err := loadFileConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading problem file: %w", err)
	}

	parser := frontend()
	if parser == nil {
		return fmt.Errorf("no front-end parser is registered in this build; htsmc's core consumes an HTS, it does not parse source formats")
	}

	m := expr.NewManager()
	factory := solver.NewFake
	driver := problem.NewDriver(m, factory, log)

	exitCode := 0
	for name, cfg := range fc.Problems {
		cfg.Name = name
		if cfg.SkipSolving == false {
			cfg.SkipSolving = skipSolving
		}
		if cfg.SMT2File == "" {
			cfg.SMT2File = smt2File
		}

		h, _, _, err := parser.Parse(m, cfg.ModelFile, ts.ParseFlags{TopModule: topModule})
		if err != nil {
			log.Errorw("parse failed", "problem", name, "error", err)
			exitCode = 1
			continue
		}

		kind, err := problem.ParseKind(strings.ToLower(cfg.Verification))
		if err != nil {
			log.Errorw("unrecognized verification kind", "problem", name, "error", err)
			exitCode = 1
			continue
		}

		var outcome *problem.Outcome
		if kind == problem.Equivalence {
			outcome, err = runEquivalenceProblem(driver, parser, m, h, cfg)
		} else {
			tab := problem.NewSymtab(h.AllVars())
			outcome, err = driver.Run(h, tab, cfg)
		}
		if err != nil {
			log.Warnw("problem finished with an error", "problem", name, "error", err)
			exitCode = 1
			continue
		}
		log.Infow("problem resolved", "problem", name, "status", outcome.Status)
	}

	if exitCode != 0 {
		return fmt.Errorf("one or more problems did not resolve as expected")
	}
	return nil
}

// runEquivalenceProblem parses the second design named by cfg.Equivalence
// through the same registered front-end and runs Driver.RunEquivalence
// between it and the already-parsed design h. Both designs' outputs are
// taken in sorted-name order so the two output slices line up positionally.
func runEquivalenceProblem(driver *problem.Driver, parser ts.Parser, m *expr.Manager, h *ts.HTS, cfg problem.Config) (*problem.Outcome, error) {
	if cfg.Equivalence == "" {
		return nil, fmt.Errorf("problem %q: verification is equivalence but no equivalence model file was configured", cfg.Name)
	}
	other, _, _, err := parser.Parse(m, cfg.Equivalence, ts.ParseFlags{TopModule: topModule})
	if err != nil {
		return nil, fmt.Errorf("parsing equivalence model %q: %w", cfg.Equivalence, err)
	}
	return driver.RunEquivalence(h, other, varSetSlice(h.Outputs), varSetSlice(other.Outputs), cfg)
}

// varSetSlice orders a VarSet by symbol name, giving two separately-built
// VarSets a stable, comparable positional order.
func varSetSlice(vars ts.VarSet) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(vars))
	for v := range vars {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// frontend returns the registered source-format parser, if any front-end
// package has registered one via RegisterFrontend. No front-end ships with
// this core module.
func frontend() ts.Parser {
	return registeredFrontend
}

var registeredFrontend ts.Parser

// RegisterFrontend lets an external front-end package plug a Parser into
// the CLI at init time (blank-imported for its side effect).
func RegisterFrontend(p ts.Parser) {
	registeredFrontend = p
}
