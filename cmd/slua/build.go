package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"lunar/internal/ast"
	"lunar/internal/codegen"
	"lunar/internal/config"
	"lunar/internal/lexer"
	"lunar/internal/parser"
	"lunar/internal/types"
)

func newBuildCommand(log **logrus.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build <file.sl>...",
		Short: "translate one or more SL files to Lua",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("-o can only be used with a single input file")
			}
			cfg, err := config.Load(config.FileName)
			if err != nil {
				return err
			}

			var errs error
			for _, path := range args {
				out := output
				if out == "" {
					out = replaceExt(path, ".lua")
				}
				if cfg.OutputDir != "." && cfg.OutputDir != "" {
					out = filepath.Join(cfg.OutputDir, filepath.Base(out))
				}
				if err := buildFile(*log, path, out); err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
					continue
				}
				(*log).Infof("wrote %s", out)
			}
			return errs
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single-file builds only)")
	return cmd
}

func buildFile(log *logrus.Logger, path, out string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	statements, err := parseSource(string(source))
	if err != nil {
		return err
	}

	checker := types.NewChecker()
	checker.Check(statements)
	log.Debugf("type-checked %s (%d diagnostics)", path, len(checker.Errors()))

	luaSource, err := codegen.Generate(statements, checker)
	if err != nil {
		return fmt.Errorf("transpiling: %w", err)
	}

	if err := os.WriteFile(out, []byte(luaSource), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func parseSource(source string) ([]ast.Statement, error) {
	p := parser.New(lexer.New(source))
	statements := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		var combined error
		for _, e := range errs {
			combined = multierr.Append(combined, fmt.Errorf("parse error: %s", e))
		}
		return nil, combined
	}
	return statements, nil
}

func replaceExt(path, ext string) string {
	trimmed := strings.TrimSuffix(path, filepath.Ext(path))
	return trimmed + ext
}
