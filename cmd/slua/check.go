package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lunar/internal/types"
)

func newCheckCommand(log **logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.sl>",
		Short: "parse and type-check a file without emitting Lua",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading source: %w", err)
			}
			statements, err := parseSource(string(source))
			if err != nil {
				return err
			}
			checker := types.NewChecker()
			checker.Check(statements)
			for _, e := range checker.Errors() {
				(*log).Warn(e.Error())
			}
			(*log).Infof("%s: ok (%d diagnostics)", args[0], len(checker.Errors()))
			return nil
		},
	}
}
