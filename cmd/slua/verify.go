package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lunar/internal/verify"
)

func newVerifyCommand(log **logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file.lua>",
		Short: "load already-emitted Lua, plus the prelude, into a real Lua VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			result := verify.Source(string(source))
			if !result.OK {
				return fmt.Errorf("verify failed: %w", result.Err)
			}
			(*log).Infof("%s: loads cleanly against the prelude", args[0])
			return nil
		},
	}
}
