package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/goform/rules"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "goform",
		Short: "Validate nested form data against a rule schema",
		Long: `goform validates input documents (JSON, YAML or TOML) against a
schema document describing the rules of every field.

Commands:
  validate - validate an input document
  rules    - list the available rules`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	root.AddCommand(newValidateCmd(&cfgFile))
	root.AddCommand(newRulesCmd())
	return root
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range rules.Default().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
