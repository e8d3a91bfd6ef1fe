package cmd

import "github.com/spf13/cobra"

const (
	FlagConfigDir    = "config-dir"
	DefaultConfigDir = "configuration"
)

func registerConfigDir(cmd *cobra.Command) {
	cmd.Flags().StringP(
		FlagConfigDir, "c", DefaultConfigDir,
		"directory containing base.yaml and the per-environment overlays",
	)
}

func getConfigDir(cmd *cobra.Command) string {
	return getStringFlag(cmd, FlagConfigDir)
}

func getStringFlag(cmd *cobra.Command, flagName string) (value string) {
	if f := cmd.Flag(flagName); f != nil {
		value = f.Value.String()
	}
	return
}
