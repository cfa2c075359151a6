package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rhcases",
		Short:         "rhcases: live terminal monitor for Red Hat support cases",
		Long:          "rhcases polls the Red Hat support API across multiple customer accounts and renders a live, color-coded dashboard of open cases waiting on either party.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newWatchCmd(),
		newStatusCmd(),
	)

	return rootCmd
}
