package cmd

import (
	"github.com/spf13/cobra"

	"immich-face-album/internal/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configuration and connectivity of every user",
	Long: `Validates the configuration, then checks that every configured API key or
email/password pair can reach the immich server. No album is modified.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return app.Check(cmd.Context(), opts)
}
