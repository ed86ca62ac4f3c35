package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"immich-face-album/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "immich-face-album",
	Short: "Keep an immich album in sync with the photos of a person",
	Long: `immich-face-album periodically adds every asset a recognized person appears
in to a shared album, for one or more immich users.

Configuration is read from an optional TOML file and from the IMMICH_SERVER,
IMMICH_ALBUM, IMMICH_FACE, IMMICH_KEY, IMMICH_EMAIL, IMMICH_PASSWORD and SLEEP
environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
	RunE:              runSync,
}

// Execute runs the root command until ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML config file (default $IMMICH_FACE_ALBUM_CONFIG or ./config.toml)")
	rootCmd.PersistentFlags().String("mode", "", "Authentication mode: key or session (default inferred from credentials)")
	rootCmd.PersistentFlags().String("on-error", "", "What to do when a pass fails: exit or skip (default exit for key, skip for session)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default $LOG_LEVEL or info)")

	rootCmd.Flags().Bool("once", false, "Run a single round of passes and exit")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// setupLogger installs the JSON logger at the requested level.
func setupLogger(cmd *cobra.Command, args []string) error {
	levelName := mustGetString(cmd, "log-level")
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}
	var level slog.Level
	if levelName != "" {
		if err := level.UnmarshalText([]byte(levelName)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", levelName, err)
		}
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	opts.Once = mustGetBool(cmd, "once")
	slog.Info("starting")
	return app.Run(cmd.Context(), opts)
}

// options collects the persistent flags into [app.Options].
func options(cmd *cobra.Command) (app.Options, error) {
	opts := app.Options{ConfigPath: mustGetString(cmd, "config")}
	if err := opts.Mode.UnmarshalText([]byte(mustGetString(cmd, "mode"))); err != nil {
		return opts, fmt.Errorf("--mode: %w", err)
	}
	if err := opts.OnError.UnmarshalText([]byte(mustGetString(cmd, "on-error"))); err != nil {
		return opts, fmt.Errorf("--on-error: %w", err)
	}
	return opts, nil
}
