package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"immich-face-album/internal/immich"
	"immich-face-album/internal/immich/api"
	"immich-face-album/internal/reconcile"
)

// Options are the command line overrides applied on top of the loaded
// configuration.
type Options struct {
	ConfigPath string
	Once       bool
	Mode       Mode
	OnError    FailurePolicy
}

// Run loads and validates the configuration, then synchronizes albums until
// ctx is cancelled. Configuration errors are returned before any request is
// made to the immich server.
func Run(ctx context.Context, opts Options) error {
	conf, err := loadValidConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.Info("loaded config", "config", conf)

	identities := conf.Identities()
	if len(identities) == 0 {
		return fmt.Errorf("%w: no identities configured", ErrConfigMissing)
	}
	s := &Scheduler{
		Identities: identities,
		Reconciler: newReconciler(*conf),
		Policy:     conf.OnError,
		Interval:   conf.Interval,
		Once:       opts.Once,
	}
	return s.Run(ctx)
}

// Check loads and validates the configuration, then verifies every identity
// can reach the immich server without modifying any album.
func Check(ctx context.Context, opts Options) error {
	conf, err := loadValidConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	client := newBaseClient(*conf)

	var errs []error
	for _, id := range conf.Identities() {
		log := slog.With("identity", id.String(), "person", id.Person)
		switch conf.Mode {
		case ModeKey:
			keyClient := client.WithAPIKey(id.APIKey)
			diagnostics := keyClient.Diagnostics(ctx)
			log.Info("client diagnostics",
				"diagnostics", diagnostics,
				"error", diagnostics.RemoteConnectedError,
				"name", keyClient.PersonName(ctx, id.Person))
			if diagnostics.RemoteConnectedError != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, diagnostics.RemoteConnectedError))
			}
		case ModeSession:
			sessionClient, session, err := client.Login(ctx, id.Email, id.Password)
			if err != nil {
				log.Error("login failed", "error", err)
				errs = append(errs, err)
				continue
			}
			log.Info("login succeeded", "user", session.UserID, "name", sessionClient.PersonName(ctx, id.Person))
			if err := sessionClient.Logout(ctx); err != nil {
				log.Debug("failed to log out", "error", err)
			}
		}
	}
	return errors.Join(errs...)
}

func loadValidConfig(opts Options) (*Config, error) {
	conf, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Mode != "" {
		conf.Mode = opts.Mode
	}
	if opts.OnError != "" {
		conf.OnError = opts.OnError
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// newBaseClient creates an unauthenticated client sharing a person name cache.
func newBaseClient(conf Config) *immich.Client {
	return immich.NewClient(
		immich.WithRemote(api.Config{
			ImmichAPIEndpoint: conf.Server,
			StrictStatus:      conf.Mode == ModeKey,
		}),
		immich.WithPersonNames(immich.NewPersonNames(conf.PersonNameCacheSize)),
	)
}

// newReconciler builds the reconciler for the configured mode.
func newReconciler(conf Config) Reconciler {
	client := newBaseClient(conf)
	album := immich.AlbumID(conf.Album)
	if conf.Mode == ModeSession {
		return &reconcile.SessionReconciler{
			Login: func(ctx context.Context, email, password string) (reconcile.SessionClient, string, error) {
				c, session, err := client.Login(ctx, email, password)
				if err != nil {
					return nil, "", err
				}
				return c, session.UserID, nil
			},
			Album:      album,
			SharedKey:  conf.SharedKey,
			ChunkSize:  conf.ChunkSize,
			ChunkDelay: conf.ChunkDelay,
		}
	}
	return &reconcile.KeyReconciler{
		Connect: func(apiKey string) reconcile.KeyClient { return client.WithAPIKey(apiKey) },
		Album:   album,
	}
}
