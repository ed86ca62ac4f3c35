package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"immich-face-album/internal/immich"
	"immich-face-album/internal/reconcile"
)

// ErrConfigMissing is wrapped by every error about a required setting that is
// not configured.
var ErrConfigMissing = errors.New("missing required configuration")

// DefaultInterval is the pause between passes when SLEEP is not set.
const DefaultInterval = 3600 * time.Second

// Config is the top-level configuration struct. It is loaded via TOML decoding
// of an optional file, then overwritten by environment variables.
type Config struct {
	// Server is the base URL of the immich server.
	Server string
	// Album is the ID of the album assets are added to.
	Album string
	// Mode is inferred from the configured credentials when empty.
	Mode Mode
	// OnError defaults to "exit" for key mode and "skip" for session
	// mode.
	OnError FailurePolicy

	// Keys, Emails, Passwords and Faces are positional: the n-th face
	// belongs to the n-th user.
	Keys      []string
	Emails    []string
	Passwords []string
	Faces     []string

	// SharedKey is sent as the key query parameter when adding assets in
	// session mode.
	SharedKey string

	Interval            time.Duration
	ChunkSize           int
	ChunkDelay          time.Duration
	PersonNameCacheSize int
}

// HydrateFromEnv overwrites any values in Config with their associated
// environment variable value. Environment variables take precedence. Empty
// variables are ignored.
func (c *Config) HydrateFromEnv() error {
	if v := os.Getenv("IMMICH_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("IMMICH_ALBUM"); v != "" {
		c.Album = v
	}
	if v := os.Getenv("IMMICH_KEY"); v != "" {
		c.Keys = splitList(v)
	}
	if v := os.Getenv("IMMICH_EMAIL"); v != "" {
		c.Emails = splitList(v)
	}
	if v := os.Getenv("IMMICH_PASSWORD"); v != "" {
		c.Passwords = splitList(v)
	}
	if v := os.Getenv("IMMICH_FACE"); v != "" {
		c.Faces = splitList(v)
	}
	if v := os.Getenv("IMMICH_SHARED_KEY"); v != "" {
		c.SharedKey = v
	}
	if v := os.Getenv("IMMICH_MODE"); v != "" {
		if err := c.Mode.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("IMMICH_MODE: %w", err)
		}
	}
	if v := os.Getenv("IMMICH_ON_ERROR"); v != "" {
		if err := c.OnError.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("IMMICH_ON_ERROR: %w", err)
		}
	}
	if v := os.Getenv("SLEEP"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil && seconds == 0 {
			return errors.New("SLEEP: 0 would poll without pausing, expected a positive number of seconds")
		}
		if err != nil || seconds < 0 {
			return fmt.Errorf("SLEEP: expected a positive number of seconds, got %q", v)
		}
		c.Interval = time.Duration(seconds) * time.Second
	}
	return nil
}

// Validate checks that all required settings are present, infers the mode and
// fills in defaults.
func (c *Config) Validate() error {
	if c.Mode == "" {
		switch {
		case len(c.Keys) > 0:
			c.Mode = ModeKey
		case len(c.Emails) > 0:
			c.Mode = ModeSession
		}
	}

	var missing []string
	if c.Server == "" {
		missing = append(missing, "IMMICH_SERVER")
	}
	if c.Album == "" {
		missing = append(missing, "IMMICH_ALBUM")
	}
	if len(c.Faces) == 0 {
		missing = append(missing, "IMMICH_FACE")
	}
	switch c.Mode {
	case ModeKey:
		if len(c.Keys) == 0 {
			missing = append(missing, "IMMICH_KEY")
		}
	case ModeSession:
		if len(c.Emails) == 0 {
			missing = append(missing, "IMMICH_EMAIL")
		}
		if len(c.Passwords) == 0 {
			missing = append(missing, "IMMICH_PASSWORD")
		}
	default:
		missing = append(missing, "IMMICH_KEY or IMMICH_EMAIL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: please set %s", ErrConfigMissing, strings.Join(missing, ", "))
	}

	if u, err := url.Parse(c.Server); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("IMMICH_SERVER: invalid server URL %q", c.Server)
	}
	if err := uuid.Validate(c.Album); err != nil {
		return fmt.Errorf("IMMICH_ALBUM: invalid album id %q: %w", c.Album, err)
	}
	for _, face := range c.Faces {
		if err := uuid.Validate(face); err != nil {
			return fmt.Errorf("IMMICH_FACE: invalid person id %q: %w", face, err)
		}
	}

	if c.OnError == "" {
		c.OnError = defaultPolicy(c.Mode)
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = reconcile.DefaultChunkSize
	}
	if c.ChunkDelay <= 0 {
		c.ChunkDelay = reconcile.DefaultChunkDelay
	}
	return nil
}

// Identities pairs the configured credentials with the configured faces by
// position. Lists of unequal length are truncated to the shortest one.
func (c Config) Identities() []reconcile.Identity {
	var ids []reconcile.Identity
	switch c.Mode {
	case ModeKey:
		n := min(len(c.Keys), len(c.Faces))
		if n != len(c.Keys) || n != len(c.Faces) {
			slog.Warn("IMMICH_KEY and IMMICH_FACE have different lengths, ignoring extra entries",
				"keys", len(c.Keys), "faces", len(c.Faces))
		}
		for i := range n {
			ids = append(ids, reconcile.Identity{
				APIKey: c.Keys[i],
				Person: immich.PersonID(c.Faces[i]),
			})
		}
	case ModeSession:
		n := min(len(c.Emails), len(c.Passwords), len(c.Faces))
		if n != len(c.Emails) || n != len(c.Passwords) || n != len(c.Faces) {
			slog.Warn("IMMICH_EMAIL, IMMICH_PASSWORD and IMMICH_FACE have different lengths, ignoring extra entries",
				"emails", len(c.Emails), "passwords", len(c.Passwords), "faces", len(c.Faces))
		}
		for i := range n {
			ids = append(ids, reconcile.Identity{
				Email:    c.Emails[i],
				Password: c.Passwords[i],
				Person:   immich.PersonID(c.Faces[i]),
			})
		}
	}
	return ids
}

// LogValue implements slog.LogValuer so credentials are never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("server", c.Server),
		slog.String("album", c.Album),
		slog.String("mode", string(c.Mode)),
		slog.String("on_error", string(c.OnError)),
		slog.Any("faces", c.Faces),
		slog.Any("emails", c.Emails),
		slog.Int("keys", len(c.Keys)),
		slog.String("interval", c.Interval.String()),
	)
}

// LoadConfig reads the TOML config file at path, if any, and applies
// environment variables on top. An empty path falls back to the
// IMMICH_FACE_ALBUM_CONFIG environment variable, then to an optional
// "config.toml".
func LoadConfig(path string) (*Config, error) {
	var conf Config
	optional := false
	if path == "" {
		path = os.Getenv("IMMICH_FACE_ALBUM_CONFIG")
	}
	if path == "" {
		path = "config.toml"
		optional = true
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !optional {
			return nil, fmt.Errorf("config file %q not found", path)
		}
	} else if err != nil {
		return nil, err
	} else if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	// Load values from environment variables.
	if err := conf.HydrateFromEnv(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
