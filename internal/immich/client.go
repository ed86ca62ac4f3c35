package immich

import (
	"context"
	"errors"

	"immich-face-album/internal/immich/api"
)

// Client provides an API for synchronizing immich albums. Remote calls are
// delegated to the configured remote client, and person names are resolved
// through a shared in-memory cache.
type Client struct {
	remoteClient
	conf  api.Config
	names *PersonNames
}

// remoteClient is the subset of the immich API used to synchronize albums.
type remoteClient interface {
	IsConnected(ctx context.Context) error
	GetPerson(ctx context.Context, id PersonID) (*Person, error)
	GetPersonAssets(ctx context.Context, id PersonID) ([]AssetID, error)
	GetAlbumAssets(ctx context.Context, id AlbumID) ([]AssetID, error)
	AddAssetsToAlbum(ctx context.Context, id AlbumID, ids []AssetID) error
	Logout(ctx context.Context) error
	GetTimeBuckets(ctx context.Context, userID string) ([]TimeBucketInfo, error)
	GetTimeBucket(ctx context.Context, person PersonID, bucket TimeBucket) ([]AssetID, error)
	PutAlbumAssets(ctx context.Context, id AlbumID, ids []AssetID, key string) ([]AddResult, error)
}

// loginClient is a remoteClient that can also exchange credentials for a
// session.
type loginClient interface {
	Login(ctx context.Context, email, password string) (*Session, error)
}

// PersonName returns the display name of the person, or its ID if the name
// could not be resolved.
func (c *Client) PersonName(ctx context.Context, id PersonID) string {
	if c.names == nil {
		return string(id)
	}
	return c.names.Lookup(ctx, c.remoteClient, id)
}

// WithAPIKey returns a copy of the Client authenticating with the provided API
// key. The person name cache is shared with the original.
func (c *Client) WithAPIKey(key string) *Client {
	conf := c.conf
	conf.ImmichAPIKey = key
	conf.AccessToken = ""
	return &Client{remoteClient: api.NewClient(conf), conf: conf, names: c.names}
}

// Login exchanges the email and password for a session and returns a copy of
// the Client bound to it. Errors are reported as [api.AuthError].
func (c *Client) Login(ctx context.Context, email, password string) (*Client, *Session, error) {
	lc, ok := c.remoteClient.(loginClient)
	if !ok {
		return nil, nil, &api.AuthError{Email: email, Err: errors.New("remote does not support login")}
	}
	session, err := lc.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	conf := c.conf
	conf.AccessToken = session.AccessToken
	return &Client{remoteClient: api.NewClient(conf), conf: conf, names: c.names}, session, nil
}

// clientOpt is used for configuring the [Client].
type clientOpt func(*Client)

// WithRemote adds a remote client. Only one remote client can be configured.
// If multiple are provided, the last is used.
func WithRemote(conf api.Config) clientOpt {
	return func(c *Client) {
		c.conf = conf
		c.remoteClient = api.NewClient(conf)
	}
}

// WithPersonNames resolves person names through the provided cache. A nil
// cache disables name resolution.
func WithPersonNames(names *PersonNames) clientOpt {
	return func(c *Client) { c.names = names }
}

// NewClient initialized a new client with the provided options. See
// [WithRemote] and [WithPersonNames].
func NewClient(opts ...clientOpt) *Client {
	client := &Client{remoteClient: noopClient{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// errNoop is returned by every noopClient method.
var errNoop = errors.New("noop")

// noopClient provides a noop implementation for an unconfigured remote.
type noopClient struct{}

func (noopClient) IsConnected(context.Context) error {
	return errNoop
}

func (noopClient) GetPerson(context.Context, PersonID) (*Person, error) {
	return nil, errNoop
}

func (noopClient) GetPersonAssets(context.Context, PersonID) ([]AssetID, error) {
	return nil, errNoop
}

func (noopClient) GetAlbumAssets(context.Context, AlbumID) ([]AssetID, error) {
	return nil, errNoop
}

func (noopClient) AddAssetsToAlbum(context.Context, AlbumID, []AssetID) error {
	return errNoop
}

func (noopClient) Logout(context.Context) error {
	return errNoop
}

func (noopClient) GetTimeBuckets(context.Context, string) ([]TimeBucketInfo, error) {
	return nil, errNoop
}

func (noopClient) GetTimeBucket(context.Context, PersonID, TimeBucket) ([]AssetID, error) {
	return nil, errNoop
}

func (noopClient) PutAlbumAssets(context.Context, AlbumID, []AssetID, string) ([]AddResult, error) {
	return nil, errNoop
}
