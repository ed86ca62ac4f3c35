package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Client provides a raw HTTP client for accessing the immich API. All requests
// will get rewritten to the API endpoint with authorization, so only the path
// is required for requests.
//
// Example:
//
// ```
// client := NewClient(Config{ImmichAPIEndpoint: "https://photos.example.com", ImmichAPIKey: key})
// resp, err := client.Get("/users/me")
// ```
type Client struct {
	*http.Client
	conf Config
}

// Config holds configuration values for configuring the immich client.
//
// It is organized to take advantage of TOML parsing, however this package does
// not handle parsing and has no expectation on how it will be initialized.
type Config struct {
	// ImmichAPIEndpoint is the URL for accessing the immich API.
	ImmichAPIEndpoint string
	// ImmichAPIKey is sent in the X-API-Key header when no AccessToken is
	// set.
	ImmichAPIKey string
	// AccessToken is a bearer token obtained from [Client.Login]. It is
	// never read from configuration.
	AccessToken string `toml:"-"`
	// StrictStatus only accepts 200 OK responses. Otherwise any 2xx status
	// is accepted.
	StrictStatus bool
}

// immichTransport is a custom http.Transport that rewrites the http.Request
// via transformF and rejects unexpected status codes via checkF.
type immichTransport struct {
	base       http.RoundTripper
	transformF func(*http.Request)
	checkF     func(statusCode int) error
}

func (i immichTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	i.transformF(req)
	resp, err := i.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if err := i.checkF(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// NewClient initializes a Client with the provided API endpoint and
// credentials. Use [Client.IsConnected] to check if the Client was properly
// configured.
func NewClient(conf Config) Client {
	// Canonicalize apiEndpoint, keeping any prefix the server is hosted under.
	apiEndpointURI, err := url.Parse(conf.ImmichAPIEndpoint)
	if err != nil {
		apiEndpointURI = &url.URL{}
	}
	apiEndpointURI.Path = apiPath(apiEndpointURI.Path)
	apiEndpointURI.RawPath = ""

	// Build a custom http.Transport to set the API credentials and host.
	transport := immichTransport{
		base: http.DefaultTransport,
		transformF: func(r *http.Request) {
			// Add the credentials, preferring a session token.
			if conf.AccessToken != "" {
				r.Header.Set("Authorization", "Bearer "+conf.AccessToken)
			} else if conf.ImmichAPIKey != "" {
				r.Header.Set("X-API-Key", conf.ImmichAPIKey)
			}
			r.Header.Set("Accept", "application/json")
			// Prefix the API endpoint in the new URL.
			immichAPI := *apiEndpointURI
			immichAPI.Path = path.Join(immichAPI.Path, r.URL.Path)
			immichAPI.RawQuery = r.URL.RawQuery
			r.URL = &immichAPI
			r.Host = immichAPI.Host
		},
		checkF: func(statusCode int) error {
			return checkStatusCode(statusCode, conf.StrictStatus)
		},
	}
	return Client{Client: &http.Client{Transport: transport}, conf: conf}
}

// apiPath returns the API root below base: "/immich" and "/immich/api/"
// both become "/immich/api".
func apiPath(base string) string {
	base = strings.TrimSuffix(strings.TrimRight(base, "/"), "/api")
	return path.Join("/", base, "api")
}

// WithAccessToken returns a copy of the Client which authenticates with the
// provided bearer token instead of an API key.
func (c Client) WithAccessToken(token string) Client {
	conf := c.conf
	conf.AccessToken = token
	return NewClient(conf)
}

// IsConnected performs a sanity check API request to /users/me to verify the
// Client is configured correctly and the immich server is responsive.
func (c Client) IsConnected(ctx context.Context) error {
	if c.conf.ImmichAPIEndpoint == "" {
		return errors.New("misconfigured client: missing immich endpoint")
	}
	// Check it's a JSON response.
	var m map[string]any
	return c.getJSON(ctx, "GetMyUser", "/users/me", nil, &m)
}

// getJSON issues a GET request and decodes the JSON response into out.
func (c Client) getJSON(ctx context.Context, op, p string, query url.Values, out any) error {
	return c.doJSON(ctx, op, http.MethodGet, p, query, nil, out)
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out. A nil out discards the response body. Decoding failures
// are reported as a [DecodeError] tagged with op.
func (c Client) doJSON(ctx context.Context, op, method, p string, query url.Values, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: could not marshal request body: %w", op, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	u := url.URL{Path: p, RawQuery: query.Encode()}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("%s: could not create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// checkStatusCode is a helper function to check for a successful status code
// and return a descriptive error if not. In strict mode only 200 OK counts as
// successful.
func checkStatusCode(statusCode int, strict bool) error {
	if statusCode == http.StatusOK {
		return nil
	}
	if !strict && statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return &StatusError{StatusCode: statusCode}
}
