package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immich-face-album/internal/immich/api"
)

// recordedRequest captures what the mock server received.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
}

// setupMockServer starts a server that answers every request with the status
// and body registered for its path. Unregistered paths return 404.
func setupMockServer(t *testing.T, routes map[string]mockResponse) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		w.Write([]byte(resp.body))
	}))
	t.Cleanup(server.Close)
	return server, &reqs
}

type mockResponse struct {
	status int
	body   string
}

func TestGetPersonAssets(t *testing.T) {
	server, reqs := setupMockServer(t, map[string]mockResponse{
		"GET /api/person/face-1/assets": {200, `[{"id":"asset-1"},{"id":"asset-2","type":"IMAGE"}]`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL, ImmichAPIKey: "secret", StrictStatus: true})

	ids, err := client.GetPersonAssets(context.Background(), "face-1")
	require.NoError(t, err)
	assert.Equal(t, []api.AssetID{"asset-1", "asset-2"}, ids)
	got := (*reqs)[0]
	assert.Equal(t, "secret", got.Header.Get("X-API-Key"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestEndpointPrefix(t *testing.T) {
	server, reqs := setupMockServer(t, map[string]mockResponse{
		"GET /api/person/face-1/assets":        {200, `[{"id":"asset-1"}]`},
		"GET /immich/api/person/face-1/assets": {200, `[{"id":"asset-2"}]`},
	})

	tests := []struct {
		endpoint string
		wantPath string
		wantID   api.AssetID
	}{
		{server.URL, "/api/person/face-1/assets", "asset-1"},
		{server.URL + "/", "/api/person/face-1/assets", "asset-1"},
		{server.URL + "/api", "/api/person/face-1/assets", "asset-1"},
		{server.URL + "/api/", "/api/person/face-1/assets", "asset-1"},
		{server.URL + "/immich", "/immich/api/person/face-1/assets", "asset-2"},
		{server.URL + "/immich/", "/immich/api/person/face-1/assets", "asset-2"},
		{server.URL + "/immich/api", "/immich/api/person/face-1/assets", "asset-2"},
		{server.URL + "/immich/api/", "/immich/api/person/face-1/assets", "asset-2"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			client := api.NewClient(api.Config{ImmichAPIEndpoint: tt.endpoint, StrictStatus: true})
			ids, err := client.GetPersonAssets(context.Background(), "face-1")
			require.NoError(t, err)
			assert.Equal(t, []api.AssetID{tt.wantID}, ids)
			assert.Equal(t, tt.wantPath, (*reqs)[len(*reqs)-1].Path)
		})
	}
}

func TestGetAlbumAssets(t *testing.T) {
	server, _ := setupMockServer(t, map[string]mockResponse{
		"GET /api/album/album-1": {200, `{"id":"album-1","albumName":"Family","assets":[{"id":"asset-9"}]}`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL + "/api/", ImmichAPIKey: "secret"})

	ids, err := client.GetAlbumAssets(context.Background(), "album-1")
	require.NoError(t, err)
	assert.Equal(t, []api.AssetID{"asset-9"}, ids)
}

func TestAddAssetsToAlbum(t *testing.T) {
	server, reqs := setupMockServer(t, map[string]mockResponse{
		"PUT /api/album/album-1/assets": {200, `[]`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL, ImmichAPIKey: "secret", StrictStatus: true})

	require.NoError(t, client.AddAssetsToAlbum(context.Background(), "album-1", []api.AssetID{"a", "b"}))
	var body struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &body), "request body is not JSON")
	assert.Equal(t, []string{"a", "b"}, body.IDs)
	assert.Equal(t, "application/json", (*reqs)[0].Header.Get("Content-Type"))
}

func TestStatusCodes(t *testing.T) {
	server, _ := setupMockServer(t, map[string]mockResponse{
		"GET /api/person/created/assets":      {201, `[]`},
		"GET /api/person/unauthorized/assets": {401, `{"message":"Invalid API key"}`},
		"GET /api/person/broken/assets":       {500, `{}`},
	})

	t.Run("strict rejects 201", func(t *testing.T) {
		client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL, StrictStatus: true})
		_, err := client.GetPersonAssets(context.Background(), "created")
		var serr *api.StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, 201, serr.StatusCode)
	})

	t.Run("lenient accepts 201", func(t *testing.T) {
		client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL})
		_, err := client.GetPersonAssets(context.Background(), "created")
		assert.NoError(t, err)
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL})
		_, err := client.GetPersonAssets(context.Background(), "unauthorized")
		assert.ErrorIs(t, err, api.ErrUnauthorized)
	})

	t.Run("server error", func(t *testing.T) {
		client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL})
		_, err := client.GetPersonAssets(context.Background(), "broken")
		var serr *api.StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, 500, serr.StatusCode)
		assert.NotErrorIs(t, err, api.ErrUnauthorized)
	})
}

func TestDecodeErrors(t *testing.T) {
	server, _ := setupMockServer(t, map[string]mockResponse{
		"GET /api/person/garbage/assets": {200, `not json`},
		"GET /api/person/no-id/assets":   {200, `[{"id":"asset-1"},{"type":"IMAGE"}]`},
		"GET /api/timeline/buckets":      {200, `[{"count":3}]`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL})

	var derr *api.DecodeError
	for _, person := range []api.PersonID{"garbage", "no-id"} {
		_, err := client.GetPersonAssets(context.Background(), person)
		assert.ErrorAs(t, err, &derr, "person %s", person)
	}

	_, err := client.GetTimeBuckets(context.Background(), "user-1")
	assert.ErrorAs(t, err, &derr, "bucket without timeBucket")
}

func TestLogin(t *testing.T) {
	server, reqs := setupMockServer(t, map[string]mockResponse{
		"POST /api/auth/login": {201, `{"accessToken":"token-1","userId":"user-1","userEmail":"a@example.com"}`},
		"GET /api/users/me":    {200, `{"id":"user-1"}`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL})

	session, err := client.Login(context.Background(), "a@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "token-1", session.AccessToken)
	assert.Equal(t, "user-1", session.UserID)

	var creds map[string]string
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &creds), "request body is not JSON")
	assert.Equal(t, "a@example.com", creds["email"])
	assert.Equal(t, "hunter2", creds["password"])

	require.NoError(t, client.WithAccessToken(session.AccessToken).IsConnected(context.Background()))
	assert.Equal(t, "Bearer token-1", (*reqs)[1].Header.Get("Authorization"))
}

func TestLogin_Failure(t *testing.T) {
	server, _ := setupMockServer(t, map[string]mockResponse{
		"POST /api/auth/login": {401, `{"message":"Incorrect email or password"}`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL})

	_, err := client.Login(context.Background(), "a@example.com", "wrong")
	var aerr *api.AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "a@example.com", aerr.Email)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestLogin_MissingToken(t *testing.T) {
	server, _ := setupMockServer(t, map[string]mockResponse{
		"POST /api/auth/login": {201, `{"userId":"user-1"}`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL})

	_, err := client.Login(context.Background(), "a@example.com", "hunter2")
	var derr *api.DecodeError
	assert.ErrorAs(t, err, &derr)
}

func TestTimeline(t *testing.T) {
	server, reqs := setupMockServer(t, map[string]mockResponse{
		"GET /api/timeline/buckets": {200, `[{"timeBucket":"2024-01-01T00:00:00.000Z","count":2}]`},
		"GET /api/timeline/bucket":  {200, `[{"id":"asset-1"},{"id":"asset-2"}]`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL}).WithAccessToken("token-1")

	buckets, err := client.GetTimeBuckets(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, api.TimeBucket("2024-01-01T00:00:00.000Z"), buckets[0].TimeBucket)
	q := (*reqs)[0].Query
	assert.Equal(t, []string{"user-1"}, q["userId"])
	assert.Equal(t, []string{"MONTH"}, q["size"])

	ids, err := client.GetTimeBucket(context.Background(), "face-1", buckets[0].TimeBucket)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	q = (*reqs)[1].Query
	assert.Equal(t, []string{"face-1"}, q["personId"])
	assert.Equal(t, []string{"2024-01-01T00:00:00.000Z"}, q["timeBucket"])
	assert.Equal(t, []string{"MONTH"}, q["size"])
}

func TestPutAlbumAssets(t *testing.T) {
	server, reqs := setupMockServer(t, map[string]mockResponse{
		"PUT /api/albums/album-1/assets": {200, `[{"id":"a","success":true},{"id":"b","success":false,"error":"duplicate"}]`},
	})
	client := api.NewClient(api.Config{ImmichAPIEndpoint: server.URL}).WithAccessToken("token-1")

	results, err := client.PutAlbumAssets(context.Background(), "album-1", []api.AssetID{"a", "b"}, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, api.AddErrorDuplicate, results[1].Error)
	assert.NotContains(t, (*reqs)[0].Query, "key", "key query parameter should be omitted when empty")

	_, err = client.PutAlbumAssets(context.Background(), "album-1", []api.AssetID{"a"}, "shared")
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, (*reqs)[1].Query["key"])
}

func TestIsConnected_MissingEndpoint(t *testing.T) {
	client := api.NewClient(api.Config{})
	assert.Error(t, client.IsConnected(context.Background()))
}
