package profile_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/pkg/profile"
)

const octocat = `{
  "login": "octocat",
  "name": "The Octocat",
  "html_url": "https://github.com/octocat",
  "avatar_url": "https://avatars.example/octocat",
  "public_repos": 8,
  "public_gists": 8,
  "followers": 21000,
  "following": 9
}`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(octocat))
	})
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	client, err := profile.NewClient(profile.Options{BaseURL: srv.URL, RateLimit: 100})
	require.NoError(t, err)

	p, err := client.Fetch(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, &profile.Profile{
		Login:       "octocat",
		Name:        "The Octocat",
		HTMLURL:     "https://github.com/octocat",
		AvatarURL:   "https://avatars.example/octocat",
		PublicRepos: 8,
		PublicGists: 8,
		Followers:   21000,
		Following:   9,
	}, p)

	card := profile.Card(p, nil)
	assert.Equal(t, "octocat", card.Login)
	assert.Equal(t, "21,000", card.Counts[2].Value)
}

func TestClient_FetchErrors(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	client, err := profile.NewClient(profile.Options{BaseURL: srv.URL, RateLimit: 100, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")

	_, err = client.Fetch(context.Background(), "  ")
	require.ErrorIs(t, err, profile.ErrEmptyUsername)

	card := profile.Card(nil, err)
	assert.Equal(t, profile.ErrEmptyUsername.Error(), card.Err)
	assert.Nil(t, profile.Card(nil, nil))
}

func TestClient_FetchCancelled(t *testing.T) {
	t.Parallel()

	client, err := profile.NewClient(profile.Options{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Fetch(ctx, "octocat")
	require.ErrorIs(t, err, context.Canceled)
}
