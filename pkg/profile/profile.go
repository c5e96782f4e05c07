// Package profile fetches the public GitHub profile shown next to a commit
// history.
package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/Sumatoshi-tech/locmeta/pkg/plotpage"
)

// DefaultRateLimit is the request rate per second allowed by default.
const DefaultRateLimit = 1

// ErrEmptyUsername is returned when no user name was given.
var ErrEmptyUsername = errors.New("username is required")

// Profile is the subset of a GitHub user shown on the dashboard.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	HTMLURL     string `json:"html_url"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	PublicRepos int    `json:"public_repos"`
	PublicGists int    `json:"public_gists"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// Options configures a Client.
type Options struct {
	Token string
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise.
	BaseURL    string
	RateLimit  float64
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client looks up GitHub profiles with client-side rate limiting.
type Client struct {
	client  *github.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewClient creates a client.
func NewClient(opts Options) (*Client, error) {
	client := github.NewClient(opts.HTTPClient)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}

	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}

		client.BaseURL = base
	}

	limit := opts.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		timeout: opts.Timeout,
	}, nil
}

// Fetch returns the profile of username.
func (c *Client) Fetch(ctx context.Context, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	user, _, err := c.client.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", username, err)
	}

	return &Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		HTMLURL:     user.GetHTMLURL(),
		AvatarURL:   user.GetAvatarURL(),
		PublicRepos: user.GetPublicRepos(),
		PublicGists: user.GetPublicGists(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
	}, nil
}

// Card converts a fetch result into its page component. A failed fetch
// becomes an inline message.
func Card(p *Profile, err error) *plotpage.ProfileCard {
	if err != nil {
		return &plotpage.ProfileCard{Err: err.Error()}
	}

	if p == nil {
		return nil
	}

	return &plotpage.ProfileCard{
		Login:     p.Login,
		Name:      p.Name,
		URL:       p.HTMLURL,
		AvatarURL: p.AvatarURL,
		Counts: []plotpage.Stat{
			{Label: "Repositories", Value: humanize.Comma(int64(p.PublicRepos))},
			{Label: "Gists", Value: humanize.Comma(int64(p.PublicGists))},
			{Label: "Followers", Value: humanize.Comma(int64(p.Followers))},
			{Label: "Following", Value: humanize.Comma(int64(p.Following))},
		},
	}
}
