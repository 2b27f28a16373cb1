// Package twitter provides the post fetcher for the social-media API.
// Fetching is a two-step chain: resolve the handle to a user id, then
// request the user's recent posts.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/apierrors"
	"github.com/doppai/persona-api/internal/domain"
)

// requestTimeout bounds the whole lookup-then-fetch chain.
const requestTimeout = 30 * time.Second

// Client for the Twitter API v2.
type Client struct {
	baseURL     string
	bearerToken string
	client      *http.Client
	log         zerolog.Logger
}

// NewClient creates a new Twitter API client. An empty bearer token is
// allowed; calls then fail closed with an upstream error so callers route
// into their fallback path.
func NewClient(baseURL, bearerToken string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: requestTimeout},
		log:         log.With().Str("client", "twitter").Logger(),
	}
}

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type tweetsResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			ReplyCount   int `json:"reply_count"`
			RetweetCount int `json:"retweet_count"`
			LikeCount    int `json:"like_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// CleanHandle normalizes a user-supplied handle: strips a leading @ and
// lowercases.
func CleanHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// FetchLatest returns up to maxCount recent posts for the handle.
// Single attempt, no retry loop; rate limiting and resolution failures are
// reported as typed errors for the caller's fallback policy.
func (c *Client) FetchLatest(ctx context.Context, handle string, maxCount int) ([]domain.Post, error) {
	if c.bearerToken == "" {
		return nil, apierrors.New(apierrors.KindUpstream, "no bearer token configured")
	}

	handle = CleanHandle(handle)
	if maxCount < 1 {
		maxCount = 1
	}
	if maxCount > 50 {
		maxCount = 50
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	userID, err := c.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("handle", handle).Str("user_id", userID).Msg("Resolved handle")

	posts, err := c.fetchPosts(ctx, handle, userID, maxCount)
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("handle", handle).
		Int("posts", len(posts)).
		Msg("Fetched posts")
	return posts, nil
}

func (c *Client) resolveHandle(ctx context.Context, handle string) (string, error) {
	url := fmt.Sprintf("%s/users/by/username/%s", c.baseURL, handle)

	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", apierrors.Wrap(apierrors.KindUpstream, "failed to parse user lookup response", err)
	}
	if user.Data.ID == "" {
		return "", apierrors.New(apierrors.KindNotFound, fmt.Sprintf("user @%s not found", handle))
	}
	return user.Data.ID, nil
}

func (c *Client) fetchPosts(ctx context.Context, handle, userID string, maxCount int) ([]domain.Post, error) {
	// The tweets endpoint requires max_results in [5,100]; over-fetch and
	// trim to maxCount afterwards.
	requestCount := maxCount
	if requestCount < 5 {
		requestCount = 5
	}

	url := fmt.Sprintf(
		"%s/users/%s/tweets?max_results=%d&tweet.fields=created_at,public_metrics",
		c.baseURL, userID, requestCount,
	)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var tweets tweetsResponse
	if err := json.Unmarshal(body, &tweets); err != nil {
		return nil, apierrors.Wrap(apierrors.KindUpstream, "failed to parse tweets response", err)
	}
	if len(tweets.Data) == 0 {
		return nil, apierrors.New(apierrors.KindNotFound, fmt.Sprintf("no posts found for @%s", handle))
	}

	posts := make([]domain.Post, 0, maxCount)
	for _, t := range tweets.Data {
		if len(posts) >= maxCount {
			break
		}
		createdAt, err := time.Parse(time.RFC3339, t.CreatedAt)
		if err != nil {
			createdAt = time.Now().UTC()
		}
		posts = append(posts, domain.Post{
			ID:        t.ID,
			Text:      t.Text,
			CreatedAt: createdAt,
			Engagement: domain.Engagement{
				Replies:  t.PublicMetrics.ReplyCount,
				Reshares: t.PublicMetrics.RetweetCount,
				Likes:    t.PublicMetrics.LikeCount,
			},
			SourceURL: fmt.Sprintf("https://twitter.com/%s/status/%s", handle, t.ID),
		})
	}
	return posts, nil
}

// get performs one authenticated GET and maps non-success statuses onto the
// error taxonomy.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.KindUpstream, "failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apierrors.Wrap(apierrors.KindTimeout, "request timed out", err)
		}
		return nil, apierrors.Wrap(apierrors.KindUpstream, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.log.Warn().Str("url", url).Msg("Rate limited by Twitter API")
		return nil, apierrors.New(apierrors.KindRateLimited, "rate limited")
	case resp.StatusCode == http.StatusNotFound:
		return nil, apierrors.New(apierrors.KindNotFound, "resource not found")
	case resp.StatusCode != http.StatusOK:
		return nil, apierrors.New(apierrors.KindUpstream, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.KindUpstream, "failed to read response body", err)
	}
	return body, nil
}
