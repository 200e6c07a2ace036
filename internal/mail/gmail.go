package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultGmailURL   = "https://gmail.googleapis.com/gmail/v1/users/me/messages"
	defaultMaxResults = 100
)

// GmailSearcher implements Searcher using the Gmail REST API. It lists
// message IDs matching the query, then fetches each message's Subject
// header via a metadata-only read.
type GmailSearcher struct {
	tokens     TokenProvider
	baseURL    string
	maxResults int
	client     *http.Client
}

// GmailOption configures the GmailSearcher.
type GmailOption func(*GmailSearcher)

// WithGmailURL overrides the default messages endpoint.
func WithGmailURL(u string) GmailOption {
	return func(g *GmailSearcher) {
		g.baseURL = u
	}
}

// WithMaxResults caps how many messages one search returns.
func WithMaxResults(n int) GmailOption {
	return func(g *GmailSearcher) {
		g.maxResults = n
	}
}

// WithGmailHTTPClient overrides the default HTTP client.
func WithGmailHTTPClient(hc *http.Client) GmailOption {
	return func(g *GmailSearcher) {
		g.client = hc
	}
}

// NewGmailSearcher creates a Gmail-backed Searcher.
func NewGmailSearcher(tokens TokenProvider, opts ...GmailOption) *GmailSearcher {
	g := &GmailSearcher{
		tokens:     tokens,
		baseURL:    defaultGmailURL,
		maxResults: defaultMaxResults,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type messageListResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messageResponse struct {
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

// Subjects implements Searcher.Subjects. Messages with no Subject header
// contribute an empty string, matching their appearance in the mailbox.
func (g *GmailSearcher) Subjects(ctx context.Context, query string) ([]string, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	ids, err := g.listMessageIDs(ctx, token, query)
	if err != nil {
		return nil, err
	}

	subjects := make([]string, 0, len(ids))
	for _, id := range ids {
		subject, err := g.fetchSubject(ctx, token, id)
		if err != nil {
			return nil, fmt.Errorf("fetching message %s: %w", id, err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

func (g *GmailSearcher) listMessageIDs(
	ctx context.Context,
	token, query string,
) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(g.maxResults))

	body, err := g.get(ctx, token, g.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	var list messageListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parsing message list: %w", err)
	}

	ids := make([]string, 0, len(list.Messages))
	for _, m := range list.Messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (g *GmailSearcher) fetchSubject(
	ctx context.Context,
	token, id string,
) (string, error) {
	params := url.Values{}
	params.Set("format", "metadata")
	params.Set("metadataHeaders", "Subject")

	body, err := g.get(ctx, token, g.baseURL+"/"+id+"?"+params.Encode())
	if err != nil {
		return "", err
	}

	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("parsing message: %w", err)
	}

	for _, h := range msg.Payload.Headers {
		if h.Name == "Subject" {
			return h.Value, nil
		}
	}
	return "", nil
}

func (g *GmailSearcher) get(ctx context.Context, token, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"Gmail API error (status %d): %s",
			resp.StatusCode, string(body),
		)
	}
	return body, nil
}
