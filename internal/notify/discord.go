package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

const (
	colorGreen  = 0x2ECC71 // all sections fetched
	colorOrange = 0xE67E22 // at least one section degraded

	// Discord caps embed fields at 25; a digest section lists at most
	// this many alerts before summarizing the remainder.
	maxListedAlerts = 10
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendReport sends the digest as one embed per report section.
func (d *DiscordNotifier) SendReport(ctx context.Context, rpt *domain.Report) error {
	embeds := make([]discordEmbed, 0, len(rpt.Sections))
	for i := range rpt.Sections {
		embeds = append(embeds, buildSectionEmbed(&rpt.Sections[i]))
	}

	payload := discordWebhookPayload{Embeds: embeds}
	return d.post(ctx, payload)
}

func buildSectionEmbed(sec *domain.ReportSection) discordEmbed {
	if sec.FetchError != "" {
		return discordEmbed{
			Title:       fmt.Sprintf("Alert Digest: %s (unavailable)", sec.Source),
			Color:       colorOrange,
			Description: "Source fetch failed: " + sec.FetchError,
		}
	}

	var lines []string
	listed := min(len(sec.Alerts), maxListedAlerts)
	for i := range listed {
		lines = append(lines, fmt.Sprintf("%d× %s", sec.Alerts[i].Count, sec.Alerts[i].Label))
	}
	if len(sec.Alerts) > maxListedAlerts {
		lines = append(lines, fmt.Sprintf("... and %d more", len(sec.Alerts)-maxListedAlerts))
	}

	return discordEmbed{
		Title:       fmt.Sprintf("Alert Digest: %s", sec.Source),
		Color:       colorGreen,
		Description: strings.Join(lines, "\n"),
		Fields: []discordEmbedField{
			{Name: "Total", Value: fmt.Sprintf("%d", sec.Total), Inline: true},
			{
				Name:   fmt.Sprintf("Top %d", sec.TopN),
				Value:  sec.TopPercent + "%",
				Inline: true,
			},
		},
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
