package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// urlPattern recognizes direct media URLs; anything else is treated as a
// search term.
var urlPattern = regexp.MustCompile(`^https?://\S+$`)

// DefaultBinary is the extractor executable resolved from PATH when no
// explicit path is configured.
const DefaultBinary = "yt-dlp"

// Config configures the yt-dlp client.
type Config struct {
	// Path is the yt-dlp executable, DefaultBinary when empty.
	Path string
	// Timeout bounds one resolution, defaultRunTimeout when zero.
	Timeout time.Duration
}

// Client resolves queries by invoking yt-dlp in metadata-only mode and
// parsing its JSON output.
type Client struct {
	path    string
	timeout time.Duration
	runner  commandRunner
}

// NewClient creates a yt-dlp backed resolver.
func NewClient(cfg Config) *Client {
	if cfg.Path == "" {
		cfg.Path = DefaultBinary
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRunTimeout
	}
	return &Client{
		path:    cfg.Path,
		timeout: cfg.Timeout,
		runner:  execRunner{},
	}
}

// extractorMetadata mirrors the subset of yt-dlp's JSON output the bot
// consumes.
type extractorMetadata struct {
	Title      string              `json:"title"`
	URL        string              `json:"url"`
	WebpageURL string              `json:"webpage_url"`
	Duration   float64             `json:"duration"`
	Thumbnail  string              `json:"thumbnail"`
	Formats    []extractorFormat   `json:"formats"`
	Entries    []extractorMetadata `json:"entries"`
}

type extractorFormat struct {
	URL    string `json:"url"`
	ACodec string `json:"acodec"`
}

// Resolve fetches metadata for a direct URL, or searches and returns the
// first result for plain text.
func (c *Client) Resolve(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}

	target := query
	if !urlPattern.MatchString(query) {
		target = "ytsearch1:" + query
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stdout, stderr, err := c.runner.Run(ctx, c.path,
		"-j",
		"--no-playlist",
		"--no-warnings",
		"-f", "bestaudio/best",
		target,
	)
	if err != nil {
		return Result{}, classifyExtractorError(stderr, err)
	}

	meta, err := parseMetadata(stdout)
	if err != nil {
		return Result{}, err
	}

	return metadataToResult(meta, query)
}

// parseMetadata decodes the first JSON document from extractor output.
// Search mode may emit one document per line; only the first result is
// wanted.
func parseMetadata(output string) (extractorMetadata, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return extractorMetadata{}, ErrNotFound
	}
	if idx := strings.IndexByte(output, '\n'); idx >= 0 {
		output = output[:idx]
	}

	var meta extractorMetadata
	if err := json.Unmarshal([]byte(output), &meta); err != nil {
		return extractorMetadata{}, fmt.Errorf("failed to parse extractor metadata: %w", err)
	}

	// Searches wrap their results in entries; take the first one.
	if len(meta.Entries) > 0 {
		return meta.Entries[0], nil
	}
	return meta, nil
}

// metadataToResult selects the direct audio locator and fills the result
// fields, falling back to the query for missing text.
func metadataToResult(meta extractorMetadata, query string) (Result, error) {
	streamURL := meta.URL
	if streamURL == "" {
		// No top-level URL: pick the first format carrying audio.
		for _, f := range meta.Formats {
			if f.ACodec != "" && f.ACodec != "none" {
				streamURL = f.URL
				break
			}
		}
		if streamURL == "" && len(meta.Formats) > 0 {
			streamURL = meta.Formats[0].URL
		}
	}
	if streamURL == "" {
		return Result{}, fmt.Errorf("%w: metadata carried no audio stream", ErrNotFound)
	}

	title := meta.Title
	if title == "" {
		title = query
	}
	pageURL := meta.WebpageURL
	if pageURL == "" {
		pageURL = query
	}

	return Result{
		Title:           title,
		StreamURL:       streamURL,
		PageURL:         pageURL,
		DurationSeconds: int(meta.Duration),
		ThumbnailURL:    meta.Thumbnail,
	}, nil
}
