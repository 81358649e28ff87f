package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"traffic/pulse/internal/incident"

	"github.com/rs/zerolog"
)

// Policy fixes what the client does when the remote analyzer fails. The
// dashboard historically did both depending on the screen; here the
// caller picks one explicitly.
type Policy string

const (
	// PolicyStrict surfaces transport failures to the caller.
	PolicyStrict Policy = "strict"
	// PolicyDegraded substitutes an embedded-engine result on failure.
	PolicyDegraded Policy = "degraded"
)

// ParsePolicy validates a config string, defaulting unknown values to strict.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyDegraded {
		return PolicyDegraded
	}
	return PolicyStrict
}

// Client posts uploads to a remote analyze endpoint. Every request carries
// the configured timeout; a hung analyzer cannot stall the caller forever.
type Client struct {
	url      string
	policy   Policy
	fallback *Engine
	http     *http.Client
	log      zerolog.Logger
}

// NewClient builds a remote-analyzer client. fallback is only consulted
// under PolicyDegraded and may be nil otherwise.
func NewClient(url string, timeout time.Duration, policy Policy, fallback *Engine, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:      url,
		policy:   policy,
		fallback: fallback,
		http:     &http.Client{Timeout: timeout},
		log:      log.With().Str("component", "analysis-client").Logger(),
	}
}

// Analyze uploads the video bytes plus location to the remote endpoint and
// decodes the result. The boolean reports whether the result came from the
// degraded fallback rather than the remote analyzer.
func (c *Client) Analyze(ctx context.Context, filename string, video io.Reader, loc incident.Location) (*Result, bool, error) {
	res, err := c.post(ctx, filename, video, loc)
	if err == nil {
		return res, false, nil
	}

	if c.policy == PolicyDegraded && c.fallback != nil {
		c.log.Warn().Err(err).Msg("remote analyzer failed, substituting mock result")
		return c.fallback.Analyze(), true, nil
	}
	return nil, false, err
}

func (c *Client) post(ctx context.Context, filename string, video io.Reader, loc incident.Location) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("video", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, fmt.Errorf("copy video: %w", err)
	}

	locJSON, err := json.Marshal(map[string]any{
		"lat":     loc.Latitude,
		"lng":     loc.Longitude,
		"address": loc.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("encode location: %w", err)
	}
	if err := writer.WriteField("location", string(locJSON)); err != nil {
		return nil, fmt.Errorf("write location field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer returned %d: %s", resp.StatusCode, payload)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	return &res, nil
}
