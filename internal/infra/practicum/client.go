// Package practicum implements homework.StatusSource over the Practicum homework-statuses API.
package practicum

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client handles communication with the homework-statuses endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewClient creates a client. A non-positive timeout uses the default.
func NewClient(endpoint, token string, timeout time.Duration, logger *logrus.Entry) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch requests review records created at or after since and returns the raw body.
func (c *Client) Fetch(ctx context.Context, since homework.Checkpoint) (homework.FetchResult, error) {
	if since == 0 {
		since = homework.Now()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &homework.TransportError{Endpoint: c.endpoint, Err: err}
	}
	q := req.URL.Query()
	q.Set("from_date", strconv.FormatInt(int64(since), 10))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", int64(since)).Debug("Requesting homework statuses")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &homework.TransportError{Endpoint: c.endpoint, Err: stripURL(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &homework.UpstreamStatusError{Endpoint: c.endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &homework.TransportError{Endpoint: c.endpoint, Err: fmt.Errorf("reading body: %w", stripURL(err))}
	}
	return homework.FetchResult(body), nil
}

// stripURL drops the *url.Error wrapper, whose text embeds the from_date query.
// Error suppression compares texts, so they must not change with the checkpoint.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
