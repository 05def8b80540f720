package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/airchat/internal/errors"
	"github.com/diogo/airchat/internal/models"
)

var errClientClosed = errors.New("client is closed")

// Ask posts the question to the service and returns its answer.
// A reply without an answer field yields models.FallbackAnswer.
func (c *AirlineClient) Ask(ctx context.Context, question string) (string, error) {
	if c.IsClosed() {
		return "", apierrors.NewNetworkError(c.endpoint, errClientClosed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	answer, err := c.doAsk(ctx, question)
	duration := time.Since(start)

	if err != nil {
		c.logger.Debug("service call failed",
			"endpoint", c.endpoint,
			"duration", duration,
			"error", err,
		)
		return "", err
	}

	c.logger.Debug("service call completed",
		"endpoint", c.endpoint,
		"duration", duration,
		"answer_len", len(answer),
	)
	return answer, nil
}

// doAsk performs the actual request
func (c *AirlineClient) doAsk(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(models.QuestionRequest{Question: question})
	if err != nil {
		return "", apierrors.NewNetworkError(c.endpoint, fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apierrors.NewNetworkError(c.endpoint, fmt.Errorf("failed to create request: %w", err))
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.classify(ctx, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", c.classify(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apierrors.NewStatusError(resp.StatusCode, c.endpoint, string(body))
	}

	return parseAnswer(body, c.endpoint)
}

// classify maps a transport error to a timeout or network failure
func (c *AirlineClient) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(c.endpoint, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError(c.endpoint, err)
	}

	return apierrors.NewNetworkError(c.endpoint, err)
}

// parseAnswer extracts the answer field from a JSON body
func parseAnswer(body []byte, endpoint string) (string, error) {
	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewDecodeError(endpoint, fmt.Errorf("body is not valid JSON (%d bytes)", len(body)))
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return "", apierrors.NewDecodeError(endpoint, fmt.Errorf("expected a JSON object, got %s", parsed.Type))
	}

	answer := parsed.Get(PathAnswer)
	switch {
	case !answer.Exists(), answer.Type == gjson.Null:
		return models.FallbackAnswer, nil
	case answer.Type == gjson.String:
		return answer.String(), nil
	default:
		// Numbers, booleans and nested values are shown as their JSON text.
		return answer.Raw, nil
	}
}
