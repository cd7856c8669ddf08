package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/kraftwerte/internal/model"
	"github.com/2beens/kraftwerte/internal/telemetry/tracing"
)

const RequestIDHeader = "X-Request-Id"

// APIError is a non-2xx answer of the weights API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the /weights resource family. Every call issues exactly one request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:8000/weights.
// A nil httpClient gets a traced default one.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListExercises(ctx context.Context) (_ []model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weights.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exercises []model.Exercise
	found, err := c.do(ctx, http.MethodGet, "/", nil, &exercises)
	if err != nil || !found {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

func (c *Client) GetExercise(ctx context.Context, id int) (_ *model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weights.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	var exercise model.Exercise
	found, err := c.do(ctx, http.MethodGet, "/"+strconv.Itoa(id), nil, &exercise)
	if err != nil || !found {
		return nil, err
	}
	return &exercise, nil
}

func (c *Client) CreateExercise(ctx context.Context, req model.CreateExercise) (_ *model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weights.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exercise model.Exercise
	found, err := c.do(ctx, http.MethodPost, "/", req, &exercise)
	if err != nil || !found {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	return &exercise, nil
}

func (c *Client) UpdateExercise(ctx context.Context, id int, req model.UpdateExercise) (_ *model.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weights.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	var exercise model.Exercise
	found, err := c.do(ctx, http.MethodPut, "/"+strconv.Itoa(id), req, &exercise)
	if err != nil || !found {
		return nil, err
	}
	return &exercise, nil
}

func (c *Client) DeleteExercise(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weights.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	_, err = c.do(ctx, http.MethodDelete, "/"+strconv.Itoa(id), nil, nil)
	return err
}

func (c *Client) AddWeightEntry(ctx context.Context, exerciseID int, weight float64) (_ *model.WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weights.addWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))
	span.SetAttributes(attribute.Float64("weight", weight))

	var entry model.WeightEntry
	found, err := c.do(
		ctx,
		http.MethodPost,
		fmt.Sprintf("/%d/weighthistory", exerciseID),
		model.NewWeightEntry{Weight: weight},
		&entry,
	)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) GetWeightHistory(ctx context.Context, exerciseID int) (_ []model.WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "client.weights.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	var entries []model.WeightEntry
	found, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%d/weighthistory", exerciseID), nil, &entries)
	if err != nil || !found {
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}

// do sends one request and decodes a JSON answer into out. found is false
// when the answer carries no usable body (204, empty, null or not JSON).
func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) (found bool, err error) {
	url := c.baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Tracef("--> %s %s [%s]", method, url, req.Header.Get(RequestIDHeader))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, &TransportError{Method: method, URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	log.Tracef("<-- %s %s: %d (%d bytes)", method, url, resp.StatusCode, len(respBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, newAPIError(resp.StatusCode, respBytes)
	}

	trimmed := bytes.TrimSpace(respBytes)
	if resp.StatusCode == http.StatusNoContent || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}

	if out == nil {
		return true, nil
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		log.Warnf("%s %s: response not parsable, treating as empty: %s", method, url, err)
		return false, nil
	}

	return true, nil
}

func newAPIError(statusCode int, respBytes []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP error! Status: %d", statusCode),
	}

	var errBody model.ErrorBody
	if err := json.Unmarshal(respBytes, &errBody); err == nil {
		if text := errBody.Text(); text != "" {
			apiErr.Message = text
		}
	}

	return apiErr
}
