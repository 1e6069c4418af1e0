// Package tts provides the HTTP client for the remote text-to-speech service.
//
// The client wraps the two endpoints the service exposes: speech generation
// and the voice catalogue. It performs exactly one request per call and never
// retries; cancellation is left to the caller's context.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/book-expert/tts-studio/internal/core"
)

// API endpoints and paths.
const (
	apiGenerateSpeech = "/api/tts"
	apiVoices         = "/api/voices"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	acceptAudio       = "audio/*"
	defaultAudioType  = "audio/wav"
)

// Error messages.
const (
	errFmtRequestFailed       = "API request failed with status %d"
	errFmtRequestFailedDetail = "API request failed with status %d: %s"
	maxErrorBodyBytes         = 4096
)

var (
	// ErrNetwork marks transport-level failures (connection refused, DNS, reset).
	ErrNetwork = errors.New("network error")
	// ErrInvalidResponse marks a 2xx response whose body could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from TTS service")
)

// RequestFailedError is returned when the service answers with a non-2xx status.
type RequestFailedError struct {
	StatusCode int
	// Detail holds the service's own error message when it sent one.
	Detail string
}

func (e *RequestFailedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf(errFmtRequestFailedDetail, e.StatusCode, e.Detail)
	}

	return fmt.Sprintf(errFmtRequestFailed, e.StatusCode)
}

// HTTPClient represents a client for the TTS HTTP service.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// errorResponse is the JSON error body returned by the service.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPClient creates a client for the service at baseURL
// (e.g., "http://localhost:8000"). A zero timeout leaves requests unbounded
// apart from the context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the service address the client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// GenerateSpeech posts the text and voice settings and returns the audio body.
func (c *HTTPClient) GenerateSpeech(
	ctx context.Context,
	text string,
	settings core.VoiceSettings,
) (core.Audio, error) {
	requestBody, err := json.Marshal(core.GenerationRequest{
		Text:          text,
		VoiceSettings: settings,
	})
	if err != nil {
		return core.Audio{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiGenerateSpeech,
		bytes.NewReader(requestBody),
	)
	if err != nil {
		return core.Audio{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, acceptAudio)

	resp, err := c.do(httpReq)
	if err != nil {
		return core.Audio{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return core.Audio{}, parseErrorResponse(resp)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Audio{}, fmt.Errorf("%w: failed to read audio data: %w", ErrNetwork, err)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType == "" {
		contentType = defaultAudioType
	}

	return core.Audio{Data: audioData, ContentType: contentType}, nil
}

// GetAvailableVoices fetches the voice catalogue.
func (c *HTTPClient) GetAvailableVoices(ctx context.Context) ([]core.Voice, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiVoices, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}

	httpReq.Header.Set(headerAccept, contentTypeJSON)

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, parseErrorResponse(resp)
	}

	var voices []core.Voice

	err = json.NewDecoder(resp.Body).Decode(&voices)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode voices: %w", ErrInvalidResponse, err)
	}

	return voices, nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: request to TTS service at %s failed: %w",
			ErrNetwork,
			c.baseURL,
			err,
		)
	}

	return resp, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// parseErrorResponse builds a RequestFailedError, keeping the service's JSON
// error message or, failing that, the raw body.
func parseErrorResponse(resp *http.Response) error {
	failure := &RequestFailedError{StatusCode: resp.StatusCode}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if readErr != nil || len(body) == 0 {
		return failure
	}

	var errorResp errorResponse

	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error != "" {
		failure.Detail = errorResp.Error

		return failure
	}

	failure.Detail = strings.TrimSpace(string(body))

	return failure
}
