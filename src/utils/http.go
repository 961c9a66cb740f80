package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPError is returned for responses with a status of 400 or above. Body holds the raw payload
// so callers can decode API specific error envelopes.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, string(e.Body))
}

func GetJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GetJSON (NewRequest): %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return do(client, req, "GetJSON")
}

func PostJSON(ctx context.Context, client *http.Client, url string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("PostJSON (Marshal): %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("PostJSON (NewRequest): %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return do(client, req, "PostJSON")
}

func do(client *http.Client, req *http.Request, caller string) ([]byte, error) {
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s (Do): %w", caller, err)
	}

	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s (ReadAll): %w", caller, err)
	}

	if res.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: bodyBytes}
	}

	return bodyBytes, nil
}
