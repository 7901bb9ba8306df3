package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"imagerelay/internal/convert"
	"imagerelay/internal/core"
)

// UpstreamClient posts generation payloads to the Gemini API.
type UpstreamClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewUpstreamClient creates an upstream client
func NewUpstreamClient(httpClient *http.Client, baseURL, apiKey string) *UpstreamClient {
	return &UpstreamClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Send posts payload to model's endpoint and returns the raw 200 body.
// Non-200 responses become UpstreamFailure carrying the upstream status;
// failures below HTTP become TransportFailure.
func (u *UpstreamClient) Send(ctx context.Context, model core.ModelDescriptor, payload []byte) ([]byte, error) {
	endpoint := convert.EndpointURL(u.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	req.Header.Set(core.HeaderAccept, core.ContentTypeJSON)
	req.Header.Set(core.HeaderGoogAPIKey, u.apiKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, core.ErrTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
	if err != nil {
		return nil, core.ErrTransport(fmt.Errorf("failed to read upstream response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, core.ErrUpstream(resp.StatusCode, convert.ExtractUpstreamErrorMessage(body))
	}
	return body, nil
}
