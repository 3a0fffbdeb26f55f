package docai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kiameta/internal/config"
	"kiameta/internal/domain"
	"kiameta/internal/port"
)

// Client implements port.DocumentProcessor against the document-understanding
// service's HTTP API.
type Client struct {
	endpoint    string
	processorID string
	apiKey      string
	client      *http.Client
}

// NewClient creates a document-understanding service client.
func NewClient(cfg *config.DocAIConfig) *Client {
	return NewClientWithEndpoint(cfg, cfg.Endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.DocAIConfig, endpoint string) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint:    endpoint,
		processorID: cfg.ProcessorID,
		apiKey:      cfg.APIKey,
		client:      &http.Client{Timeout: timeout},
	}
}

// processRequest is the wire shape of a synchronous extraction request.
type processRequest struct {
	Source   sourceRef `json:"source"`
	MimeType string    `json:"mimeType"`
}

type sourceRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type processResponse struct {
	Document rawDocument `json:"document"`
}

type batchRequest struct {
	Source       sourceRef `json:"source"`
	MimeType     string    `json:"mimeType"`
	OutputBucket string    `json:"outputBucket"`
	OutputPrefix string    `json:"outputPrefix"`
}

type batchResponse struct {
	Name string `json:"name"`
}

type operationResponse struct {
	Done  bool `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Process(ctx context.Context, loc domain.SourceLocator, mimeType string) (*domain.ExtractedDocument, error) {
	url := fmt.Sprintf("%s/v1/processors/%s:process", c.endpoint, c.processorID)
	reqBody := processRequest{
		Source:   sourceRef{Bucket: loc.Bucket, Key: loc.Key},
		MimeType: mimeType,
	}

	respBody, err := c.post(ctx, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: process %s: %v", domain.ErrExtractionFailed, loc.URI(), err)
	}

	var resp processResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: process %s: decoding response: %v", domain.ErrExtractionFailed, loc.URI(), err)
	}

	doc := Normalize(&resp.Document)
	doc.Source = loc
	doc.MIMEType = mimeType
	return doc, nil
}

func (c *Client) SubmitBatch(ctx context.Context, loc domain.SourceLocator, mimeType string, outputBucket, outputPrefix string) (string, error) {
	url := fmt.Sprintf("%s/v1/processors/%s:batchProcess", c.endpoint, c.processorID)
	reqBody := batchRequest{
		Source:       sourceRef{Bucket: loc.Bucket, Key: loc.Key},
		MimeType:     mimeType,
		OutputBucket: outputBucket,
		OutputPrefix: outputPrefix,
	}

	respBody, err := c.post(ctx, url, reqBody)
	if err != nil {
		return "", fmt.Errorf("submit batch %s: %w", loc.URI(), err)
	}

	var resp batchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("submit batch %s: decoding response: %w", loc.URI(), err)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("submit batch %s: service returned no job name", loc.URI())
	}
	return resp.Name, nil
}

func (c *Client) PollJob(ctx context.Context, jobID string) (*port.JobState, error) {
	url := fmt.Sprintf("%s/v1/%s", c.endpoint, jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll job %s: %w", jobID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("poll job %s: reading response: %w", jobID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll job %s: service error (status %d): %s", jobID, resp.StatusCode, respBody)
	}

	var op operationResponse
	if err := json.Unmarshal(respBody, &op); err != nil {
		return nil, fmt.Errorf("poll job %s: decoding response: %w", jobID, err)
	}

	switch {
	case op.Error != nil:
		return &port.JobState{Status: port.JobStatusFailed, Message: op.Error.Message}, nil
	case op.Done:
		return &port.JobState{Status: port.JobStatusSucceeded}, nil
	default:
		return &port.JobState{Status: port.JobStatusRunning}, nil
	}
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling document service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service error (status %d): %s", resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
