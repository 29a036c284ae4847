package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client calls a remote discovery API exposing the same pipeline.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Discoverer = (*Client)(nil)

// NewClient creates a client for the discovery API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// APIError is a non-2xx response from the discovery API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discovery API returned %d: %s", e.StatusCode, e.Detail)
}

// Discover posts the image and grade level as multipart form data.
func (c *Client) Discover(ctx context.Context, img Image, gradeLevel string) (*FullDiscovery, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("image", "capture.jpg")
	if err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if err := w.WriteField("grade_level", gradeLevel); err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/generate-full-discovery", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out FullDiscovery
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pathfinder posts the skill map as JSON.
func (c *Client) Pathfinder(ctx context.Context, userSkills map[string]int, gradeLevel string) (*PathfinderGuidance, error) {
	payload := struct {
		UserSkills map[string]int `json:"user_skills"`
		GradeLevel string         `json:"grade_level"`
	}{UserSkills: userSkills, GradeLevel: gradeLevel}

	var out PathfinderGuidance
	if err := c.postJSON(ctx, "/api/pathfinder", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tutor posts the question, history, and context as JSON.
func (c *Client) Tutor(ctx context.Context, input TutorInput) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/tutor", input, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("discovery API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     readErrorDetail(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode discovery API response: %w", err)
	}
	return nil
}

// readErrorDetail extracts the "detail" field from an error body,
// falling back to the raw text.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(raw))
}
