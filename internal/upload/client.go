// Package upload talks to the user-deployed Apps Script endpoint that
// persists resume files and their extracted fields.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/internal/common"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
)

// Uploader is the behavior the queue processor depends on.
type Uploader interface {
	Upload(ctx context.Context, filename, mimeType, fileBase64 string, fields entity.ResumeFields) (string, error)
}

// Client is a single-attempt JSON client for the script endpoint.
// No retry and no queuing of failed uploads: the processor treats a failure
// as non-fatal and falls back to a local file reference.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

type request struct {
	Action      string               `json:"action"`
	Filename    string               `json:"filename,omitempty"`
	MIMEType    string               `json:"mimeType,omitempty"`
	FileContent string               `json:"fileContent,omitempty"`
	ResumeData  *entity.ResumeFields `json:"resumeData,omitempty"`
}

type response struct {
	Result string `json:"result"`
	URL    string `json:"url"`
	Error  string `json:"error"`
}

func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    url,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Upload sends the file plus its extracted fields as one payload and returns
// the public URL the endpoint reports.
func (c *Client) Upload(ctx context.Context, filename, mimeType, fileBase64 string, fields entity.ResumeFields) (string, error) {
	res, err := c.post(ctx, request{
		Action:      "upload",
		Filename:    filename,
		MIMEType:    mimeType,
		FileContent: fileBase64,
		ResumeData:  &fields,
	})
	if err != nil {
		return "", err
	}
	if res.Result != "success" || res.URL == "" {
		msg := res.Error
		if msg == "" {
			msg = "script returned error"
		}
		return "", common.NewAppError("UPLOAD_ERROR", msg, common.ErrUpload)
	}
	return res.URL, nil
}

// Probe sends the connectivity handshake ({action:"test"}) and reports
// whether the endpoint answers with {result:"success"}.
func (c *Client) Probe(ctx context.Context) error {
	res, err := c.post(ctx, request{Action: "test"})
	if err != nil {
		return err
	}
	if res.Result != "success" {
		msg := res.Error
		if msg == "" {
			msg = "unexpected probe response"
		}
		return common.NewAppError("UPLOAD_ERROR", msg, common.ErrUpload)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body request) (response, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return response{}, common.NewAppError("UPLOAD_ERROR", "encode payload", common.ErrUpload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bs))
	if err != nil {
		return response{}, common.NewAppError("UPLOAD_ERROR", "build request", common.ErrUpload)
	}
	// Apps Script web apps cannot answer CORS preflights, so the browser
	// client posts JSON as text/plain. The endpoint depends on it; keep the
	// contract identical here.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	c.logger.Info("upload.request",
		"req_id", reqID,
		"action", body.Action,
		"content_length", len(bs),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("upload.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return response{}, common.NewAppError("UPLOAD_ERROR", err.Error(), common.ErrUpload)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("upload.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("upload.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return response{}, common.NewAppError("UPLOAD_ERROR", fmt.Sprintf("non-2xx status: %d", resp.StatusCode), common.ErrUpload)
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return response{}, common.NewAppError("UPLOAD_ERROR", "decode script response", common.ErrUpload)
	}
	return out, nil
}
