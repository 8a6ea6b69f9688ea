package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/joseph-ayodele/resume-intake/internal/common"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
	"github.com/joseph-ayodele/resume-intake/internal/extract"
)

// ExtractFields implements extract.FieldExtractor by sending the resume
// inline (bytes + MIME type) together with the fixed nine-field instruction,
// constrained by a structured-output schema. One attempt, no retry: a
// failure here is the terminal failure for the record.
func (c *Client) ExtractFields(ctx context.Context, req extract.ExtractRequest) (entity.ResumeFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"mime_type", req.MIMEType,
		"file", req.FileName,
		"payload_bytes", len(req.FileBase64),
	)

	data, err := base64.StdEncoding.DecodeString(req.FileBase64)
	if err != nil {
		c.logger.Error("extract.decode_payload_failed", "req_id", rid, "error", err)
		return entity.ResumeFields{}, nil, common.NewAppError("EXTRACTION_ERROR", "decode payload", common.ErrExtraction)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: data}},
			{Text: extract.Instruction},
		},
	}}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   extract.ResponseSchema(),
		Temperature:      genai.Ptr(c.cfg.Temperature),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.Model, contents, cfg)
	if err != nil {
		c.logger.Error("extract.call_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ResumeFields{}, nil, common.NewAppError("EXTRACTION_ERROR", "generate content", common.ErrExtraction)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		c.logger.Error("extract.empty_response",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ResumeFields{}, nil, common.NewAppError("EXTRACTION_ERROR", "no response text generated", common.ErrExtraction)
	}
	raw := []byte(text)

	if err := extract.ValidateJSONAgainstSchema(extract.BuildResumeJSONSchema(), raw); err != nil {
		c.logger.Error("extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", text,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ResumeFields{}, raw, common.NewAppError("EXTRACTION_ERROR", fmt.Sprintf("schema validation: %v", err), common.ErrExtraction)
	}

	var out entity.ResumeFields
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Error("extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ResumeFields{}, raw, common.NewAppError("EXTRACTION_ERROR", "unmarshal fields", common.ErrExtraction)
	}

	c.logger.Info("extract.ok",
		"req_id", rid,
		"name", out.Name,
		"city", out.HouseholdCity,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, raw, nil
}
