package extract

import (
	"context"

	"github.com/joseph-ayodele/resume-intake/internal/entity"
)

// ExtractRequest carries one encoded resume to the extraction model.
type ExtractRequest struct {
	FileBase64 string // base64 content, no data-URI prefix
	MIMEType   string
	FileName   string // hint for logging only, never sent to the model
}

// FieldExtractor is the interface the queue processor depends on.
// The raw JSON returned alongside the fields is kept for diagnostics.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (entity.ResumeFields, []byte, error)
}
