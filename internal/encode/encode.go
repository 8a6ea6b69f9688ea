// Package encode turns raw resume files into the transport-safe payload the
// extraction and upload clients send over the wire.
package encode

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/common"
)

// Payload is one file ready for transport: raw bytes plus the base64 form
// (no data-URI prefix) and the resolved MIME type.
type Payload struct {
	Raw      []byte
	Base64   string
	MIMEType string
}

// ReadFile reads path and returns its encoded payload. A read failure is
// wrapped as an encoding error and propagated, never swallowed.
func ReadFile(path string) (Payload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, common.NewAppError("ENCODING_ERROR", "read file "+path, common.ErrEncoding)
	}
	return Payload{
		Raw:      b,
		Base64:   base64.StdEncoding.EncodeToString(b),
		MIMEType: MIMETypeForPath(path),
	}, nil
}

// MIMETypeForPath resolves a MIME type from the file extension, preferring
// the platform registry and falling back to the ingestion contract's fixed
// mapping (resumes default to PDF).
func MIMETypeForPath(path string) string {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if mt := mime.TypeByExtension("." + ext); mt != "" {
		return mt
	}
	return constants.MIMETypeForExt(ext)
}
