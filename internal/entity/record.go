package entity

import (
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// ResumeFields is the structured output extracted from one resume.
// All values are free-form text as extracted; only Name is required to be
// non-empty. The JSON keys are the upload wire contract and must not change.
type ResumeFields struct {
	Name                string `json:"name"`
	Gender              string `json:"gender"`
	DateOfBirth         string `json:"dob"`
	Mobile              string `json:"mobile"`
	WorkExperienceYears string `json:"workExperienceYears"`
	SpecialIdentity     string `json:"specialIdentity"`
	LastCompanyName     string `json:"lastCompanyName"`
	LastJobTitle        string `json:"lastJobTitle"`
	HouseholdCity       string `json:"householdCity"`
}

// ResumeRecord tracks one ingested resume file through the pipeline.
//
// Invariants: Fields is set iff Status == SUCCESS; ErrorMessage is set iff
// Status == ERROR. FileName and UploadDate are immutable after ingestion.
type ResumeRecord struct {
	ID           uuid.UUID              `json:"id"`
	FileName     string                 `json:"file_name"`
	SourcePath   string                 `json:"source_path"`
	MIMEType     string                 `json:"mime_type"`
	UploadDate   string                 `json:"upload_date"` // YYYY-MM-DD
	Status       constants.RecordStatus `json:"status"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Fields       *ResumeFields          `json:"fields,omitempty"`
	FileLink     string                 `json:"file_link,omitempty"`
}
