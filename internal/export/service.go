// Package export serializes completed records into spreadsheet-friendly
// files.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-intake/internal/entity"
)

// Headers is the fixed 11-column export header. Column order is part of the
// product contract (it mirrors the hiring team's master sheet).
var Headers = []string{
	"上傳日期",
	"姓名",
	"性別",
	"出生日期",
	"手機1",
	"工作經驗",
	"特殊身份",
	"工作經驗一公司名稱",
	"工作經驗一職務名稱",
	"戶籍縣市",
	"檔案連結",
}

// utf8BOM lets spreadsheet applications detect the encoding of the CSV.
const utf8BOM = "\uFEFF"

// Service produces CSV and XLSX exports from a record snapshot.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// CSVContent renders records as CSV: the fixed header, then one row per
// record whose fields are set (pending/processing/errored records contribute
// zero rows), in insertion order. Every cell is quoted with internal quotes
// doubled so commas, quotes and newlines inside extracted text survive.
func (s *Service) CSVContent(records []entity.ResumeRecord) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, joinRow(Headers))
	for _, r := range records {
		if r.Fields == nil {
			continue
		}
		lines = append(lines, joinRow(rowFor(r)))
	}
	return strings.Join(lines, "\n")
}

// WriteCSVFile writes the CSV content to path, prefixed with a UTF-8 BOM.
func (s *Service) WriteCSVFile(path string, records []entity.ResumeRecord) error {
	content := s.CSVContent(records)
	if err := os.WriteFile(path, []byte(utf8BOM+content), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	s.logger.Info("export.csv.ok", "path", path, "rows", strings.Count(content, "\n"))
	return nil
}

// CSVFileName returns the export name for today: <label>_<YYYY-MM-DD>.csv.
func CSVFileName(label string) string {
	return fmt.Sprintf("%s_%s.csv", label, time.Now().Format("2006-01-02"))
}

// XLSXContent renders the same 11 columns as an XLSX workbook.
func (s *Service) XLSXContent(records []entity.ResumeRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Resumes"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		if r.Fields == nil {
			continue
		}
		for col, v := range rowFor(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 12) // date
	_ = f.SetColWidth(sheet, "B", "B", 14) // name
	_ = f.SetColWidth(sheet, "F", "F", 18) // experience
	_ = f.SetColWidth(sheet, "H", "I", 24) // company, title
	_ = f.SetColWidth(sheet, "K", "K", 60) // link

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteXLSXFile writes the XLSX workbook to path.
func (s *Service) WriteXLSXFile(path string, records []entity.ResumeRecord) error {
	b, err := s.XLSXContent(records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func rowFor(r entity.ResumeRecord) []string {
	f := r.Fields
	return []string{
		r.UploadDate,
		f.Name,
		f.Gender,
		f.DateOfBirth,
		f.Mobile,
		f.WorkExperienceYears,
		f.SpecialIdentity,
		f.LastCompanyName,
		f.LastJobTitle,
		f.HouseholdCity,
		r.FileLink,
	}
}

func joinRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
