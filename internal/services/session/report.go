package session

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/bobmcallan/advisor/internal/extract"
	"github.com/bobmcallan/advisor/internal/models"
)

// extractPDFText extracts text content from raw PDF bytes. Pages that fail
// to decode are skipped.
func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	totalPages := r.NumPage()

	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// analyzeReport runs the extraction catalogue over report text and wraps
// the result with identity and provenance.
func analyzeReport(reference, text string) *models.ReportAnalysis {
	return &models.ReportAnalysis{
		ID:        uuid.New().String(),
		Reference: reference,
		Metrics:   extract.Extract(text),
		Timestamp: time.Now(),
	}
}
