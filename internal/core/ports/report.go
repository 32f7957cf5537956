package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmagen/pharmagen/internal/core/domain/report"
)

// ReportService builds the finished report record for a session.
type ReportService interface {
	// BuildReport assembles the translated report for the session, or an error
	// if no assessment has been generated yet.
	BuildReport(ctx context.Context, sessionID uuid.UUID) (*report.Report, error)
}

// ReportRenderer turns a finished report record into a downloadable document.
type ReportRenderer interface {
	// Render produces the document bytes and a suggested filename.
	Render(r *report.Report) (data []byte, filename string, err error)
}
