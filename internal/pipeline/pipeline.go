package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/aiparse"
	"github.com/medvault/medvault/internal/content"
	"github.com/medvault/medvault/internal/mapper"
)

// Outcome is the end-to-end result of parsing one document. At most one
// of Prescription and MedicalReport is non-nil, matching
// DetectedCategory; both are nil when extraction or recovery failed
// outright, in which case Diagnostic says why and Raw keeps whatever came
// back. DetectedCategory is always populated so the caller can record the
// document's type even without a usable parse.
type Outcome struct {
	DetectedCategory  constants.DocumentCategory
	SuggestedFileName string
	Status            constants.ParseStatus
	Diagnostic        string
	Prescription      *mapper.PrescriptionRecord
	MedicalReport     *mapper.MedicalReportRecord
	Raw               aiparse.ExtractionResult
}

// Pipeline runs adapt, classify, extract, recover and map as one unit.
type Pipeline struct {
	parser aiparse.DocumentParser
	logger *slog.Logger
}

func New(parser aiparse.DocumentParser, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{parser: parser, logger: logger}
}

// Parse never returns an error: failures at any stage surface as a
// failed-status outcome so the caller can persist the document with its
// diagnostics either way.
func (p *Pipeline) Parse(ctx context.Context, data []byte, format constants.FileFormat, apiKey string, categoryHint string) Outcome {
	rid := uuid.New().String()
	start := time.Now()

	payload := content.Adapt(data, format)
	p.logger.Info("pipeline.parse.start",
		"req_id", rid,
		"kind", payload.Kind,
		"mime", payload.MimeType,
		"bytes", len(data),
		"hint", categoryHint,
	)

	res := p.parser.ParseDocument(ctx, payload, apiKey, categoryHint)

	out := Outcome{
		DetectedCategory:  res.DetectedCategory(),
		SuggestedFileName: res.Str(aiparse.KeySuggestedName),
		Raw:               res,
	}
	if res.Status() == constants.ParseStatusFailed {
		out.Status = constants.ParseStatusFailed
		out.Diagnostic = res.Str(aiparse.KeyError)
		p.logger.Warn("pipeline.parse.failed",
			"req_id", rid,
			"category", out.DetectedCategory,
			"diagnostic", out.Diagnostic,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return out
	}
	if out.DetectedCategory == constants.CategoryMedicalReport {
		rec := mapper.MapToMedicalReport(res)
		out.MedicalReport = rec
		out.Status = rec.Status
	} else {
		rec := mapper.MapToPrescription(res)
		out.Prescription = rec
		out.Status = rec.Status
	}

	p.logger.Info("pipeline.parse.done",
		"req_id", rid,
		"category", out.DetectedCategory,
		"status", out.Status,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}
