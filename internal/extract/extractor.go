package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

// ErrUnsupportedFormat is returned for any media type outside PDF,
// word-processor documents and images.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractionError wraps a primary-parser or OCR failure. An analyze request
// that hits one terminates with no partial result and no cache write.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// OCREngine recognizes text in a raw file. Implemented by TesseractEngine;
// faked in tests.
type OCREngine interface {
	Recognize(ctx context.Context, file []byte, languageHint string) (string, error)
}

// Extractor turns an uploaded file plus its declared media type into plain
// text and a page count, falling back to OCR when primary extraction yields
// too little text.
type Extractor struct {
	cfg    config.ExtractionConfig
	ocr    OCREngine
	logger logger.Logger

	// Overridable in tests.
	parsePDF  func([]byte) (models.ExtractedText, error)
	parseDOCX func([]byte) (string, error)
}

func NewExtractor(cfg config.ExtractionConfig, ocr OCREngine, log logger.Logger) *Extractor {
	return &Extractor{
		cfg:       cfg,
		ocr:       ocr,
		logger:    log,
		parsePDF:  parsePDFBytes,
		parseDOCX: parseDOCXBytes,
	}
}

// Extract dispatches on the declared media type. The language hint is passed
// through to the OCR engine only.
func (e *Extractor) Extract(ctx context.Context, file []byte, mediaType string, languageHint string) (models.ExtractedText, error) {
	switch normalizeMediaType(mediaType) {
	case models.MediaTypePDF:
		return e.extractPDF(ctx, file, languageHint)
	case models.MediaTypeDOC, models.MediaTypeDOCX:
		return e.extractWord(file)
	case models.MediaTypeJPEG, models.MediaTypePNG, models.MediaTypeTIFF:
		return e.extractImage(ctx, file, languageHint)
	default:
		return models.ExtractedText{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, file []byte, languageHint string) (models.ExtractedText, error) {
	primary, err := e.parsePDF(file)
	if err != nil {
		return models.ExtractedText{}, &ExtractionError{Stage: "pdf", Err: err}
	}

	if len(strings.TrimSpace(primary.Text)) >= e.cfg.PDFMinChars {
		return primary, nil
	}

	// Too little text: treat as a scanned/image-only PDF and OCR the file.
	// The page count still comes from primary extraction metadata.
	e.logger.Info("PDF text below threshold, falling back to OCR",
		logger.Int("chars", len(strings.TrimSpace(primary.Text))),
		logger.Int("threshold", e.cfg.PDFMinChars),
	)

	text, err := e.ocr.Recognize(ctx, file, languageHint)
	if err != nil {
		return models.ExtractedText{}, &ExtractionError{Stage: "ocr", Err: err}
	}

	return models.ExtractedText{Text: text, PageCount: primary.PageCount}, nil
}

// extractWord parses raw text out of the DOCX container. Running an image
// OCR engine over a zip archive can never succeed, so a document with too
// little extractable text fails outright instead of falling back.
func (e *Extractor) extractWord(file []byte) (models.ExtractedText, error) {
	text, err := e.parseDOCX(file)
	if err != nil {
		return models.ExtractedText{}, &ExtractionError{Stage: "docx", Err: err}
	}

	if len(strings.TrimSpace(text)) < e.cfg.DOCXMinChars {
		return models.ExtractedText{}, &ExtractionError{
			Stage: "docx",
			Err:   fmt.Errorf("document yielded %d characters, need at least %d", len(strings.TrimSpace(text)), e.cfg.DOCXMinChars),
		}
	}

	return models.ExtractedText{Text: text, PageCount: 1}, nil
}

func (e *Extractor) extractImage(ctx context.Context, file []byte, languageHint string) (models.ExtractedText, error) {
	text, err := e.ocr.Recognize(ctx, file, languageHint)
	if err != nil {
		return models.ExtractedText{}, &ExtractionError{Stage: "ocr", Err: err}
	}
	return models.ExtractedText{Text: text, PageCount: 1}, nil
}

// normalizeMediaType drops parameters ("; charset=...") and maps common
// aliases onto the canonical types.
func normalizeMediaType(mediaType string) models.MediaType {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "image/jpg":
		return models.MediaTypeJPEG
	default:
		return models.MediaType(mt)
	}
}
