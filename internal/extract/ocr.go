package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

// minOCRWidth is the width below which scans are upscaled before
// recognition; small images OCR poorly.
const minOCRWidth = 1024

// TesseractEngine is the gosseract-backed OCREngine. A fresh client is
// created per call because gosseract clients are not safe for concurrent
// use.
type TesseractEngine struct {
	cfg    config.OCRConfig
	logger logger.Logger
}

func NewTesseractEngine(cfg config.OCRConfig, log logger.Logger) *TesseractEngine {
	return &TesseractEngine{
		cfg:    cfg,
		logger: log,
	}
}

// Recognize runs Tesseract over the file with a bounded timeout. The
// language hint, when given, is appended to the configured languages.
func (t *TesseractEngine) Recognize(ctx context.Context, file []byte, languageHint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	input := t.preprocess(file)

	type ocrResult struct {
		text string
		err  error
	}
	done := make(chan ocrResult, 1)

	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		langs := t.languages(languageHint)
		if err := client.SetLanguage(langs...); err != nil {
			done <- ocrResult{err: fmt.Errorf("failed to set OCR languages %v: %w", langs, err)}
			return
		}

		if err := client.SetImageFromBytes(input); err != nil {
			done <- ocrResult{err: fmt.Errorf("failed to load image: %w", err)}
			return
		}

		text, err := client.Text()
		done <- ocrResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("ocr failed: %w", res.err)
		}
		return strings.TrimSpace(res.text), nil
	case <-ctx.Done():
		return "", fmt.Errorf("ocr timed out: %w", ctx.Err())
	}
}

// preprocess decodes, grayscales and upscales the image when possible.
// Files Go cannot decode (TIFF, scanned PDFs) pass through untouched and
// are handed to Tesseract as-is.
func (t *TesseractEngine) preprocess(file []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(file))
	if err != nil {
		return file
	}

	processed := imaging.Grayscale(img)
	if width := processed.Bounds().Dx(); width > 0 && width < minOCRWidth {
		processed = imaging.Resize(processed, minOCRWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, processed, imaging.PNG); err != nil {
		t.logger.Warn("image preprocessing failed, using original",
			logger.String("format", format),
			logger.Error(err),
		)
		return file
	}
	return buf.Bytes()
}

func (t *TesseractEngine) languages(hint string) []string {
	langs := append([]string(nil), t.cfg.Languages...)
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return langs
	}
	for _, l := range langs {
		if l == hint {
			return langs
		}
	}
	return append(langs, hint)
}
