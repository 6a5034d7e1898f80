package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
)

const pdfPageWorkers = 4

// parsePDFBytes runs primary PDF text extraction. Pages are parsed
// concurrently but reassembled in page order; a PDF reporting zero pages
// still counts as one.
func parsePDFBytes(content []byte) (models.ExtractedText, error) {
	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return models.ExtractedText{}, err
	}

	numPages := pdfReader.NumPage()
	pages := make([]string, numPages)

	var g errgroup.Group
	g.SetLimit(pdfPageWorkers)

	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() error {
			page := pdfReader.Page(pageNum)
			if page.V.IsNull() {
				return nil
			}

			text, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
			}

			pages[pageNum-1] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.ExtractedText{}, err
	}

	pageCount := numPages
	if pageCount < 1 {
		pageCount = 1
	}

	return models.ExtractedText{
		Text:      strings.Join(pages, "\n"),
		PageCount: pageCount,
	}, nil
}
