package models

// MediaType identifies the declared upload format.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeDOC  MediaType = "application/msword"
	MediaTypeDOCX MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeJPEG MediaType = "image/jpeg"
	MediaTypePNG  MediaType = "image/png"
	MediaTypeTIFF MediaType = "image/tiff"
)

// ExtractedText is the extractor's output. Never mutated after creation.
type ExtractedText struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
}

// Meta carries page-level metadata alongside the analysis body.
type Meta struct {
	Pages        int               `json:"pages"`
	PageMetadata map[string]string `json:"pageMetadata"`
}

// Analysis is the structured result of one engine run. Stored under its
// fingerprint in the cache in the document's source language; translated
// copies are derived on read and never written back.
type Analysis struct {
	Summary      string            `json:"summary"`
	Clauses      []string          `json:"clauses"`
	Risks        []string          `json:"risks"`
	Suggestions  []string          `json:"suggestions"`
	PageMetadata map[string]string `json:"pageMetadata"`
	FullText     string            `json:"fullText"`
	Meta         Meta              `json:"meta"`
}

// Clone returns a deep copy so translation can build a new record without
// touching the cached one.
func (a *Analysis) Clone() *Analysis {
	out := &Analysis{
		Summary:      a.Summary,
		Clauses:      append([]string(nil), a.Clauses...),
		Risks:        append([]string(nil), a.Risks...),
		Suggestions:  append([]string(nil), a.Suggestions...),
		PageMetadata: make(map[string]string, len(a.PageMetadata)),
		FullText:     a.FullText,
		Meta: Meta{
			Pages:        a.Meta.Pages,
			PageMetadata: make(map[string]string, len(a.Meta.PageMetadata)),
		},
	}
	for k, v := range a.PageMetadata {
		out.PageMetadata[k] = v
	}
	for k, v := range a.Meta.PageMetadata {
		out.Meta.PageMetadata[k] = v
	}
	return out
}

// ChatResult is the grounded QA response. Computed fresh per call, never
// cached. MatchedPages reflects the lexical pre-filter only; it is not a
// verified citation list.
type ChatResult struct {
	Reply        string `json:"reply"`
	MatchedPages []int  `json:"pages"`
}

// ChatTurn is one prior exchange in an assist conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
