package llm

import (
	"context"
	"unicode/utf8"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

// Engine turns extracted document text into a structured Analysis via one
// model call. It is language-neutral: the model is addressed in whatever
// language the extractor produced.
type Engine struct {
	client Client
	cfg    config.LLMConfig
	logger logger.Logger
}

func NewEngine(client Client, cfg config.LLMConfig, log logger.Logger) *Engine {
	return &Engine{
		client: client,
		cfg:    cfg,
		logger: log,
	}
}

// analysisPayload is the engine's wire contract with the model. Absent
// optional fields default to empty, never nil.
type analysisPayload struct {
	Summary      string            `json:"summary"`
	Clauses      []string          `json:"clauses"`
	Risks        []string          `json:"risks"`
	Suggestions  []string          `json:"suggestions"`
	PageMetadata map[string]string `json:"pageMetadata"`
}

// Analyze sends the document to the model and parses the response. Text is
// truncated to the configured prompt cap first; content beyond it is
// invisible to the analysis.
func (e *Engine) Analyze(ctx context.Context, doc models.ExtractedText) (*models.Analysis, error) {
	text := Truncate(doc.Text, e.cfg.MaxPromptChars)

	raw, err := e.client.Generate(ctx, BuildAnalysisPrompt(text, doc.PageCount))
	if err != nil {
		return nil, err
	}

	var payload analysisPayload
	if err := ExtractJSONObject(raw, &payload); err != nil {
		e.logger.Error("Failed to parse analysis response",
			logger.Int("responseChars", len(raw)),
			logger.Error(err),
		)
		return nil, err
	}

	analysis := &models.Analysis{
		Summary:      payload.Summary,
		Clauses:      payload.Clauses,
		Risks:        payload.Risks,
		Suggestions:  payload.Suggestions,
		PageMetadata: payload.PageMetadata,
		FullText:     doc.Text,
		Meta: models.Meta{
			Pages:        doc.PageCount,
			PageMetadata: payload.PageMetadata,
		},
	}
	fillDefaults(analysis)

	e.logger.Info("Analysis completed",
		logger.Int("clauses", len(analysis.Clauses)),
		logger.Int("risks", len(analysis.Risks)),
		logger.Int("suggestions", len(analysis.Suggestions)),
	)

	return analysis, nil
}

func fillDefaults(a *models.Analysis) {
	if a.Clauses == nil {
		a.Clauses = []string{}
	}
	if a.Risks == nil {
		a.Risks = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	if a.PageMetadata == nil {
		a.PageMetadata = map[string]string{}
	}
	if a.Meta.PageMetadata == nil {
		a.Meta.PageMetadata = a.PageMetadata
	}
}

// Truncate caps s at max characters, never splitting a rune. A non-positive
// max means no cap.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max || utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := 0
	for i := range s {
		if runes == max {
			return s[:i]
		}
		runes++
	}
	return s
}
