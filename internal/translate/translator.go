package translate

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

// Policy is the single translation failure policy, applied uniformly at
// every analysis call site.
type Policy int

const (
	// PolicyDegrade keeps the source-language value for any field whose
	// translation fails and logs the field.
	PolicyDegrade Policy = iota
	// PolicyFailFast fails the whole translation atomically on the first
	// field error.
	PolicyFailFast
)

// maxConcurrentCalls bounds the fan-out against the translation service.
const maxConcurrentCalls = 8

// Translator produces a translated copy of an Analysis by invoking the
// translation service once per scalar field and once per array element or
// map entry. fullText and meta pass through unmodified.
type Translator struct {
	client Client
	policy Policy
	logger logger.Logger
}

func NewTranslator(client Client, policy Policy, log logger.Logger) *Translator {
	return &Translator{
		client: client,
		policy: policy,
		logger: log,
	}
}

// TranslateAnalysis returns a new Analysis with translated fields. The input
// is never mutated. targetLang must differ from the document's source
// language; callers skip this component entirely when no translation is
// needed.
func (t *Translator) TranslateAnalysis(ctx context.Context, a *models.Analysis, targetLang, sourceLang string) (*models.Analysis, error) {
	out := a.Clone()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCalls)

	t.goTranslate(ctx, g, &out.Summary, "summary", targetLang, sourceLang)

	// Array elements are reassembled by original index, never by
	// completion order.
	for i := range out.Clauses {
		t.goTranslate(ctx, g, &out.Clauses[i], "clauses", targetLang, sourceLang)
	}
	for i := range out.Risks {
		t.goTranslate(ctx, g, &out.Risks[i], "risks", targetLang, sourceLang)
	}
	for i := range out.Suggestions {
		t.goTranslate(ctx, g, &out.Suggestions[i], "suggestions", targetLang, sourceLang)
	}

	var mu sync.Mutex
	for key, value := range out.PageMetadata {
		if strings.TrimSpace(value) == "" {
			continue
		}
		key, value := key, value
		g.Go(func() error {
			translated, err := t.client.Translate(ctx, value, targetLang, sourceLang)
			if err != nil {
				return t.fieldError(ctx, "pageMetadata", err)
			}
			mu.Lock()
			out.PageMetadata[key] = translated
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TranslateText translates a single string, for callers outside the
// analysis record (the QA reply path).
func (t *Translator) TranslateText(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	translated, err := t.client.Translate(ctx, text, targetLang, sourceLang)
	if err != nil {
		return "", &TranslationError{Err: err}
	}
	return translated, nil
}

// goTranslate schedules one field translation writing back through dst, so
// results land in their original slot regardless of completion order.
func (t *Translator) goTranslate(ctx context.Context, g *errgroup.Group, dst *string, field, targetLang, sourceLang string) {
	value := *dst
	if strings.TrimSpace(value) == "" {
		return
	}
	g.Go(func() error {
		translated, err := t.client.Translate(ctx, value, targetLang, sourceLang)
		if err != nil {
			return t.fieldError(ctx, field, err)
		}
		*dst = translated
		return nil
	})
}

// fieldError applies the configured policy: degrade keeps the original
// value in place and continues, fail-fast aborts the whole translation.
func (t *Translator) fieldError(ctx context.Context, field string, err error) error {
	if t.policy == PolicyFailFast {
		return &TranslationError{Field: field, Err: err}
	}

	// Context errors mean the batch is already failing; don't mask them
	// behind a degrade.
	if ctx.Err() != nil {
		return &TranslationError{Field: field, Err: err}
	}

	t.logger.Warn("Field translation failed, keeping source language",
		logger.String("field", field),
		logger.Error(err),
	)
	return nil
}
