package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/cache"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/extract"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/llm"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/translate"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

// ErrNotFound means no analysis exists under the requested id.
var ErrNotFound = errors.New("analysis not found")

// Extractor is the text-extraction seam.
type Extractor interface {
	Extract(ctx context.Context, file []byte, mediaType, languageHint string) (models.ExtractedText, error)
}

// Engine is the analysis-engine seam.
type Engine interface {
	Analyze(ctx context.Context, doc models.ExtractedText) (*models.Analysis, error)
}

// Translator is the analysis-translation seam.
type Translator interface {
	TranslateAnalysis(ctx context.Context, a *models.Analysis, targetLang, sourceLang string) (*models.Analysis, error)
}

// Service runs the document analysis pipeline: extract, fingerprint,
// single-flight compute, canonical cache, translate on read.
//
// The cache always holds the canonical source-language Analysis. The
// fingerprint covers (text, requested language) so the public analysis id is
// language-qualified, but translation happens on every read path and a
// translated record is never written back.
type Service struct {
	extractor   Extractor
	engine      Engine
	translator  Translator
	loader      *cache.Loader
	logger      logger.Logger
	defaultLang string
}

func NewService(
	extractor Extractor,
	engine Engine,
	translator Translator,
	loader *cache.Loader,
	log logger.Logger,
	defaultLang string,
) *Service {
	return &Service{
		extractor:   extractor,
		engine:      engine,
		translator:  translator,
		loader:      loader,
		logger:      log,
		defaultLang: defaultLang,
	}
}

// NewFromConfig wires the full pipeline with its real collaborators.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	store, err := cache.New(cfg.Cache, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	ocr := extract.NewTesseractEngine(cfg.OCR, log)
	extractor := extract.NewExtractor(cfg.Extraction, ocr, log)
	engine := llm.NewEngine(llm.NewHTTPClient(cfg.LLM), cfg.LLM, log)

	policy := translate.PolicyDegrade
	if cfg.Translation.FailFast == "true" {
		policy = translate.PolicyFailFast
	}
	translator := translate.NewTranslator(translate.NewHTTPClient(cfg.Translation), policy, log)

	return NewService(extractor, engine, translator, cache.NewLoader(store), log, cfg.Translation.DefaultLanguage), nil
}

// Result pairs an Analysis with its public id.
type Result struct {
	ID       string
	Analysis *models.Analysis
}

// AnalyzeDocument runs the whole pipeline for one upload. The file bytes
// are request-local and not retained past extraction. A failure anywhere
// aborts with no cache write.
func (s *Service) AnalyzeDocument(ctx context.Context, file []byte, mediaType, filename, lang string) (*Result, error) {
	if lang == "" {
		lang = s.defaultLang
	}

	s.logger.Info("Starting document analysis",
		logger.String("filename", filename),
		logger.String("mediaType", mediaType),
		logger.String("language", lang),
		logger.Int("size", len(file)),
	)

	extracted, err := s.extractor.Extract(ctx, file, mediaType, lang)
	if err != nil {
		return nil, err
	}

	fingerprint := cache.Fingerprint(extracted.Text, lang)

	canonical, err := s.loader.GetOrCompute(ctx, fingerprint, func(ctx context.Context) (*models.Analysis, error) {
		return s.engine.Analyze(ctx, extracted)
	})
	if err != nil {
		return nil, err
	}

	analysis, err := s.localized(ctx, canonical, lang)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document analysis completed",
		logger.String("analysisId", fingerprint),
		logger.Int("pages", analysis.Meta.Pages),
	)

	return &Result{ID: fingerprint, Analysis: analysis}, nil
}

// GetAnalysis returns a stored analysis, translated on the fly when the
// requested language differs from the canonical stored language.
func (s *Service) GetAnalysis(ctx context.Context, id, lang string) (*models.Analysis, error) {
	if lang == "" {
		lang = s.defaultLang
	}

	canonical, ok, err := s.loader.Cache().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return s.localized(ctx, canonical, lang)
}

// localized applies the uniform translate-on-read step. The canonical
// record is in the default language; requests for it return the record
// as-is without touching the translation service.
func (s *Service) localized(ctx context.Context, canonical *models.Analysis, lang string) (*models.Analysis, error) {
	if lang == s.defaultLang {
		return canonical, nil
	}
	return s.translator.TranslateAnalysis(ctx, canonical, lang, s.defaultLang)
}
