package chat

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/llm"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

// ReplyTranslator is the reply-translation seam.
type ReplyTranslator interface {
	TranslateText(ctx context.Context, text, targetLang, sourceLang string) (string, error)
}

// Service answers document-grounded questions and non-grounded assist
// queries. Each call is a pure function of its inputs plus the two external
// service calls; nothing is cached.
type Service struct {
	client      llm.Client
	translator  ReplyTranslator
	logger      logger.Logger
	maxChars    int
	defaultLang string
}

func NewService(client llm.Client, translator ReplyTranslator, cfg *config.Config, log logger.Logger) *Service {
	return &Service{
		client:      client,
		translator:  translator,
		logger:      log,
		maxChars:    cfg.LLM.MaxPromptChars,
		defaultLang: cfg.Translation.DefaultLanguage,
	}
}

// Answer runs the grounded QA flow: lexical pre-filter over page summaries,
// grounding prompt, one model call, best-effort reply translation.
func (s *Service) Answer(ctx context.Context, query, fullText string, pageMetadata map[string]string, lang string) (*models.ChatResult, error) {
	matched := MatchPages(query, pageMetadata)
	grounding := llm.BuildGroundingContext(matched, pageMetadata)

	prompt := llm.BuildChatPrompt(query, grounding, llm.Truncate(fullText, s.maxChars))

	reply, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	reply = strings.TrimSpace(reply)

	reply = s.localizeReply(ctx, reply, lang)

	return &models.ChatResult{
		Reply:        reply,
		MatchedPages: matched,
	}, nil
}

// Assist answers a free-standing question with prior turns joined as plain
// context. No document grounding.
func (s *Service) Assist(ctx context.Context, query string, history []models.ChatTurn, lang string) (string, error) {
	reply, err := s.client.Generate(ctx, llm.BuildAssistPrompt(query, history))
	if err != nil {
		return "", err
	}
	return s.localizeReply(ctx, strings.TrimSpace(reply), lang), nil
}

// localizeReply translates best-effort: QA is latency-sensitive, so a
// translation failure degrades to the untranslated reply instead of failing
// the turn. This intentionally differs from the stricter analysis path.
func (s *Service) localizeReply(ctx context.Context, reply, lang string) string {
	if lang == "" || lang == s.defaultLang {
		return reply
	}

	translated, err := s.translator.TranslateText(ctx, reply, lang, s.defaultLang)
	if err != nil {
		s.logger.Warn("Reply translation failed, returning untranslated reply",
			logger.String("language", lang),
			logger.Error(err),
		)
		return reply
	}
	return translated
}

// MatchPages runs the case-insensitive substring pre-filter of query against
// every page summary, returning matched page numbers in ascending order.
// The result is a lexical hint, not a verified citation list.
func MatchPages(query string, pageMetadata map[string]string) []int {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []int{}
	}

	pages := make([]int, 0, len(pageMetadata))
	for key, summary := range pageMetadata {
		page, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(summary), needle) {
			pages = append(pages, page)
		}
	}

	sort.Ints(pages)
	return pages
}
