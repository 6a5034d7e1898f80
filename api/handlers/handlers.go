package handlers

import (
	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/analysis"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/chat"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

type Handlers struct {
	Analysis *AnalysisHandler
	Chat     *ChatHandler
}

func NewHandlers(
	analysisService *analysis.Service,
	chatService *chat.Service,
	cfg *config.Config,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Analysis: NewAnalysisHandler(analysisService, cfg, log),
		Chat:     NewChatHandler(chatService, log),
	}
}
