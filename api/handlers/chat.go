package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/chat"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

type ChatHandler struct {
	service *chat.Service
	logger  logger.Logger
}

type chatRequest struct {
	Query    string            `json:"query"`
	FullText string            `json:"fullText"`
	Metadata map[string]string `json:"metadata"`
	Language string            `json:"language"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Pages []int  `json:"pages"`
}

type assistRequest struct {
	Query    string            `json:"query"`
	Language string            `json:"language"`
	History  []models.ChatTurn `json:"history"`
}

func NewChatHandler(service *chat.Service, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  log,
	}
}

// Chat handles POST /api/chat: document-grounded QA.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query is required"})
		return
	}

	result, err := h.service.Answer(c.Request.Context(), req.Query, req.FullText, req.Metadata, req.Language)
	if err != nil {
		h.logger.Error("Chat query failed",
			logger.String("path", c.Request.URL.Path),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Chat query failed"})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Reply: result.Reply,
		Pages: result.MatchedPages,
	})
}

// Assist handles POST /api/assist: non-grounded consultation with history.
func (h *ChatHandler) Assist(c *gin.Context) {
	var req assistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query is required"})
		return
	}

	reply, err := h.service.Assist(c.Request.Context(), req.Query, req.History, req.Language)
	if err != nil {
		h.logger.Error("Chat query failed",
			logger.String("path", c.Request.URL.Path),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Chat query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
