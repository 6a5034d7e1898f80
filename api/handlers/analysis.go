package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/extract"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/analysis"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

type AnalysisHandler struct {
	service *analysis.Service
	cfg     *config.Config
	logger  logger.Logger
}

// AnalyzeResponse is the POST /api/analyze payload.
type AnalyzeResponse struct {
	Status     string           `json:"status"`
	AnalysisID string           `json:"analysisId"`
	Analysis   *models.Analysis `json:"analysis"`
}

// ErrorResponse carries a client-facing message only; upstream detail stays
// in the server log.
type ErrorResponse struct {
	Error string `json:"error"`
}

var extMediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".tiff": "image/tiff",
}

func NewAnalysisHandler(service *analysis.Service, cfg *config.Config, log logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		cfg:     cfg,
		logger:  log,
	}
}

// Analyze handles POST /api/analyze: multipart file + language code.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.badRequest(c, "Invalid file upload", err)
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Server.MaxUploadBytes {
		h.badRequest(c, "File exceeds maximum upload size", nil)
		return
	}

	mediaType := declaredMediaType(header.Header.Get("Content-Type"), header.Filename)
	if mediaType == "" {
		h.badRequest(c, "Unsupported document format", nil)
		return
	}

	// The upload is request-local: read it once, hand it to the pipeline,
	// and let it go out of scope with the request.
	content, err := io.ReadAll(io.LimitReader(file, h.cfg.Server.MaxUploadBytes+1))
	if err != nil {
		h.serverError(c, "Analysis failed", err)
		return
	}
	if int64(len(content)) > h.cfg.Server.MaxUploadBytes {
		h.badRequest(c, "File exceeds maximum upload size", nil)
		return
	}

	lang := c.PostForm("language")

	result, err := h.service.AnalyzeDocument(c.Request.Context(), content, mediaType, header.Filename, lang)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			h.badRequest(c, "Unsupported document format", err)
			return
		}
		h.serverError(c, "Analysis failed", err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Status:     "success",
		AnalysisID: result.ID,
		Analysis:   result.Analysis,
	})
}

// Get handles GET /api/analysis/:id?lang=en.
func (h *AnalysisHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.badRequest(c, "Analysis ID is required", nil)
		return
	}

	lang := c.DefaultQuery("lang", h.cfg.Translation.DefaultLanguage)

	result, err := h.service.GetAnalysis(c.Request.Context(), id, lang)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Analysis not found"})
			return
		}
		h.serverError(c, "Analysis failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// declaredMediaType prefers the part's Content-Type header, falling back to
// the filename extension.
func declaredMediaType(contentType, filename string) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	return extMediaTypes[strings.ToLower(filepath.Ext(filename))]
}

func (h *AnalysisHandler) badRequest(c *gin.Context, message string, err error) {
	h.logger.Warn(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// serverError logs full detail server-side and returns a generic message;
// upstream service internals are never echoed to the client.
func (h *AnalysisHandler) serverError(c *gin.Context, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}
