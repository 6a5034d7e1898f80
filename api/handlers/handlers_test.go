package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/cache"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/extract"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/analysis"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/service/chat"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

type stubExtractor struct {
	out models.ExtractedText
	err error
}

func (s *stubExtractor) Extract(ctx context.Context, file []byte, mediaType, languageHint string) (models.ExtractedText, error) {
	if s.err != nil {
		return models.ExtractedText{}, s.err
	}
	return s.out, nil
}

type stubEngine struct {
	out *models.Analysis
	err error
}

func (s *stubEngine) Analyze(ctx context.Context, doc models.ExtractedText) (*models.Analysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

type stubTranslator struct{}

func (stubTranslator) TranslateAnalysis(ctx context.Context, a *models.Analysis, targetLang, sourceLang string) (*models.Analysis, error) {
	out := a.Clone()
	out.Summary = targetLang + ":" + a.Summary
	return out, nil
}

func (stubTranslator) TranslateText(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	return targetLang + ":" + text, nil
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestRouter(t *testing.T, extractor *stubExtractor, engine *stubEngine, llmClient *stubLLM) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	log := logger.NewTestLogger()

	analysisSvc := analysis.NewService(extractor, engine, stubTranslator{}, cache.NewLoader(cache.NewMemoryCache()), log, cfg.Translation.DefaultLanguage)
	chatSvc := chat.NewService(llmClient, stubTranslator{}, cfg, log)
	h := NewHandlers(analysisSvc, chatSvc, cfg, log)

	r := gin.New()
	r.POST("/api/analyze", h.Analysis.Analyze)
	r.GET("/api/analysis/:id", h.Analysis.Get)
	r.POST("/api/chat", h.Chat.Chat)
	r.POST("/api/assist", h.Chat.Assist)
	return r
}

func multipartUpload(t *testing.T, filename, content, language string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if language != "" {
		require.NoError(t, w.WriteField("language", language))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestAnalyzeEndpoint(t *testing.T) {
	extractor := &stubExtractor{out: models.ExtractedText{Text: "lease body", PageCount: 2}}
	engine := &stubEngine{out: &models.Analysis{Summary: "a lease", Meta: models.Meta{Pages: 2}}}
	r := newTestRouter(t, extractor, engine, &stubLLM{})

	body, contentType := multipartUpload(t, "lease.pdf", "%PDF-1.4 fake", "")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.AnalysisID)
	assert.Equal(t, "a lease", resp.Analysis.Summary)
}

func TestAnalyzeEndpointMissingFile(t *testing.T) {
	r := newTestRouter(t, &stubExtractor{}, &stubEngine{}, &stubLLM{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointUnknownExtension(t *testing.T) {
	r := newTestRouter(t, &stubExtractor{}, &stubEngine{}, &stubLLM{})

	body, contentType := multipartUpload(t, "notes.csv", "a,b,c", "")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Unsupported document format", resp.Error)
}

func TestAnalyzeEndpointUnsupportedFormatFromPipeline(t *testing.T) {
	extractor := &stubExtractor{err: extract.ErrUnsupportedFormat}
	r := newTestRouter(t, extractor, &stubEngine{}, &stubLLM{})

	body, contentType := multipartUpload(t, "lease.pdf", "data", "")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointEngineFailureIsGeneric(t *testing.T) {
	extractor := &stubExtractor{out: models.ExtractedText{Text: "doc", PageCount: 1}}
	engine := &stubEngine{err: errors.New("upstream key leaked in error sk-secret")}
	r := newTestRouter(t, extractor, engine, &stubLLM{})

	body, contentType := multipartUpload(t, "lease.pdf", "data", "")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Analysis failed", resp.Error)
	assert.NotContains(t, rec.Body.String(), "sk-secret")
}

func TestGetAnalysisEndpoint(t *testing.T) {
	extractor := &stubExtractor{out: models.ExtractedText{Text: "stored doc", PageCount: 1}}
	engine := &stubEngine{out: &models.Analysis{Summary: "stored summary"}}
	r := newTestRouter(t, extractor, engine, &stubLLM{})

	body, contentType := multipartUpload(t, "lease.pdf", "data", "")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var created AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/api/analysis/"+created.AnalysisID+"?lang=hi", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "hi:stored summary", got.Summary)
}

func TestGetAnalysisEndpointNotFound(t *testing.T) {
	r := newTestRouter(t, &stubExtractor{}, &stubEngine{}, &stubLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/deadbeef", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubExtractor{}, &stubEngine{}, &stubLLM{response: "The deposit is refundable."})

	payload := map[string]any{
		"query":    "deposit",
		"fullText": "full lease",
		"metadata": map[string]string{"1": "tenant must pay deposit", "2": "landlord may inspect"},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The deposit is refundable.", resp.Reply)
	assert.Equal(t, []int{1}, resp.Pages)
}

func TestChatEndpointEmptyQuery(t *testing.T) {
	r := newTestRouter(t, &stubExtractor{}, &stubEngine{}, &stubLLM{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpointModelFailureIsGeneric(t *testing.T) {
	r := newTestRouter(t, &stubExtractor{}, &stubEngine{}, &stubLLM{err: errors.New("token sk-secret rejected")})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"deposit"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Chat query failed", resp.Error)
	assert.NotContains(t, rec.Body.String(), "sk-secret")
}

func TestAssistEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubExtractor{}, &stubEngine{}, &stubLLM{response: "General guidance."})

	payload := `{"query":"what is a deposit?","history":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/assist", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "General guidance.")
}
