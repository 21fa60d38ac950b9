package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/moodmatch/internal/app"
	"github.com/pscheid92/moodmatch/internal/domain"
	apperrors "github.com/pscheid92/moodmatch/internal/platform/errors"
)

const historyTimestampLayout = "2006-01-02 15:04:05"

func (s *Server) registerAnalysisRoutes(rateLimiter echo.MiddlewareFunc) {
	s.echo.POST("/analyze", s.handleAnalyze, rateLimiter)
	s.echo.GET("/history", s.handleHistory)
	s.echo.GET("/test_relevance", s.handleTestRelevance, rateLimiter)
	s.echo.GET("/test_model", s.handleTestModel, rateLimiter)
}

type analyzeResponse struct {
	Success bool `json:"success"`
	*domain.AnalysisResult
}

func (s *Server) handleAnalyze(c echo.Context) error {
	text, err := readText(c.Request().Body)
	if err != nil {
		return err
	}

	result, err := s.app.Analyze(c.Request().Context(), text)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, analyzeResponse{Success: true, AnalysisResult: result}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// readText pulls the "text" field out of a JSON object body. A missing,
// malformed or empty object is "No data provided"; an object without a
// non-blank text is "No text provided".
func readText(body io.Reader) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&payload); err != nil || len(payload) == 0 {
		return "", apperrors.ValidationError("No data provided")
	}

	raw, ok := payload["text"]
	if !ok {
		return "", apperrors.ValidationError("No text provided")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", apperrors.ValidationError("text must be a string")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.ValidationError("No text provided")
	}
	return text, nil
}

type historyEntryResponse struct {
	ID             string                 `json:"id"`
	Text           string                 `json:"text"`
	Timestamp      string                 `json:"timestamp"`
	CreatedAt      time.Time              `json:"created_at"`
	Emotions       domain.Scores          `json:"emotions"`
	EmojiRelevance domain.RelevanceStatus `json:"emoji_relevance"`
	RelevanceScore float64                `json:"relevance_score"`
}

type paginationResponse struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

type historyResponse struct {
	Success    bool                   `json:"success"`
	History    []historyEntryResponse `json:"history"`
	Pagination paginationResponse     `json:"pagination"`
}

func (s *Server) handleHistory(c echo.Context) error {
	// A missing or non-numeric page shows the first page.
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	p, err := s.app.History(c.Request().Context(), page, s.config.HistoryPageSize)
	if errors.Is(err, domain.ErrHistoryUnavailable) {
		return apperrors.UnavailableError("history is unavailable", err).WithField("page", page)
	}
	if err != nil {
		return apperrors.InternalError("failed to load history", err).WithField("page", page)
	}

	entries := make([]historyEntryResponse, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, historyEntryResponse{
			ID:             e.ID.String(),
			Text:           app.Preview(e.Text),
			Timestamp:      e.CreatedAt.UTC().Format(historyTimestampLayout),
			CreatedAt:      e.CreatedAt.UTC(),
			Emotions:       e.Scores,
			EmojiRelevance: e.EmojiRelevance,
			RelevanceScore: e.RelevanceScore,
		})
	}

	response := historyResponse{
		Success: true,
		History: entries,
		Pagination: paginationResponse{
			Page:    p.Page,
			PerPage: p.PageSize,
			Total:   p.Total,
			Pages:   p.Pages(),
			HasNext: p.HasNext(),
			HasPrev: p.HasPrev(),
		},
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleTestRelevance(c echo.Context) error {
	results := s.app.RunRelevanceSamples(c.Request().Context())
	response := map[string]any{
		"success":      true,
		"test_results": results,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleTestModel(c echo.Context) error {
	results := s.app.RunModelSamples(c.Request().Context())
	response := map[string]any{
		"success": true,
		"results": results,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
