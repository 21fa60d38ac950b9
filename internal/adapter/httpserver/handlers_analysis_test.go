package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/moodmatch/internal/app"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/platform/config"
	apperrors "github.com/pscheid92/moodmatch/internal/platform/errors"
)

func sampleResult(text string) *domain.AnalysisResult {
	var scores domain.Scores
	scores[domain.Sadness] = 0.8
	scores[domain.Neutral] = 0.2
	id := "0190a4a8-0000-7000-8000-000000000001"
	return &domain.AnalysisResult{
		Text:            text,
		CleanText:       strings.TrimSpace(strings.ReplaceAll(text, "😔", "")),
		TopEmotion:      domain.TopEmotion{Label: domain.Sadness, Confidence: 0.8},
		EmotionScores:   scores,
		EmojisFound:     []string{"😔"},
		EmojiAnalysis:   []domain.EmojiAnalysis{},
		SuggestedEmojis: []string{"😢"},
		HistoryID:       &id,
	}
}

func decodeError(t *testing.T, body []byte) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestHandleAnalyze_Success(t *testing.T) {
	var gotText string
	svc := &mockAppService{
		analyzeFn: func(_ context.Context, text string) (*domain.AnalysisResult, error) {
			gotText = text
			return sampleResult(text), nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/analyze", `{"text":"  rough day 😔  "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rough day 😔", gotText, "text is trimmed before analysis")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "rough day 😔", body["text"])
	assert.Equal(t, map[string]any{"label": "sadness", "confidence": 0.8}, body["top_emotion"])
	assert.Equal(t, "0190a4a8-0000-7000-8000-000000000001", body["history_id"])
	assert.Contains(t, body, "emoji_relevance")
	assert.Nil(t, body["emoji_relevance"])
}

func TestHandleAnalyze_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"no body", "", "No data provided"},
		{"malformed json", `{"text":`, "No data provided"},
		{"empty object", `{}`, "No data provided"},
		{"not an object", `["hi"]`, "No data provided"},
		{"missing text", `{"message":"hi"}`, "No text provided"},
		{"blank text", `{"text":"   "}`, "No text provided"},
		{"non-string text", `{"text":42}`, "text must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAppService{
				analyzeFn: func(context.Context, string) (*domain.AnalysisResult, error) {
					t.Fatal("analyze must not run on invalid input")
					return nil, nil
				},
			}
			srv := newTestServer(t, svc)

			rec := serve(srv, http.MethodPost, "/analyze", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec.Body.Bytes())
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Error)
			assert.Equal(t, apperrors.TypeValidation, resp.Type)
		})
	}
}

func TestHandleAnalyze_PipelineFailure(t *testing.T) {
	svc := &mockAppService{
		analyzeFn: func(context.Context, string) (*domain.AnalysisResult, error) {
			return nil, fmt.Errorf("%w: context canceled", domain.ErrAnalysisFailed)
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodPost, "/analyze", `{"text":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec.Body.Bytes())
	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.TypeInternal, resp.Type)
	assert.NotContains(t, rec.Body.String(), "context canceled")
}

func TestHandleAnalyze_RateLimited(t *testing.T) {
	svc := &mockAppService{
		analyzeFn: func(_ context.Context, text string) (*domain.AnalysisResult, error) {
			return sampleResult(text), nil
		},
	}
	srv := newTestServer(t, svc, withConfig(func(c *config.Config) {
		c.RateLimitPerSecond = 0.01
		c.RateLimitBurst = 1
	}))

	first := serve(srv, http.MethodPost, "/analyze", `{"text":"hi there"}`)
	second := serve(srv, http.MethodPost, "/analyze", `{"text":"hi there"}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, apperrors.TypeRateLimited, decodeError(t, second.Body.Bytes()).Type)
}

func TestHandleHistory(t *testing.T) {
	long := strings.Repeat("a", app.HistoryPreviewRunes+20)
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	id := uuid.MustParse("0190a4a8-0000-7000-8000-000000000002")

	var gotPage, gotSize int
	svc := &mockAppService{
		historyFn: func(_ context.Context, page, pageSize int) (domain.HistoryPage, error) {
			gotPage, gotSize = page, pageSize
			return domain.HistoryPage{
				Entries: []domain.HistoryEntry{{
					ID:             id,
					Text:           long,
					EmojiRelevance: domain.RelevanceNoEmojis,
					CreatedAt:      created,
				}},
				Page:     page,
				PageSize: pageSize,
				Total:    25,
			}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodGet, "/history?page=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 10, gotSize)

	var body historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.History, 1)
	entry := body.History[0]
	assert.Equal(t, id.String(), entry.ID)
	assert.Equal(t, strings.Repeat("a", app.HistoryPreviewRunes)+"...", entry.Text)
	assert.Equal(t, "2024-05-01 12:30:00", entry.Timestamp)
	assert.Equal(t, domain.RelevanceNoEmojis, entry.EmojiRelevance)
	assert.Equal(t, paginationResponse{Page: 2, PerPage: 10, Total: 25, Pages: 3, HasNext: true, HasPrev: true}, body.Pagination)
}

func TestHandleHistory_InvalidPageShowsFirst(t *testing.T) {
	for _, q := range []string{"", "?page=abc", "?page=0", "?page=-3"} {
		t.Run(q, func(t *testing.T) {
			var gotPage int
			svc := &mockAppService{
				historyFn: func(_ context.Context, page, pageSize int) (domain.HistoryPage, error) {
					gotPage = page
					return domain.HistoryPage{Page: page, PageSize: pageSize}, nil
				},
			}
			srv := newTestServer(t, svc)

			rec := serve(srv, http.MethodGet, "/history"+q, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, 1, gotPage)
			assert.Contains(t, rec.Body.String(), `"history":[]`)
		})
	}
}

func TestHandleHistory_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   apperrors.ErrorType
	}{
		{"no store", domain.ErrHistoryUnavailable, http.StatusServiceUnavailable, apperrors.TypeUnavailable},
		{"store failing", fmt.Errorf("%w: database is locked", domain.ErrHistoryUnavailable), http.StatusServiceUnavailable, apperrors.TypeUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, apperrors.TypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAppService{
				historyFn: func(context.Context, int, int) (domain.HistoryPage, error) {
					return domain.HistoryPage{}, tt.err
				},
			}
			srv := newTestServer(t, svc)

			rec := serve(srv, http.MethodGet, "/history", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec.Body.Bytes())
			assert.Equal(t, tt.wantType, resp.Type)
			assert.EqualValues(t, 1, resp.Context["page"])
		})
	}
}

func TestHandleTestRelevance(t *testing.T) {
	top := domain.Sadness
	svc := &mockAppService{
		relevanceSamplesFn: func(context.Context) []app.RelevanceSampleResult {
			return []app.RelevanceSampleResult{
				{Text: "My dog died today 😊", TopEmotion: &top, RelevanceStatus: domain.RelevanceNone},
				{Text: "broken", Error: "analysis failed"},
			}
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodGet, "/test_relevance", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success     bool                        `json:"success"`
		TestResults []app.RelevanceSampleResult `json:"test_results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.TestResults, 2)
	assert.Equal(t, domain.RelevanceNone, body.TestResults[0].RelevanceStatus)
	assert.Equal(t, "analysis failed", body.TestResults[1].Error)
}

func TestHandleTestModel(t *testing.T) {
	svc := &mockAppService{
		modelSamplesFn: func(context.Context) []app.ModelSampleResult {
			return []app.ModelSampleResult{{Text: "This is just normal, nothing special."}}
		},
	}
	srv := newTestServer(t, svc)

	rec := serve(srv, http.MethodGet, "/test_model", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"results":[{"text":"This is just normal, nothing special."}]`)
}
