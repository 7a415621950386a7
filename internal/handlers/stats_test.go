package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"knowledge-rag/internal/service"
	svcmocks "knowledge-rag/internal/service/mocks"
)

func TestStatsHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := svcmocks.NewMockSessionService(ctrl)
	session.EXPECT().GetStats(gomock.Any()).Return(service.Stats{DocumentCount: 5, ChunkCount: 37}, nil)

	handler := NewStatsHandler(session)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var stats service.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.DocumentCount != 5 || stats.ChunkCount != 37 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStatsHandler_ServeHTTP_Errors(t *testing.T) {
	t.Run("method not allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		handler := NewStatsHandler(svcmocks.NewMockSessionService(ctrl))
		req := httptest.NewRequest(http.MethodPost, "/api/stats", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		session := svcmocks.NewMockSessionService(ctrl)
		session.EXPECT().GetStats(gomock.Any()).Return(service.Stats{}, errors.New("db closed"))

		handler := NewStatsHandler(session)
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}
