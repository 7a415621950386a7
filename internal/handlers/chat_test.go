package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"knowledge-rag/internal/llm"
	"knowledge-rag/internal/rag"
	svcmocks "knowledge-rag/internal/service/mocks"
)

func TestChatHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := svcmocks.NewMockSessionService(ctrl)
	session.EXPECT().QueryWithHistory(gomock.Any(), rag.QueryRequest{Question: "hello"}).
		Return(rag.QueryResponse{Answer: "hi there"}, nil)

	handler := NewChatHandler(session)

	body, _ := json.Marshal(ChatRequest{Question: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp rag.QueryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Answer != "hi there" {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestChatHandler_ServeHTTP_Stream(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := svcmocks.NewMockSessionService(ctrl)
	session.EXPECT().QueryWithHistoryStream(gomock.Any(), rag.QueryRequest{Question: "hello"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ rag.QueryRequest, callback func(string) error) (rag.QueryResponse, error) {
			for _, fragment := range []string{"hi ", "there"} {
				if err := callback(fragment); err != nil {
					return rag.QueryResponse{}, err
				}
			}
			return rag.QueryResponse{Answer: "hi there"}, nil
		})

	handler := NewChatHandler(session)

	body, _ := json.Marshal(ChatRequest{Question: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/chat?stream=true", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	got := w.Body.String()
	for _, want := range []string{"data: hi \n\n", "data: there\n\n", "data: [DONE]\n\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("stream body missing %q:\n%s", want, got)
		}
	}
}

func TestChatHandler_ServeHTTP_StreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := svcmocks.NewMockSessionService(ctrl)
	session.EXPECT().QueryWithHistoryStream(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(rag.QueryResponse{}, llm.ErrInference)

	handler := NewChatHandler(session)

	req := httptest.NewRequest(http.MethodPost, "/api/chat?stream=true", strings.NewReader(`{"question":"q"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	got := w.Body.String()
	if !strings.Contains(got, "error") {
		t.Errorf("stream body should carry an error event:\n%s", got)
	}
	if strings.Contains(got, "[DONE]") {
		t.Errorf("failed stream should not emit [DONE]:\n%s", got)
	}
}
