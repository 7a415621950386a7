package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"knowledge-rag/internal/service"
	"knowledge-rag/internal/service/mocks"
)

type stubChecker struct{}

func (stubChecker) CollectionExists(_ context.Context, _ string) (bool, error) { return true, nil }

type stubLister struct{}

func (stubLister) Models(_ context.Context) ([]string, error) {
	return []string{"llama3.1:8b"}, nil
}

func testDeps(session service.SessionService) *Deps {
	return &Deps{
		Session:        session,
		VectorStore:    stubChecker{},
		Models:         stubLister{},
		CollectionName: "knowledge_base",
		GenerateModel:  "llama3.1:8b",
	}
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(testDeps(mocks.NewMockSessionService(ctrl)))
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockSessionService(ctrl)
	session.EXPECT().GetStats(gomock.Any()).Return(service.Stats{}, nil).AnyTimes()
	session.EXPECT().GetHistory(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	session.EXPECT().ClearHistory(gomock.Any()).Return(0).AnyTimes()

	router := NewRouter(testDeps(session))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET root",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/stats",
			method:     http.MethodGet,
			path:       "/api/stats",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/history",
			method:     http.MethodGet,
			path:       "/api/history",
			wantStatus: http.StatusOK,
		},
		{
			name:       "DELETE /api/history",
			method:     http.MethodDelete,
			path:       "/api/history",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/query with invalid body",
			method:     http.MethodPost,
			path:       "/api/query",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/chat with invalid body",
			method:     http.MethodPost,
			path:       "/api/chat",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/query method not allowed",
			method:     http.MethodGet,
			path:       "/api/query",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/unknown",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}
