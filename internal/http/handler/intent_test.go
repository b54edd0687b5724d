package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"brightdesk.app/chat/internal/http/handler"
	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/service"
)

var _ = Describe("IntentHandler", func() {
	var (
		router *gin.Engine
		svc    *mockIntentService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockIntentService{}
		h := handler.NewIntentHandler(svc)
		router.GET("/admin/intent/:session_id", h.Predict)
	})

	It("returns the intent report for a session", func() {
		svc.predictFn = func(_ context.Context, sessionID string) (*model.IntentReport, error) {
			Expect(sessionID).To(Equal("sess-1"))
			return &model.IntentReport{
				UserInterest:      "pricing for the starter plan",
				Segments:          []string{"small business"},
				ActualRequirement: "a monthly plan under budget",
			}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/intent/sess-1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["session_id"]).To(Equal("sess-1"))
		Expect(resp["user_interest"]).To(Equal("pricing for the starter plan"))
	})

	It("returns 404 when the session has no conversation", func() {
		svc.predictFn = func(_ context.Context, _ string) (*model.IntentReport, error) {
			return nil, service.ErrNoConversation
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/intent/sess-1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 500 when analysis fails", func() {
		svc.predictFn = func(_ context.Context, _ string) (*model.IntentReport, error) {
			return nil, errors.New("llm unavailable")
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/intent/sess-1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
