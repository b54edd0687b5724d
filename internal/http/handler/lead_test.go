package handler_test

import (
	"bytes"
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
	"brightdesk.app/chat/internal/store"
)

var _ = Describe("LeadHandler", func() {
	var (
		router *gin.Engine
		svc    *mockLeadService
	)

	strPtr := func(s string) *string { return &s }

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockLeadService{}
		h := handler.NewLeadHandler(svc)
		router.POST("/leads", h.Submit)
		router.GET("/admin/leads", h.List)
		router.GET("/leads/:session_id", h.Get)
	})

	It("submits contact fields for a session", func() {
		svc.submitFn = func(_ context.Context, sub service.LeadSubmission) (*model.Lead, error) {
			Expect(sub.SessionID).To(Equal("sess-1"))
			Expect(sub.Email).To(Equal("priya@x.com"))
			return &model.Lead{SessionID: "sess-1", Email: strPtr("priya@x.com")}, nil
		}

		body, _ := json.Marshal(map[string]interface{}{
			"session_id": "sess-1",
			"email":      "priya@x.com",
		})
		req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["email"]).To(Equal("priya@x.com"))
	})

	It("returns 400 when a field fails validation", func() {
		svc.submitFn = func(_ context.Context, _ service.LeadSubmission) (*model.Lead, error) {
			return nil, service.ErrInvalidLeadField{Field: "email"}
		}

		body, _ := json.Marshal(map[string]interface{}{
			"session_id": "sess-1",
			"email":      "not-an-email",
		})
		req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["error"]).To(Equal("invalid email"))
	})

	It("returns 400 when session_id is missing", func() {
		body, _ := json.Marshal(map[string]interface{}{"email": "priya@x.com"})
		req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns the lead for a session", func() {
		svc.getFn = func(_ context.Context, sessionID string) (*model.Lead, error) {
			return &model.Lead{SessionID: sessionID, Name: strPtr("Priya")}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/leads/sess-1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["name"]).To(Equal("Priya"))
	})

	It("returns 404 when no lead exists", func() {
		svc.getFn = func(_ context.Context, _ string) (*model.Lead, error) {
			return nil, store.ErrNotFound
		}

		req := httptest.NewRequest(http.MethodGet, "/leads/sess-1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("lists captured leads", func() {
		svc.listFn = func(_ context.Context, limit int32) ([]model.Lead, error) {
			Expect(limit).To(Equal(int32(100)))
			return []model.Lead{
				{SessionID: "sess-1", Name: strPtr("Priya")},
				{SessionID: "sess-2"},
			}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Leads []map[string]interface{} `json:"leads"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Leads).To(HaveLen(2))
		Expect(resp.Leads[0]["session_id"]).To(Equal("sess-1"))
	})

	It("returns 500 when listing fails", func() {
		svc.listFn = func(_ context.Context, _ int32) ([]model.Lead, error) {
			return nil, errors.New("db down")
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
