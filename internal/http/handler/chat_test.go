package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"brightdesk.app/chat/common/id"
	"brightdesk.app/chat/internal/http/handler"
	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/service"
)

var _ = Describe("ChatHandler", func() {
	var (
		router *gin.Engine
		svc    *mockChatService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		Expect(id.Init(1)).To(Succeed())
		router = gin.New()
		svc = &mockChatService{}
		h := handler.NewChatHandler(svc)
		router.POST("/chat", h.Converse)
		router.GET("/chats/:session_id", h.History)
	})

	It("returns the assistant reply for an existing session", func() {
		svc.converseFn = func(_ context.Context, sessionID, message string) (*service.ChatReply, error) {
			Expect(sessionID).To(Equal("sess-1"))
			Expect(message).To(Equal("What are your pricing plans?"))
			return &service.ChatReply{SessionID: sessionID, Message: "We offer three plans."}, nil
		}

		body, _ := json.Marshal(map[string]interface{}{
			"session_id": "sess-1",
			"message":    "What are your pricing plans?",
		})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["session_id"]).To(Equal("sess-1"))
		Expect(resp["message"]).To(Equal("We offer three plans."))
	})

	It("generates a session ID when none is provided", func() {
		var seen string
		svc.converseFn = func(_ context.Context, sessionID, _ string) (*service.ChatReply, error) {
			seen = sessionID
			return &service.ChatReply{SessionID: sessionID, Message: "hello"}, nil
		}

		body, _ := json.Marshal(map[string]interface{}{"message": "hi"})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(seen).NotTo(BeEmpty())
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["session_id"]).To(Equal(seen))
	})

	It("surfaces lead flow flags in the response", func() {
		svc.converseFn = func(_ context.Context, sessionID, _ string) (*service.ChatReply, error) {
			return &service.ChatReply{
				SessionID:     sessionID,
				Message:       "Thank you, Priya! Our team will reach out to you shortly.",
				LeadFlow:      true,
				LeadCompleted: true,
			}, nil
		}

		body, _ := json.Marshal(map[string]interface{}{
			"session_id": "sess-1",
			"message":    "9876543210",
		})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["lead_flow"]).To(BeTrue())
		Expect(resp["lead_completed"]).To(BeTrue())
	})

	It("returns 400 when the message is missing", func() {
		body, _ := json.Marshal(map[string]interface{}{"session_id": "sess-1"})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 when the service rejects an empty message", func() {
		svc.converseFn = func(_ context.Context, _, _ string) (*service.ChatReply, error) {
			return nil, service.ErrEmptyMessage
		}

		body, _ := json.Marshal(map[string]interface{}{
			"session_id": "sess-1",
			"message":    "   ",
		})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 on service error", func() {
		svc.converseFn = func(_ context.Context, _, _ string) (*service.ChatReply, error) {
			return nil, errors.New("db down")
		}

		body, _ := json.Marshal(map[string]interface{}{
			"session_id": "sess-1",
			"message":    "hi",
		})
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("returns the transcript for a session", func() {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.historyFn = func(_ context.Context, sessionID string) ([]model.Message, error) {
			Expect(sessionID).To(Equal("sess-1"))
			return []model.Message{
				{ID: 100, SessionID: sessionID, Sender: model.SenderUser, Body: "hi", CreatedAt: now},
				{ID: 101, SessionID: sessionID, Sender: model.SenderAI, Body: "hello", CreatedAt: now},
			}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/chats/sess-1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			SessionID string `json:"session_id"`
			Messages  []struct {
				ID      string `json:"id"`
				Sender  string `json:"sender"`
				Message string `json:"message"`
			} `json:"messages"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.SessionID).To(Equal("sess-1"))
		Expect(resp.Messages).To(HaveLen(2))
		Expect(resp.Messages[0].ID).To(Equal("100"))
		Expect(resp.Messages[0].Sender).To(Equal("user"))
		Expect(resp.Messages[1].Message).To(Equal("hello"))
	})

	It("returns 500 when history cannot be loaded", func() {
		svc.historyFn = func(_ context.Context, _ string) ([]model.Message, error) {
			return nil, errors.New("db down")
		}

		req := httptest.NewRequest(http.MethodGet, "/chats/sess-1", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
