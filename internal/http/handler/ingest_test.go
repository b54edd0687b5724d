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
	"brightdesk.app/chat/internal/service"
)

var _ = Describe("IngestHandler", func() {
	var (
		router *gin.Engine
		svc    *mockIngestService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockIngestService{}
		h := handler.NewIngestHandler(svc)
		router.POST("/admin/ingest", h.Enqueue)
	})

	It("returns 202 with the queued job ID", func() {
		svc.enqueueFn = func(_ context.Context, sourceURL string, maxPages int) (string, error) {
			Expect(sourceURL).To(Equal("https://example.com"))
			Expect(maxPages).To(Equal(50))
			return "12345", nil
		}

		body, _ := json.Marshal(map[string]interface{}{
			"url":       "https://example.com",
			"max_pages": 50,
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/ingest", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusAccepted))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["job_id"]).To(Equal("12345"))
		Expect(resp["status"]).To(Equal("queued"))
	})

	It("queues a PDF document job", func() {
		svc.enqueuePDFFn = func(_ context.Context, pdfPath string) (string, error) {
			Expect(pdfPath).To(Equal("/data/docs/catalog.pdf"))
			return "67890", nil
		}

		body, _ := json.Marshal(map[string]interface{}{"pdf_path": "/data/docs/catalog.pdf"})
		req := httptest.NewRequest(http.MethodPost, "/admin/ingest", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusAccepted))
		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["job_id"]).To(Equal("67890"))
	})

	It("returns 400 when the service rejects the PDF path", func() {
		svc.enqueuePDFFn = func(_ context.Context, _ string) (string, error) {
			return "", service.ErrInvalidPDFPath
		}

		body, _ := json.Marshal(map[string]interface{}{"pdf_path": "catalog.txt"})
		req := httptest.NewRequest(http.MethodPost, "/admin/ingest", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 when neither url nor pdf_path is given", func() {
		body, _ := json.Marshal(map[string]interface{}{"max_pages": 50})
		req := httptest.NewRequest(http.MethodPost, "/admin/ingest", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 when the service rejects the URL", func() {
		svc.enqueueFn = func(_ context.Context, _ string, _ int) (string, error) {
			return "", service.ErrInvalidSourceURL
		}

		body, _ := json.Marshal(map[string]interface{}{"url": "ftp://example.com"})
		req := httptest.NewRequest(http.MethodPost, "/admin/ingest", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 when the queue is unavailable", func() {
		svc.enqueueFn = func(_ context.Context, _ string, _ int) (string, error) {
			return "", errors.New("redis down")
		}

		body, _ := json.Marshal(map[string]interface{}{"url": "https://example.com"})
		req := httptest.NewRequest(http.MethodPost, "/admin/ingest", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
