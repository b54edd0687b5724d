package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/service"
	"brightdesk.app/chat/internal/store"
)

var _ = Describe("LeadService", func() {
	var (
		ctx        context.Context
		leadStore  *mockLeadStore
		stateStore *mockLeadStateStore
		summarizer *mockSummarizer
		exporter   *mockExporter
		svc        service.LeadService
	)

	name := "Priya"
	email := "priya@x.com"
	phone := "9876543210"

	BeforeEach(func() {
		ctx = context.Background()
		leadStore = &mockLeadStore{}
		stateStore = &mockLeadStateStore{}
		summarizer = &mockSummarizer{}
		exporter = &mockExporter{}
		svc = service.NewLeadService(leadStore, stateStore, summarizer, exporter)
	})

	Describe("Submit", func() {
		It("rejects an invalid email", func() {
			_, err := svc.Submit(ctx, service.LeadSubmission{SessionID: "s1", Email: "not-an-email"})
			Expect(err).To(MatchError(service.ErrInvalidLeadField{Field: "email"}))
		})

		It("rejects an invalid phone", func() {
			_, err := svc.Submit(ctx, service.LeadSubmission{SessionID: "s1", Phone: "12345"})
			Expect(err).To(MatchError(service.ErrInvalidLeadField{Field: "phone"}))
		})

		It("rejects an empty submission", func() {
			_, err := svc.Submit(ctx, service.LeadSubmission{SessionID: "s1"})
			Expect(err).To(MatchError(service.ErrInvalidLeadField{Field: "contact"}))
		})

		It("normalizes and stores the submitted fields", func() {
			leadStore.getBySessionFn = func(context.Context, string) (*model.Lead, error) {
				return &model.Lead{SessionID: "s1", Name: &name, Email: &email, Phone: &phone}, nil
			}

			lead, err := svc.Submit(ctx, service.LeadSubmission{
				SessionID: "s1",
				Name:      "Priya",
				Email:     "priya@x.com",
				Phone:     "+91 98765 43210",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(lead).NotTo(BeNil())
			Expect(leadStore.upserts[store.FieldName]).To(Equal("Priya"))
			Expect(leadStore.upserts[store.FieldEmail]).To(Equal("priya@x.com"))
			Expect(leadStore.upserts[store.FieldPhone]).To(Equal("9876543210"))
		})

		It("closes the capture flow when contact details are complete", func() {
			leadStore.getBySessionFn = func(context.Context, string) (*model.Lead, error) {
				return &model.Lead{SessionID: "s1", Email: &email, Phone: &phone}, nil
			}

			_, err := svc.Submit(ctx, service.LeadSubmission{SessionID: "s1", Email: email, Phone: phone})
			Expect(err).NotTo(HaveOccurred())
			Expect(stateStore.transitions).To(Equal([]model.LeadStep{model.StepCompleted}))
			Expect(summarizer.refreshCalls).To(Equal(1))
			Expect(exporter.appendCalls).To(Equal(1))
		})

		It("does not close the flow on a partial submission", func() {
			leadStore.getBySessionFn = func(context.Context, string) (*model.Lead, error) {
				return &model.Lead{SessionID: "s1", Email: &email}, nil
			}

			_, err := svc.Submit(ctx, service.LeadSubmission{SessionID: "s1", Email: email})
			Expect(err).NotTo(HaveOccurred())
			Expect(stateStore.transitions).To(BeEmpty())
			Expect(exporter.appendCalls).To(BeZero())
		})

		It("does not re-complete an already completed session", func() {
			stateStore.getOrCreateFn = func(_ context.Context, sessionID string) (*model.LeadState, error) {
				return &model.LeadState{SessionID: sessionID, CurrentStep: model.StepCompleted}, nil
			}
			leadStore.getBySessionFn = func(context.Context, string) (*model.Lead, error) {
				return &model.Lead{SessionID: "s1", Email: &email, Phone: &phone}, nil
			}

			_, err := svc.Submit(ctx, service.LeadSubmission{SessionID: "s1", Email: email, Phone: phone})
			Expect(err).NotTo(HaveOccurred())
			Expect(stateStore.transitions).To(BeEmpty())
			Expect(exporter.appendCalls).To(Equal(1))
		})
	})

	Describe("List", func() {
		It("passes through to the store", func() {
			leadStore.listFn = func(_ context.Context, limit int32) ([]model.Lead, error) {
				Expect(limit).To(Equal(int32(50)))
				return []model.Lead{{SessionID: "s1"}}, nil
			}

			out, err := svc.List(ctx, 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(1))
		})
	})
})
