package service_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"brightdesk.app/chat/common/llm"
	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/service"
)

var _ = Describe("IntentService", func() {
	var (
		ctx      context.Context
		messages *mockMessageStore
		client   *mockLLMClient
		svc      service.IntentService
	)

	BeforeEach(func() {
		ctx = context.Background()
		messages = &mockMessageStore{}
		client = &mockLLMClient{}
		svc = service.NewIntentService(messages, client)
	})

	It("refuses a session without user messages", func() {
		messages.listBySessionFn = func(context.Context, string, int32) ([]model.Message, error) {
			return []model.Message{{Sender: model.SenderAI, Body: "Welcome!"}}, nil
		}

		_, err := svc.Predict(ctx, "s1")
		Expect(err).To(MatchError(service.ErrNoConversation))
	})

	It("sends only the user's side of the conversation", func() {
		messages.listBySessionFn = func(context.Context, string, int32) ([]model.Message, error) {
			return []model.Message{
				{Sender: model.SenderUser, Body: "what loans do you offer?"},
				{Sender: model.SenderAI, Body: "We offer home and personal loans."},
				{Sender: model.SenderUser, Body: "interest rates for home loans?"},
			}, nil
		}

		var captured llm.CompletionRequest
		client.completeFn = func(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			captured = req
			return &llm.CompletionResponse{Content: `{"user_interest":"evaluative","segments":["home loans"],"actual_requirement":"compare rates","unmet_needs":[],"met_needs":["home loans"],"additional_insights":[]}`}, nil
		}

		report, err := svc.Predict(ctx, "s1")
		Expect(err).NotTo(HaveOccurred())
		Expect(report.UserInterest).To(Equal("evaluative"))
		Expect(report.Segments).To(Equal([]string{"home loans"}))

		Expect(captured.ResponseSchema).NotTo(BeNil())
		Expect(captured.SchemaName).To(Equal("intent_report"))
		userPrompt := captured.Messages[len(captured.Messages)-1].Content
		Expect(userPrompt).To(ContainSubstring("what loans do you offer?"))
		Expect(userPrompt).NotTo(ContainSubstring("We offer home and personal loans."))
	})

	It("surfaces malformed model output", func() {
		messages.listBySessionFn = func(context.Context, string, int32) ([]model.Message, error) {
			return []model.Message{{Sender: model.SenderUser, Body: "hi"}}, nil
		}
		client.completeFn = func(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Content: "not json"}, nil
		}

		_, err := svc.Predict(ctx, "s1")
		Expect(err).To(HaveOccurred())
		Expect(strings.Contains(err.Error(), "parsing intent report")).To(BeTrue())
	})
})
