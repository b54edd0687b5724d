package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"brightdesk.app/chat/common/id"
	"brightdesk.app/chat/internal/leads"
	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/service"
)

var _ = Describe("ChatService", func() {
	var (
		ctx      context.Context
		messages *mockMessageStore
		detector *mockDetector
		flow     *mockFlow
		answerer *mockAnswerer
		svc      service.ChatService
	)

	BeforeEach(func() {
		ctx = context.Background()
		messages = &mockMessageStore{}
		detector = &mockDetector{}
		flow = &mockFlow{}
		answerer = &mockAnswerer{}

		err := id.Init(1)
		Expect(err).NotTo(HaveOccurred())

		svc = service.NewChatService(messages, detector, flow, answerer, 20)
	})

	Describe("Converse", func() {
		It("rejects empty messages", func() {
			_, err := svc.Converse(ctx, "s1", "   ")
			Expect(err).To(MatchError(service.ErrEmptyMessage))
			Expect(messages.appended).To(BeEmpty())
		})

		It("persists both sides of the turn", func() {
			answerer.answerFn = func(context.Context, string, []model.Message) (string, error) {
				return "We offer consulting services.", nil
			}

			reply, err := svc.Converse(ctx, "s1", "what do you do?")
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Message).To(Equal("We offer consulting services."))

			Expect(messages.appended).To(HaveLen(2))
			Expect(messages.appended[0].Sender).To(Equal(model.SenderUser))
			Expect(messages.appended[0].Body).To(Equal("what do you do?"))
			Expect(messages.appended[0].ID).NotTo(BeZero())
			Expect(messages.appended[1].Sender).To(Equal(model.SenderAI))
			Expect(messages.appended[1].Body).To(Equal("We offer consulting services."))
		})

		Context("when the lead flow consumes the turn", func() {
			BeforeEach(func() {
				detector.shouldStartFn = func(context.Context, string, string) (bool, error) {
					return true, nil
				}
				flow.processFn = func(context.Context, string, string) (leads.Result, error) {
					return leads.Result{Handled: true, Message: "May I know your name, please?"}, nil
				}
			})

			It("returns the lead prompt without consulting the answerer", func() {
				reply, err := svc.Converse(ctx, "s1", "what's your pricing?")
				Expect(err).NotTo(HaveOccurred())
				Expect(reply.LeadFlow).To(BeTrue())
				Expect(reply.Message).To(Equal("May I know your name, please?"))
				Expect(answerer.calls).To(BeZero())
			})

			It("propagates lead completion", func() {
				flow.processFn = func(context.Context, string, string) (leads.Result, error) {
					return leads.Result{Handled: true, Message: "Thank you, Priya!", LeadCompleted: true}, nil
				}

				reply, err := svc.Converse(ctx, "s1", "9876543210")
				Expect(err).NotTo(HaveOccurred())
				Expect(reply.LeadCompleted).To(BeTrue())
			})
		})

		Context("when the lead flow falls through", func() {
			BeforeEach(func() {
				detector.shouldStartFn = func(context.Context, string, string) (bool, error) {
					return true, nil
				}
				flow.processFn = func(context.Context, string, string) (leads.Result, error) {
					return leads.Result{Handled: false}, nil
				}
				answerer.answerFn = func(context.Context, string, []model.Message) (string, error) {
					return "Here's what I found.", nil
				}
			})

			It("answers from the documents", func() {
				reply, err := svc.Converse(ctx, "s1", "thanks")
				Expect(err).NotTo(HaveOccurred())
				Expect(reply.LeadFlow).To(BeFalse())
				Expect(reply.Message).To(Equal("Here's what I found."))
				Expect(answerer.calls).To(Equal(1))
			})
		})

		It("falls through to QA when trigger detection fails", func() {
			detector.shouldStartFn = func(context.Context, string, string) (bool, error) {
				return false, errors.New("db down")
			}
			answerer.answerFn = func(context.Context, string, []model.Message) (string, error) {
				return "Answer anyway.", nil
			}

			reply, err := svc.Converse(ctx, "s1", "what's your pricing?")
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Message).To(Equal("Answer anyway."))
		})

		It("returns the fallback when answer generation fails", func() {
			answerer.answerFn = func(context.Context, string, []model.Message) (string, error) {
				return "", errors.New("llm unavailable")
			}

			reply, err := svc.Converse(ctx, "s1", "what do you do?")
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Message).To(Equal("I don't know."))
		})

		It("fails the turn when the user message cannot be stored", func() {
			messages.appendFn = func(context.Context, *model.Message) error {
				return errors.New("insert failed")
			}

			_, err := svc.Converse(ctx, "s1", "hello there")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("History", func() {
		It("returns the stored conversation", func() {
			messages.listBySessionFn = func(_ context.Context, sessionID string, _ int32) ([]model.Message, error) {
				return []model.Message{
					{SessionID: sessionID, Sender: model.SenderUser, Body: "hi"},
					{SessionID: sessionID, Sender: model.SenderAI, Body: "hello!"},
				}, nil
			}

			msgs, err := svc.History(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(2))
		})
	})
})
