package service

import (
	"brightdesk.app/chat/common/llm"
	"brightdesk.app/chat/core/config"
	"brightdesk.app/chat/internal/leads"
	"brightdesk.app/chat/internal/queue"
	"brightdesk.app/chat/internal/rag"
	"brightdesk.app/chat/internal/store"
)

type Services struct {
	stores    *store.Stores
	answerer  rag.Answerer
	intentLLM llm.Client
	producer  queue.Producer
	exporter  leads.Exporter
	cfg       config.Config
}

func NewServices(stores *store.Stores, answerer rag.Answerer, intentLLM llm.Client, producer queue.Producer, exporter leads.Exporter, cfg config.Config) *Services {
	return &Services{
		stores:    stores,
		answerer:  answerer,
		intentLLM: intentLLM,
		producer:  producer,
		exporter:  exporter,
		cfg:       cfg,
	}
}

func (s *Services) summarizer() leads.Summarizer {
	return leads.NewSummarizer(
		s.stores.Messages(),
		s.stores.Leads(),
		s.cfg.Leads.SummaryMaxLen,
		s.cfg.Leads.LatestNeedMaxLen,
	)
}

func (s *Services) Chat() ChatService {
	summarizer := s.summarizer()
	detector := leads.NewDetector(
		s.stores.LeadStates(),
		s.stores.Messages(),
		summarizer,
		s.cfg.Leads.ProactiveTurnThreshold,
	)
	flow := leads.NewFlow(
		s.stores.LeadStates(),
		s.stores.Leads(),
		summarizer,
		s.exporter,
	)
	return NewChatService(s.stores.Messages(), detector, flow, s.answerer, s.cfg.Leads.HistoryWindow)
}

func (s *Services) Intent() IntentService {
	return NewIntentService(s.stores.Messages(), s.intentLLM)
}

func (s *Services) Leads() LeadService {
	return NewLeadService(s.stores.Leads(), s.stores.LeadStates(), s.summarizer(), s.exporter)
}

func (s *Services) Ingest() IngestService {
	return NewIngestService(s.producer, s.cfg.Ingest)
}
