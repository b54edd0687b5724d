package queue

// IngestJob is one content ingestion request. The server enqueues it; the
// worker chunks, embeds, and indexes the content. Exactly one of SourceURL
// (crawl a website) or PDFPath (load a local document) is set.
type IngestJob struct {
	JobID     string
	SourceURL string
	PDFPath   string
	MaxPages  int
	Attempt   int
	TraceID   string
}

// Source is the job's content location, whichever kind it is.
func (j IngestJob) Source() string {
	if j.SourceURL != "" {
		return j.SourceURL
	}
	return j.PDFPath
}

const (
	// DefaultStream is the ingest job stream.
	DefaultStream = "chat_ingest"
	// DefaultDLQStream receives jobs that exhausted their attempts.
	DefaultDLQStream = "chat_ingest_dlq"
	// DefaultGroup is the worker consumer group.
	DefaultGroup = "ingest-workers"
)
