package dto

type IngestRequest struct {
	URL      string `json:"url" binding:"omitempty,url,max=2048"`
	PDFPath  string `json:"pdf_path" binding:"omitempty,max=4096"`
	MaxPages int    `json:"max_pages" binding:"omitempty,min=1,max=5000"`
}

type IngestResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
