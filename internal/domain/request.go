package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle of one download request in the history
// ledger.
type RequestStatus string

const (
	StatusProcessing RequestStatus = "processing"
	StatusCompleted  RequestStatus = "completed"
	StatusFailed     RequestStatus = "failed"
)

// DownloadRequest is the persisted record of one CLI run. One row per
// requested URL, updated as the retry session progresses.
type DownloadRequest struct {
	ID           string        `json:"id" gorm:"primaryKey"`
	URL          string        `json:"url" gorm:"not null"`
	Platform     Platform      `json:"platform" gorm:"not null"`
	Status       RequestStatus `json:"status" gorm:"not null;index"`
	Client       string        `json:"client,omitempty"`
	Attempts     int           `json:"attempts" gorm:"default:0"`
	Category     string        `json:"category,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	OutputDir    string        `json:"output_dir,omitempty"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// NewDownloadRequest creates a processing record for a URL.
func NewDownloadRequest(url string) *DownloadRequest {
	return &DownloadRequest{
		ID:        uuid.New().String(),
		URL:       url,
		Platform:  DetectPlatform(url),
		Status:    StatusProcessing,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// MarkCompleted records a successful download.
func (r *DownloadRequest) MarkCompleted(client Client, attempts int, outputDir string) {
	r.Status = StatusCompleted
	r.Client = string(client)
	r.Attempts = attempts
	r.OutputDir = outputDir
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// MarkFailed records a terminal failure with its classification.
func (r *DownloadRequest) MarkFailed(err error, category ErrorCategory, attempts int) {
	r.Status = StatusFailed
	r.Attempts = attempts
	r.Category = string(category)
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	r.UpdatedAt = time.Now()
}

// RequestRepository persists the download history ledger.
type RequestRepository interface {
	Create(request *DownloadRequest) error
	Update(request *DownloadRequest) error
	FindByID(id string) (*DownloadRequest, error)
	FindRecent(limit int) ([]*DownloadRequest, error)
	Stats() (*RequestStats, error)
	Close() error
}

// RequestStats summarizes the ledger for the history subcommand.
type RequestStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}
