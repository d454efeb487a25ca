package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/ytgrab/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteRequestRepository persists the download history ledger in SQLite.
type SQLiteRequestRepository struct {
	db *gorm.DB
}

// NewSQLiteRequestRepository opens (creating if needed) the history
// database and migrates its schema.
func NewSQLiteRequestRepository(dbPath string) (*SQLiteRequestRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&domain.DownloadRequest{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &SQLiteRequestRepository{db: db}, nil
}

// Create inserts a new request record
func (r *SQLiteRequestRepository) Create(request *domain.DownloadRequest) error {
	return r.db.Create(request).Error
}

// Update saves changes to an existing request record
func (r *SQLiteRequestRepository) Update(request *domain.DownloadRequest) error {
	return r.db.Save(request).Error
}

// FindByID finds a request record by ID
func (r *SQLiteRequestRepository) FindByID(id string) (*domain.DownloadRequest, error) {
	var request domain.DownloadRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindRecent returns the most recent request records, newest first.
func (r *SQLiteRequestRepository) FindRecent(limit int) ([]*domain.DownloadRequest, error) {
	var requests []*domain.DownloadRequest
	err := r.db.Order("created_at DESC").Limit(limit).Find(&requests).Error
	return requests, err
}

// Stats returns ledger counts by status.
func (r *SQLiteRequestRepository) Stats() (*domain.RequestStats, error) {
	stats := &domain.RequestStats{}

	if err := r.db.Model(&domain.DownloadRequest{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.RequestStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.DownloadRequest{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusCompleted:
			stats.Completed = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteRequestRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
