package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/actionpulse/actionpulse/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist
var ErrNotFound = errors.New("record not found")

// Repository handles all journal operations for report records and error logs
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateRecord inserts one reporting cycle into the journal
func (r *Repository) CreateRecord(record *models.ReportRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if result := r.db.Create(record); result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert report record")
	}
	return nil
}

// GetByID retrieves a report record by its ID
func (r *Repository) GetByID(id uint) (*models.ReportRecord, error) {
	var record models.ReportRecord
	result := r.db.First(&record, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get report record")
	}
	return &record, nil
}

// GetRecent returns up to limit records, newest first
func (r *Repository) GetRecent(limit int) ([]*models.ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []*models.ReportRecord
	result := r.db.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query report records")
	}
	return records, nil
}

// GetLatest retrieves the most recent record, or nil when the journal is empty
func (r *Repository) GetLatest() (*models.ReportRecord, error) {
	var record models.ReportRecord
	result := r.db.Order("timestamp DESC").Order("id DESC").First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest record")
	}
	return &record, nil
}

// CountUndelivered returns how many records since the given time failed to reach the backend
func (r *Repository) CountUndelivered(since time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.ReportRecord{}).
		Where("timestamp >= ? AND delivered = ?", since, false).
		Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count undelivered records")
	}
	return count, nil
}

// DeleteOlderThan removes records and error logs older than before (soft delete)
func (r *Repository) DeleteOlderThan(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.ReportRecord{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old records")
	}

	if err := r.db.Where("timestamp < ?", before).Delete(&models.ErrorLog{}).Error; err != nil {
		return result.RowsAffected, errors.Wrap(err, "failed to delete old error logs")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	if errorLog.Timestamp.IsZero() {
		errorLog.Timestamp = time.Now()
	}
	if result := r.db.Create(errorLog); result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetRecentErrors returns up to limit error logs, newest first
func (r *Repository) GetRecentErrors(limit int) ([]*models.ErrorLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var logs []*models.ErrorLog
	result := r.db.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// Clear removes all report records and error logs from the journal
func (r *Repository) Clear() error {
	if result := r.db.Exec("DELETE FROM report_records"); result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear report records")
	}
	if result := r.db.Exec("DELETE FROM error_logs"); result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear error logs")
	}
	return nil
}
