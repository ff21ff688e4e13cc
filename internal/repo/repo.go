package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/stockroom/internal/models"
)

// GormRepo stores key-value slots in the kv_entries table.
type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	if err := r.DB.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *GormRepo) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *GormRepo) Delete(ctx context.Context, key string) error {
	return r.DB.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error
}

// MemoryRepo is the STORAGE_DRIVER=memory slot store; nothing survives a restart.
type MemoryRepo struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]string)}
}

func (r *MemoryRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *MemoryRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}
