package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mitsypos/models"
)

// EnsureDefaultSettings inserts every default setting that does not exist yet.
func (s *Store) EnsureDefaultSettings(ctx context.Context) error {
	for key, value := range models.DefaultSettings {
		setting := models.Setting{Key: key, Value: value}
		err := s.conn(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoNothing: true,
		}).Create(&setting).Error
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return nil
}

// Setting returns the stored value of key and whether it exists.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	var setting models.Setting
	err := s.conn(ctx).Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	return setting.Value, true, nil
}

// SetSetting inserts or replaces the value of key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("store setting %s: %w", key, err)
	}
	return nil
}

// StockManagementEnabled reports whether sales deduct ingredient inventory.
func (s *Store) StockManagementEnabled(ctx context.Context) (bool, error) {
	value, _, err := s.Setting(ctx, models.SettingStockManagement)
	if err != nil {
		return false, err
	}
	return value == "1", nil
}

func (s *Store) SetStockManagementEnabled(ctx context.Context, enabled bool) error {
	value := "0"
	if enabled {
		value = "1"
	}
	return s.SetSetting(ctx, models.SettingStockManagement, value)
}

// NextSaleNumber increments and returns the checkout counter. Call it inside a
// transaction so the number and the sale rows commit together.
func (s *Store) NextSaleNumber(ctx context.Context) (int, error) {
	value, _, err := s.Setting(ctx, models.SettingLastSaleNumber)
	if err != nil {
		return 0, err
	}

	last := 0
	if value != "" {
		last, err = strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("parse %s %q: %w", models.SettingLastSaleNumber, value, err)
		}
	}

	next := last + 1
	if err := s.SetSetting(ctx, models.SettingLastSaleNumber, strconv.Itoa(next)); err != nil {
		return 0, err
	}
	return next, nil
}
