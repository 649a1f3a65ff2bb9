package services

import (
	"fmt"
	"strconv"

	"BooksApp/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsService is the typed key/value configuration store. Values are
// persisted as strings and coerced on read by a fixed rule: "True"/"False"
// become bool, all-digit values become int, everything else stays a string.
type SettingsService struct {
	*BaseService
}

// NewSettingsService creates a new settings service.
func NewSettingsService() *SettingsService {
	return &SettingsService{NewBaseService()}
}

// NotificationSettings is the validated, typed view of the keys the
// background due-date notifier reads.
type NotificationSettings struct {
	Enabled bool
	Days    int
	Email   string
	Hour    int
	Minute  int
}

// defaultSettings are the keys seeded on first run. Existing values are
// never overwritten.
var defaultSettings = map[string]any{
	"notifications_enabled": true,
	"notification_days":     7,
	"notification_email":    "",
	"email_hour":            9,
	"email_minute":          0,
}

// EnsureDefaults inserts any default setting that is not present yet.
func (s *SettingsService) EnsureDefaults() error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		for key, value := range defaultSettings {
			row := models.Setting{Key: key, Value: encodeSettingValue(value)}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAll returns every setting with the read coercion applied.
func (s *SettingsService) GetAll() (map[string]any, error) {
	var rows []models.Setting
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	settings := make(map[string]any, len(rows))
	for _, row := range rows {
		settings[row.Key] = coerceSettingValue(row.Value)
	}
	return settings, nil
}

// SaveAll upserts a whole settings map in one transaction.
func (s *SettingsService) SaveAll(settings map[string]any) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		for key, value := range settings {
			if err := upsertSetting(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update upserts a single setting.
func (s *SettingsService) Update(key string, value any) error {
	if err := s.EnsureDB(); err != nil {
		return err
	}
	return upsertSetting(s.db, key, value)
}

// GetString reads a setting as a string, falling back when absent.
func (s *SettingsService) GetString(key, fallback string) string {
	value, ok := s.rawValue(key)
	if !ok {
		return fallback
	}
	return value
}

// GetInt reads a setting as an int, falling back when absent or not
// numeric.
func (s *SettingsService) GetInt(key string, fallback int) int {
	value, ok := s.rawValue(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetBool reads a setting as a bool, falling back when absent or not one
// of the stored "True"/"False" spellings.
func (s *SettingsService) GetBool(key string, fallback bool) bool {
	value, ok := s.rawValue(key)
	if !ok {
		return fallback
	}
	switch value {
	case "True":
		return true
	case "False":
		return false
	default:
		return fallback
	}
}

// LoadNotificationSettings builds the typed notifier configuration with
// defaults for absent keys.
func (s *SettingsService) LoadNotificationSettings() (*NotificationSettings, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	ns := &NotificationSettings{
		Enabled: s.GetBool("notifications_enabled", true),
		Days:    s.GetInt("notification_days", 7),
		Email:   s.GetString("notification_email", ""),
		Hour:    s.GetInt("email_hour", 9),
		Minute:  s.GetInt("email_minute", 0),
	}
	if ns.Days < 0 {
		return nil, validationErrorf("notification_days must not be negative")
	}
	if ns.Hour < 0 || ns.Hour > 23 || ns.Minute < 0 || ns.Minute > 59 {
		return nil, validationErrorf("email send time %02d:%02d is out of range", ns.Hour, ns.Minute)
	}
	return ns, nil
}

func (s *SettingsService) rawValue(key string) (string, bool) {
	if s.db == nil {
		return "", false
	}
	var row models.Setting
	if err := s.db.First(&row, "key = ?", key).Error; err != nil {
		return "", false
	}
	return row.Value, true
}

// upsertSetting writes one key, encoding bools with the persisted
// "True"/"False" spelling older data files use.
func upsertSetting(tx *gorm.DB, key string, value any) error {
	row := models.Setting{Key: key, Value: encodeSettingValue(value)}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
}

func encodeSettingValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func coerceSettingValue(value string) any {
	switch value {
	case "True":
		return true
	case "False":
		return false
	}
	if value != "" && allDigits(value) {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return value
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
