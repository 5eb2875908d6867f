package gorm

import "time"

// SystemSetting is a named marker row, e.g. the timestamp of the last weekly points reset.
type SystemSetting struct {
	Key         string     `gorm:"column:name;primaryKey;type:varchar(64)"`
	Value       string     `gorm:"column:value;type:text"`
	LastResetAt *time.Time `gorm:"column:last_reset_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SystemSetting) TableName() string {
	return "system_settings"
}
