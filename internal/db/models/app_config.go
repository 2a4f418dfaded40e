package models

// Well known app_config keys.
const (
	KeyMaintenanceMode            = "maintenance_mode"
	KeyAutoChallengeEnabled       = "auto_challenge_enabled"
	KeyAutoChallengeIntervalHours = "auto_challenge_interval_hours"
	KeyAutoChallengeType          = "auto_challenge_type"
	KeyAutoChallengeLastRun       = "auto_challenge_last_run"
)

// AppConfig is a key/value entry of the app_config table.
// Values are strings, typed parsing is left to the consumer.
type AppConfig struct {
	Key   string `gorm:"size:128;primaryKey" json:"key"`
	Value string `gorm:"type:text;not null"  json:"value"`
}

// TableName overrides the pluralized default.
func (AppConfig) TableName() string {
	return "app_config"
}
