package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds query-critical indexes beyond what AutoMigrate
// derives from the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Alert feed ordering and per-community filtering
		{"alerts", "idx_alerts_community_created", "community_id, created_at"},
		{"alerts", "idx_alerts_resolved", "resolved"},

		// Moderation review lookups
		{"alert_reports", "idx_alert_reports_alert_id", "alert_id"},

		// Join-by-slug lookups
		{"communities", "idx_communities_invite_slug", "invite_slug"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
