// file: internals/features/activity_logs/model/activity_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityLogModel struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey;column:activity_log_id"`
	Action      string            `json:"action" gorm:"type:varchar(64);not null;index:idx_activity_logs_action;column:activity_log_action"`
	EntityType  string            `json:"entityType" gorm:"type:varchar(32);not null;index:idx_activity_logs_entity,priority:1;column:activity_log_entity_type"`
	EntityID    string            `json:"entityId" gorm:"type:text;not null;index:idx_activity_logs_entity,priority:2;column:activity_log_entity_id"`
	Actor       string            `json:"actor" gorm:"type:text;column:activity_log_actor"`
	Description string            `json:"description" gorm:"type:text;column:activity_log_description"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb;column:activity_log_metadata"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"not null;index:idx_activity_logs_created_at;column:activity_log_created_at"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }
