package database

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	activityModel "creditrating_backend/internals/features/activity_logs/model"
	assessmentModel "creditrating_backend/internals/features/rating/assessments/model"
	customerModel "creditrating_backend/internals/features/rating/customers/model"
	templateModel "creditrating_backend/internals/features/rating/templates/model"
)

const legacyTemplateNameColumn = "template_name"

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB, log *logrus.Logger) error {
	if err := db.AutoMigrate(
		&templateModel.TemplateModel{},
		&customerModel.CustomerModel{},
		&assessmentModel.AssessmentModel{},
		&activityModel.ActivityLogModel{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	// template names are unique among visible, non-deleted rows only
	if err := db.Exec(`DROP INDEX IF EXISTS uq_rating_templates_name_key_alive`).Error; err != nil {
		return errors.Wrap(err, "drop old template name index")
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_rating_templates_name_key_visible
		ON rating_templates (template_name_key)
		WHERE template_is_deleted = false AND template_deleted_at IS NULL`).Error; err != nil {
		return errors.Wrap(err, "template name index")
	}

	return MigrateLegacyTemplateName(db, log)
}

// MigrateLegacyTemplateName folds the old customer_assessments.template_name
// column into assessment_template_name and drops it. Safe to run repeatedly.
func MigrateLegacyTemplateName(db *gorm.DB, log *logrus.Logger) error {
	var count int64
	if err := db.Raw(`SELECT count(*) FROM information_schema.columns
		WHERE table_schema = CURRENT_SCHEMA()
		  AND table_name = ? AND column_name = ?`,
		assessmentModel.AssessmentModel{}.TableName(), legacyTemplateNameColumn,
	).Scan(&count).Error; err != nil {
		return errors.Wrap(err, "inspect legacy template_name")
	}
	if count == 0 {
		return nil
	}

	res := db.Exec(`UPDATE customer_assessments
		SET assessment_template_name = template_name
		WHERE (assessment_template_name IS NULL OR assessment_template_name = '')
		  AND template_name IS NOT NULL`)
	if res.Error != nil {
		return errors.Wrap(res.Error, "copy legacy template_name")
	}
	if err := db.Exec(`ALTER TABLE customer_assessments DROP COLUMN IF EXISTS template_name`).Error; err != nil {
		return errors.Wrap(err, "drop legacy template_name")
	}
	log.WithField("rows", res.RowsAffected).Info("legacy template_name migrated")
	return nil
}
