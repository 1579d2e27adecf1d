// file: internals/route/container.go
package routes

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"creditrating_backend/internals/events"
	activityRepo "creditrating_backend/internals/features/activity_logs/repository"
	activityService "creditrating_backend/internals/features/activity_logs/service"
	assessmentRepo "creditrating_backend/internals/features/rating/assessments/repository"
	assessmentService "creditrating_backend/internals/features/rating/assessments/service"
	customerRepo "creditrating_backend/internals/features/rating/customers/repository"
	customerService "creditrating_backend/internals/features/rating/customers/service"
	historyService "creditrating_backend/internals/features/rating/history/service"
	templateRepo "creditrating_backend/internals/features/rating/templates/repository"
	templateService "creditrating_backend/internals/features/rating/templates/service"
)

// Stores groups the repositories of one storage backend.
type Stores struct {
	Templates    templateRepo.TemplateRepository
	Assessments  assessmentRepo.AssessmentRepository
	Customers    customerRepo.CustomerRepository
	ActivityLogs activityRepo.ActivityLogRepository
}

func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Templates:    templateRepo.NewGormTemplateRepository(db),
		Assessments:  assessmentRepo.NewGormAssessmentRepository(db),
		Customers:    customerRepo.NewGormCustomerRepository(db),
		ActivityLogs: activityRepo.NewGormActivityLogRepository(db),
	}
}

func NewMemoryStores() Stores {
	return Stores{
		Templates:    templateRepo.NewMemoryTemplateRepository(),
		Assessments:  assessmentRepo.NewMemoryAssessmentRepository(),
		Customers:    customerRepo.NewMemoryCustomerRepository(),
		ActivityLogs: activityRepo.NewMemoryActivityLogRepository(),
	}
}

type Services struct {
	Templates    *templateService.TemplateService
	Assessments  *assessmentService.AssessmentService
	Customers    *customerService.CustomerService
	History      *historyService.HistoryService
	ActivityLogs *activityService.ActivityLogService
}

// NewServices wires the services over st. Stores publish to pub; the
// activity log service is the caller's to subscribe.
func NewServices(st Stores, pub events.Publisher, log *logrus.Logger) Services {
	templates := templateService.NewTemplateService(st.Templates, pub, log)
	customers := customerService.NewCustomerService(st.Customers, log)
	assessments := assessmentService.NewAssessmentService(st.Assessments, templates, customers, pub, log)

	return Services{
		Templates:    templates,
		Assessments:  assessments,
		Customers:    customers,
		History:      historyService.NewHistoryService(customers, assessments, templates, log),
		ActivityLogs: activityService.NewActivityLogService(st.ActivityLogs, log),
	}
}
