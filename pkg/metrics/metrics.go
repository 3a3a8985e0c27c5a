package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UsersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "backoffice", Name: "users_created_total", Help: "Number of user accounts created, by origin (form|csv)."},
		[]string{"origin"},
	)
	ImportRowsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "backoffice", Name: "import_rows_skipped_total", Help: "Number of CSV rows skipped during import."},
	)
	UsersDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "backoffice", Name: "users_deleted_total", Help: "Number of user accounts deleted, by mode (single|batch)."},
		[]string{"mode"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(UsersCreated)
	reg.MustRegister(ImportRowsSkipped)
	reg.MustRegister(UsersDeleted)
}
