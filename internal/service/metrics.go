package service

import "github.com/prometheus/client_golang/prometheus"

var (
	loginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "account_logins_total", Help: "Login attempts by method and result"},
		[]string{"method", "result"},
	)
	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "product_status_changes_total", Help: "Product status updates by target status"},
		[]string{"status"},
	)
	editsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "product_edits_applied_total", Help: "Staged edits merged into products"},
	)
	editsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "product_edits_purged_total", Help: "Staged edits removed by an apply"},
	)
)

func init() { prometheus.MustRegister(loginTotal, statusChanges, editsApplied, editsPurged) }
