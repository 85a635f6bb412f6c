// Package metrics holds Prometheus instruments that are used across the
// gateway.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConfigLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "config_load_total",
			Help: "Cumulative number of successful configuration loads.",
		})

	CRLReloadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crl_reload_total",
			Help: "Cumulative number of successful revocation-list reloads.",
		})

	CRLReloadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crl_reload_errors_total",
			Help: "Cumulative number of revocation-list reload failures (previous buffer kept).",
		})

	ChangeNotifyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "config_change_notify_total",
			Help: "Cumulative number of change notifications delivered to subscribers.",
		})
)

func init() {
	prometheus.MustRegister(
		ConfigLoadTotal,
		CRLReloadTotal,
		CRLReloadErrorsTotal,
		ChangeNotifyTotal,
	)
}
