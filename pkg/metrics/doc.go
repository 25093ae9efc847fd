// Package metrics exports session load and save outcomes to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	manager, err := session.New(keys,
//	    session.WithObserver(metrics.New(metrics.WithRegistry(reg))),
//	)
package metrics
