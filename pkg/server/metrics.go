/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// requestsTotal and requestDuration instrument every webhook request by
// path and outcome, in the shape of k8s.io/component-base/metrics'
// admission-webhook counters -- grounded on
// other_examples/18a013c7_Cloudzero-cloudzero-agent's
// metricWebhookEventTotal CounterVec.
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generic_webhook_requests_total",
			Help: "Total number of admission webhook requests, by path and outcome.",
		},
		[]string{"path", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generic_webhook_request_duration_seconds",
			Help:    "Admission webhook request handling latency in seconds, by path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

// registerMetrics registers the package's collectors with reg. Safe to
// call once per registry, including across several Server instances in
// the same process.
func registerMetrics(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{requestsTotal, requestDuration} {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if err := reg.Register(c); err != nil && !errors.As(err, &alreadyRegistered) {
			panic(err)
		}
	}
}

// outcome labels for requestsTotal.
const (
	outcomeAllow = "allow"
	outcomeDeny  = "deny"
	outcomeError = "error"
)

func observe(path, outcome string, start time.Time) {
	requestsTotal.WithLabelValues(path, outcome).Inc()
	requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}
