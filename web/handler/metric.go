/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package handler

import (
	"strconv"
	"time"

	"github.com/caiflower/static-httpd/global/env"
	"github.com/caiflower/static-httpd/web/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	dropEmpty = "empty"
	dropParse = "parse"
)

type HttpMetric struct {
	httpRequestTotal   *prometheus.CounterVec
	httpRequestDropped *prometheus.CounterVec
	costHistogram      prometheus.Histogram
}

// NewHttpMetric 注册到registerer，注册失败(如重复注册)时忽略
func NewHttpMetric(registerer prometheus.Registerer) *HttpMetric {
	constLabels := prometheus.Labels{"ip": env.GetLocalHostIP()}

	// 单位: 微秒
	buckets := []float64{50, 100, 200, 500, 1000, 2000, 5000, 10000, 50000}
	metric := &HttpMetric{
		httpRequestTotal:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_total", Help: "http_request_total counter", ConstLabels: constLabels}, []string{"code", "method"}),
		httpRequestDropped: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_dropped_total", Help: "requests closed without a response", ConstLabels: constLabels}, []string{"reason"}),
		costHistogram:      prometheus.NewHistogram(prometheus.HistogramOpts{Name: "http_request_histogram", Help: "http_request_histogram", Buckets: buckets, ConstLabels: constLabels}),
	}

	if registerer != nil {
		_ = registerer.Register(metric.httpRequestTotal)
		_ = registerer.Register(metric.httpRequestDropped)
		_ = registerer.Register(metric.costHistogram)
	}

	return metric
}

func (m *HttpMetric) saveMetric(code int, method string, cost time.Duration) {
	// 任意method都可能出现，只区分GET和其他，避免label膨胀
	if method != protocol.MethodGet {
		method = "OTHER"
	}
	m.httpRequestTotal.WithLabelValues(strconv.Itoa(code), method).Inc()
	m.costHistogram.Observe(float64(cost.Microseconds()))
}

func (m *HttpMetric) saveDrop(reason string) {
	m.httpRequestDropped.WithLabelValues(reason).Inc()
}
