// Package metrics provides lazily-registered prometheus collectors for the
// MVC dispatch path. Vectors are registered once per name+label-set and
// reused on subsequent calls.
package metrics

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mux = sync.RWMutex{}

	counters   = make(map[string]*prometheus.CounterVec)
	histograms = make(map[string]*prometheus.HistogramVec)
)

// MeasureDispatch starts measuring one request dispatch. The returned
// function records the dispatch count and duration labeled with the resolved
// controller, action and response status code.
func MeasureDispatch(controller, action string) func(statusCode int) {
	lbs := prometheus.Labels{
		"controller": controller,
		"action":     action,
		"code":       "",
	}

	cnt := Counter("mvc_dispatch_total", "Total number of dispatched requests.", lbs)
	dur := Histogram("mvc_dispatch_duration_seconds", "Request dispatch duration.", lbs)

	start := time.Now()

	return func(statusCode int) {
		lbs["code"] = strconv.Itoa(statusCode)
		cnt.With(lbs).Inc()
		dur.With(lbs).Observe(time.Since(start).Seconds())
	}
}

func Counter(name, help string, labels prometheus.Labels) *prometheus.CounterVec {
	k := metricKey(name, labels)

	mux.RLock()
	c, ok := counters[k]
	mux.RUnlock()
	if ok {
		return c
	}

	mux.Lock()
	defer mux.Unlock()

	if c, ok = counters[k]; ok {
		return c
	}

	c = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labelKeys(labels))

	counters[k] = c

	return c
}

func Histogram(name, help string, labels prometheus.Labels) *prometheus.HistogramVec {
	k := metricKey(name, labels)

	mux.RLock()
	h, ok := histograms[k]
	mux.RUnlock()
	if ok {
		return h
	}

	mux.Lock()
	defer mux.Unlock()

	if h, ok = histograms[k]; ok {
		return h
	}

	h = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: name,
		Help: help,
	}, labelKeys(labels))

	histograms[k] = h

	return h
}

func labelKeys(labels prometheus.Labels) []string {
	res := make([]string, 0, len(labels))
	for k := range labels {
		res = append(res, k)
	}

	slices.Sort(res)

	return res
}

func metricKey(name string, labels prometheus.Labels) string {
	return name + strings.Join(labelKeys(labels), "")
}
