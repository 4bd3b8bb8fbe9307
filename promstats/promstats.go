// Package promstats exports iso scene stats as Prometheus gauges.
//
// The game loop calls Observe after each scene update; scrapes read the
// last observed snapshot, so the collector is safe to register with a
// registry served from another goroutine.
package promstats

import (
	"net/http"
	"sync"

	"github.com/phanxgames/iso"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is a prometheus.Collector over the most recent iso.Stats.
type Collector struct {
	mu   sync.Mutex
	last iso.Stats

	descs []*prometheus.Desc
}

type statField struct {
	name, help string
	value      func(st *iso.Stats) float64
}

var fields = []statField{
	{"objects_total", "Objects in the scene.", func(st *iso.Stats) float64 { return float64(st.TotalObjects) }},
	{"objects_visible", "Objects that passed the last frustum cull.", func(st *iso.Stats) float64 { return float64(st.VisibleObjects) }},
	{"sprites_total", "Sprites in the scene.", func(st *iso.Stats) float64 { return float64(st.TotalSprites) }},
	{"sprites_visible", "Sprites of visible objects.", func(st *iso.Stats) float64 { return float64(st.VisibleSprites) }},
	{"sprites_sorted", "Length of the current draw order.", func(st *iso.Stats) float64 { return float64(st.SortedSprites) }},
	{"sort_edges", "Occlusion edges in the last sort.", func(st *iso.Stats) float64 { return float64(st.Edges) }},
	{"sort_cycle_sprites", "Sprites appended by cycle recovery in the last sort.", func(st *iso.Stats) float64 { return float64(st.Cycles) }},
	{"cull_seconds", "Duration of the last frustum cull.", func(st *iso.Stats) float64 { return st.CullTime.Seconds() }},
	{"sort_seconds", "Duration of the last depth sort.", func(st *iso.Stats) float64 { return st.SortTime.Seconds() }},
	{"lod_seconds", "Duration of the last level-of-detail pass.", func(st *iso.Stats) float64 { return st.LODTime.Seconds() }},
	{"update_seconds", "Duration of the last scene update.", func(st *iso.Stats) float64 { return st.UpdateTime.Seconds() }},
}

// New creates a collector whose metric names are prefixed with namespace.
func New(namespace string) *Collector {
	c := &Collector{descs: make([]*prometheus.Desc, len(fields))}
	for i, f := range fields {
		c.descs[i] = prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scene", f.name), f.help, nil, nil)
	}
	return c
}

// Observe records a stats snapshot for the next scrape.
func (c *Collector) Observe(st iso.Stats) {
	c.mu.Lock()
	c.last = st
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	st := c.last
	c.mu.Unlock()
	for i, f := range fields {
		ch <- prometheus.MustNewConstMetric(c.descs[i], prometheus.GaugeValue, f.value(&st))
	}
}

// Handler returns an HTTP handler serving reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
