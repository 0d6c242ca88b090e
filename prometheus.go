package offheap

import "github.com/prometheus/client_golang/prometheus"

// Collector exports a factory's Metrics to Prometheus.
type Collector struct {
	f *Factory

	allocs      *prometheus.Desc
	frees       *prometheus.Desc
	liveAllocs  *prometheus.Desc
	bytesInUse  *prometheus.Desc
	capacity    *prometheus.Desc
	tracked     *prometheus.Desc
	leaks       *prometheus.Desc
	utilization *prometheus.Desc
}

// NewCollector returns a collector for f. Register it with a
// prometheus.Registerer; constLabels distinguish several factories.
func NewCollector(f *Factory, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("offheap", "", name), help, nil, constLabels)
	}
	return &Collector{
		f:           f,
		allocs:      desc("allocations_total", "Allocations made by the memory provider."),
		frees:       desc("frees_total", "Allocations released to the memory provider."),
		liveAllocs:  desc("live_allocations", "Allocations currently live."),
		bytesInUse:  desc("bytes_in_use", "Bytes requested by live allocations."),
		capacity:    desc("capacity_bytes", "Bytes reserved from the backing store."),
		tracked:     desc("tracked_arrays", "Arrays registered with the leak detector and not yet freed."),
		leaks:       desc("leaks_total", "Arrays garbage-collected without Free."),
		utilization: desc("utilization_ratio", "Ratio of bytes in use to capacity."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocs
	ch <- c.frees
	ch <- c.liveAllocs
	ch <- c.bytesInUse
	ch <- c.capacity
	ch <- c.tracked
	ch <- c.leaks
	ch <- c.utilization
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.f.Metrics()
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(m.Frees))
	ch <- prometheus.MustNewConstMetric(c.liveAllocs, prometheus.GaugeValue, float64(m.LiveAllocs))
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(m.BytesInUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.tracked, prometheus.GaugeValue, float64(m.Tracked))
	ch <- prometheus.MustNewConstMetric(c.leaks, prometheus.CounterValue, float64(m.Leaks))
	ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, m.Utilization)
}
