package shellmetrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pozitronik/steelclock-go/internal/metrics"
)

var (
	HostCPUPercent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steelshell_host_cpu_percent",
			Help: "Per-core CPU usage percentage of the host running steelshell",
		},
		[]string{"core"},
	)

	HostMemoryUsedPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "steelshell_host_memory_used_percent",
			Help: "Percentage of host memory currently in use",
		},
	)

	HostNetworkBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steelshell_host_network_bytes_total",
			Help: "Cumulative bytes sent/received per network interface",
		},
		[]string{"interface", "direction"},
	)

	HostDiskBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steelshell_host_disk_bytes_total",
			Help: "Cumulative bytes read/written per disk device",
		},
		[]string{"device", "direction"},
	)
)

func init() {
	prometheus.MustRegister(HostCPUPercent, HostMemoryUsedPercent, HostNetworkBytes, HostDiskBytes)
}

// HostStatsCollector periodically samples internal/metrics's gopsutil-backed
// providers and republishes them as Prometheus gauges, the host-level
// counterpart to the service-level gauges above. Kept separate from the
// per-service collectors since it samples on a timer rather than on event.
type HostStatsCollector struct {
	cpu CPUSampler
	mem MemSampler
	net NetSampler
	dsk DiskSampler
}

type CPUSampler interface {
	Percent(interval time.Duration, perCore bool) ([]float64, error)
}

type MemSampler interface {
	UsedPercent() (float64, error)
}

type NetSampler interface {
	IOCounters() ([]metrics.NetworkStat, error)
}

type DiskSampler interface {
	IOCounters() (map[string]metrics.DiskStat, error)
}

// NewHostStatsCollector wires the default gopsutil-backed providers from
// internal/metrics, the same ones the teacher's OLED CPU/memory/network/disk
// widgets read from.
func NewHostStatsCollector() *HostStatsCollector {
	return &HostStatsCollector{
		cpu: metrics.DefaultCPU,
		mem: metrics.DefaultMemory,
		net: metrics.DefaultNetwork,
		dsk: metrics.DefaultDisk,
	}
}

// Sample takes one reading of each host stat and updates the gauges. interval
// bounds how long the CPU percent call blocks sampling.
func (c *HostStatsCollector) Sample(interval time.Duration) {
	if pcts, err := c.cpu.Percent(interval, true); err == nil {
		for i, p := range pcts {
			HostCPUPercent.WithLabelValues(coreLabel(i)).Set(p)
		}
	}
	if used, err := c.mem.UsedPercent(); err == nil {
		HostMemoryUsedPercent.Set(used)
	}
	if stats, err := c.net.IOCounters(); err == nil {
		for _, s := range stats {
			HostNetworkBytes.WithLabelValues(s.Name, "recv").Set(float64(s.BytesRecv))
			HostNetworkBytes.WithLabelValues(s.Name, "sent").Set(float64(s.BytesSent))
		}
	}
	if stats, err := c.dsk.IOCounters(); err == nil {
		for name, s := range stats {
			HostDiskBytes.WithLabelValues(name, "read").Set(float64(s.ReadBytes))
			HostDiskBytes.WithLabelValues(name, "write").Set(float64(s.WriteBytes))
		}
	}
}

// Run samples on the given period until stop is closed.
func (c *HostStatsCollector) Run(stop <-chan struct{}, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Sample(250 * time.Millisecond)
		case <-stop:
			return
		}
	}
}

// coreLabel formats a core index as its decimal label. Sample always calls
// Percent with perCore true, so every index is a real core number and no
// aggregate "all" label is produced.
func coreLabel(i int) string {
	return strconv.Itoa(i)
}
