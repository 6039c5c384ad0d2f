package shellmetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pozitronik/steelclock-go/internal/metrics"
)

type fakeCPU struct{ pcts []float64 }

func (f fakeCPU) Percent(time.Duration, bool) ([]float64, error) { return f.pcts, nil }

type fakeMem struct{ used float64 }

func (f fakeMem) UsedPercent() (float64, error) { return f.used, nil }

type fakeNet struct{ stats []metrics.NetworkStat }

func (f fakeNet) IOCounters() ([]metrics.NetworkStat, error) { return f.stats, nil }

type fakeDisk struct{ stats map[string]metrics.DiskStat }

func (f fakeDisk) IOCounters() (map[string]metrics.DiskStat, error) { return f.stats, nil }

type erroringSampler struct{}

func (erroringSampler) Percent(time.Duration, bool) ([]float64, error) { return nil, errors.New("boom") }
func (erroringSampler) UsedPercent() (float64, error)                  { return 0, errors.New("boom") }
func (erroringSampler) IOCounters() ([]metrics.NetworkStat, error)     { return nil, errors.New("boom") }

func TestHostStatsCollectorSamplePublishesGauges(t *testing.T) {
	c := &HostStatsCollector{
		cpu: fakeCPU{pcts: []float64{12.5, 34.0}},
		mem: fakeMem{used: 55.5},
		net: fakeNet{stats: []metrics.NetworkStat{{Name: "eth0", BytesRecv: 100, BytesSent: 200}}},
		dsk: fakeDisk{stats: map[string]metrics.DiskStat{"sda": {Name: "sda", ReadBytes: 10, WriteBytes: 20}}},
	}

	c.Sample(time.Millisecond)

	require.Equal(t, 12.5, testutil.ToFloat64(HostCPUPercent.WithLabelValues("0")))
	require.Equal(t, 34.0, testutil.ToFloat64(HostCPUPercent.WithLabelValues("1")))
	require.Equal(t, 55.5, testutil.ToFloat64(HostMemoryUsedPercent))
	require.Equal(t, 100.0, testutil.ToFloat64(HostNetworkBytes.WithLabelValues("eth0", "recv")))
	require.Equal(t, 20.0, testutil.ToFloat64(HostDiskBytes.WithLabelValues("sda", "write")))
}

func TestHostStatsCollectorSampleToleratesProviderErrors(t *testing.T) {
	c := &HostStatsCollector{
		cpu: erroringSampler{},
		mem: erroringSampler{},
		net: erroringSampler{},
		dsk: fakeDisk{stats: map[string]metrics.DiskStat{}},
	}

	require.NotPanics(t, func() { c.Sample(time.Millisecond) })
}
