// Package sysinfo reports host and connectivity status for the "status"
// and "connection" commands.
package sysinfo

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	gnet "github.com/shirou/gopsutil/v4/net"
)

// DefaultProbeURL answers 204 with no body, which keeps the probe cheap.
const DefaultProbeURL = "https://clients3.google.com/generate_204"

// Monitor gathers system and connection status.
type Monitor struct {
	probeURL   string
	httpClient *http.Client
}

// New creates a Monitor with a bounded probe timeout.
func New(probeURL string, timeout time.Duration) *Monitor {
	if probeURL == "" {
		probeURL = DefaultProbeURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Monitor{
		probeURL:   probeURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SystemStatus reports host, memory and CPU information.
func (m *Monitor) SystemStatus(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("System status:\n")

	if info, err := host.InfoWithContext(ctx); err == nil {
		fmt.Fprintf(&b, "  Host: %s (%s %s)\n", info.Hostname, info.Platform, info.PlatformVersion)
		fmt.Fprintf(&b, "  Uptime: %s\n", (time.Duration(info.Uptime) * time.Second).String())
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("read memory stats: %w", err)
	}
	fmt.Fprintf(&b, "  RAM: %.2f GB used of %.2f GB (%.1f%%)\n",
		float64(vm.Used)/1e9, float64(vm.Total)/1e9, vm.UsedPercent)
	fmt.Fprintf(&b, "  CPUs: %d", runtime.NumCPU())

	return b.String(), nil
}

// ConnectionStatus probes the internet and reports network counters. A
// failed probe is a valid answer, not an error.
func (m *Monitor) ConnectionStatus(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("Connection status:\n")

	online := m.probe(ctx)
	if online {
		b.WriteString("  Internet connection: available\n")
	} else {
		b.WriteString("  Internet connection: unavailable\n")
	}

	counters, err := gnet.IOCountersWithContext(ctx, false)
	if err == nil && len(counters) > 0 {
		fmt.Fprintf(&b, "  Bytes sent: %d\n", counters[0].BytesSent)
		fmt.Fprintf(&b, "  Bytes received: %d", counters[0].BytesRecv)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}
