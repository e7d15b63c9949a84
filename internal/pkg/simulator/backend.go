// Package simulator is a development backend that walks through the
// deployment workflow without touching any hardware.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/siderolabs/gen/xslices"
	"github.com/siderolabs/go-pointer"
	"go.uber.org/zap"

	"github.com/cozystack/rlyehctl/internal/pkg/wizard"
)

var (
	// ErrNotReady is returned when a request arrives before the workflow reached the matching stage.
	ErrNotReady = errors.New("backend is not at the required stage")
	// ErrInvalid is returned for malformed or infeasible requests.
	ErrInvalid = errors.New("invalid request")
)

// Script is the status progression of a deployment.
var Script = []string{
	wizard.StatusNone,
	wizard.StatusChooseOperation,
	"bootstrap_start",
	"bootstrap_end",
	"auth_start",
	"auth_end",
	"inventory_start",
	"inventory_wait",
	"provision_start",
	"provision_end",
	"service_start",
	"service_wait",
	"service_end",
	wizard.StatusReady,
}

// DefaultDevices is the inventory reported when none is configured.
func DefaultDevices() []wizard.Device {
	return []wizard.Device{
		{Path: "/dev/vda", Type: "hdd", SizeBytes: 20 << 30, Available: false},
		{Path: "/dev/vdb", Type: "hdd", SizeBytes: 100 << 30, Available: true},
		{Path: "/dev/vdc", Type: "ssd", SizeBytes: 100 << 30, Available: true},
	}
}

// CalcSolutions derives the feasibility report from the device list: a
// striped layout needs one available device, a mirrored one needs two.
func CalcSolutions(devices []wizard.Device) wizard.SolutionReport {
	available := xslices.Filter(devices, func(d wizard.Device) bool { return d.Available })
	total := float64(wizard.AvailableRawBytes(devices))

	report := wizard.SolutionReport{
		CanRaid0: len(available) > 0,
		CanRaid1: len(available) >= 2,
	}

	if report.CanRaid0 {
		report.Raid0Size = total
	}

	if report.CanRaid1 {
		report.Raid1Size = total / 2
	}

	return report
}

// Backend is the simulated appliance state.
type Backend struct {
	logger  *zap.Logger
	devices []wizard.Device

	mu           sync.Mutex
	pos          int
	bootstrapped bool
	solution     string
	exports      []string
	result       *wizard.BootstrapResult
	used         map[string]int64
}

func NewBackend(devices []wizard.Device, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}

	if devices == nil {
		devices = DefaultDevices()
	}

	return &Backend{
		logger:  logger,
		devices: slices.Clone(devices),
		used:    map[string]int64{},
	}
}

func (b *Backend) current() string {
	return Script[b.pos]
}

func (b *Backend) reached(status string) bool {
	return b.pos >= slices.Index(Script, status)
}

// Status returns the current status in the backend's upper-case spelling.
func (b *Backend) Status() wizard.StatusReply {
	b.mu.Lock()
	defer b.mu.Unlock()

	reply := wizard.StatusReply{Status: strings.ToUpper(b.current())}
	if b.result != nil {
		r := *b.result
		reply.Result = &r
	}

	return reply
}

func (b *Backend) gated() bool {
	switch b.current() {
	case wizard.StatusChooseOperation:
		return !b.bootstrapped
	case "inventory_wait":
		return b.solution == ""
	case "service_wait":
		return b.exports == nil
	default:
		return false
	}
}

// Advance moves the workflow one status forward unless it waits for user
// input. It reports whether the status changed.
func (b *Backend) Advance() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current() == wizard.StatusReady {
		b.growUsage()

		return false
	}

	if b.gated() {
		return false
	}

	b.pos++

	if b.current() == "bootstrap_end" {
		b.result = pointer.To(wizard.BootstrapResult{
			FSID:        uuid.NewString(),
			ConfigPath:  "/etc/ceph/ceph.conf",
			KeyringPath: "/etc/ceph/ceph.client.admin.keyring",
			Dashboard: &wizard.DashboardInfo{
				Host:     "localhost",
				Port:     8443,
				User:     "admin",
				Password: "bootstrapPW",
			},
		})
	}

	b.logger.Info("status advanced", zap.String("status", b.current()))

	return true
}

// Bootstrap starts the workflow from the choose-operation status.
func (b *Backend) Bootstrap() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.reached(wizard.StatusChooseOperation) {
		return fmt.Errorf("%w: backend is still starting", ErrNotReady)
	}

	b.bootstrapped = true

	return nil
}

// Inventory returns the devices and feasibility report once the scan finished.
func (b *Backend) Inventory() (wizard.InventoryReply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.reached("inventory_wait") {
		return wizard.InventoryReply{}, fmt.Errorf("%w: inventory not available", ErrNotReady)
	}

	return wizard.InventoryReply{
		Devices:  slices.Clone(b.devices),
		Solution: CalcSolutions(b.devices),
	}, nil
}

// AcceptSolution records the redundancy strategy while the inventory stage waits.
func (b *Backend) AcceptSolution(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current() != "inventory_wait" {
		return fmt.Errorf("%w: not waiting for a solution", ErrNotReady)
	}

	if _, err := wizard.ValidateSolutionName(name, wizard.BuildCatalog(CalcSolutions(b.devices))); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	b.solution = name
	b.logger.Info("solution accepted", zap.String("solution", name))

	return nil
}

// SetupServices records the exports while the service stage waits.
func (b *Backend) SetupServices(names []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current() != "service_wait" {
		return fmt.Errorf("%w: not waiting for services", ErrNotReady)
	}

	seen := make([]string, 0, len(names))

	for _, name := range names {
		if err := wizard.ValidateExportName(name, seen); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		seen = append(seen, strings.TrimSpace(name))
	}

	b.exports = seen
	b.logger.Info("services configured", zap.Strings("exports", seen))

	return nil
}

func (b *Backend) capacity() int64 {
	report := CalcSolutions(b.devices)

	switch b.solution {
	case wizard.SolutionRaid1:
		return int64(report.Raid1Size)
	default:
		return int64(report.Raid0Size)
	}
}

func (b *Backend) growUsage() {
	if len(b.exports) == 0 {
		return
	}

	share := b.capacity() / int64(len(b.exports))

	for _, name := range b.exports {
		b.used[name] = min(b.used[name]+share/100, share)
	}
}

// Usage reports per-export pool usage once the deployment is ready.
func (b *Backend) Usage() wizard.UsageStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := wizard.UsageStats{
		TotalRawBytes: wizard.AvailableRawBytes(b.devices),
		Pools:         map[string]wizard.PoolStats{},
	}

	if b.current() != wizard.StatusReady || len(b.exports) == 0 {
		stats.TotalAvailBytes = stats.TotalRawBytes

		return stats
	}

	capacity := b.capacity()
	share := capacity / int64(len(b.exports))

	var used int64

	for _, name := range b.exports {
		u := b.used[name]
		used += u

		stats.Pools[name] = wizard.PoolStats{
			Used:        u,
			PercentUsed: float64(u) / float64(max(share, 1)),
			Avail:       share - u,
			AvailRaw:    (share - u) * stats.TotalRawBytes / max(capacity, 1),
		}
	}

	stats.TotalAvailBytes = capacity - used
	stats.TotalUsedRawBytes = used * stats.TotalRawBytes / max(capacity, 1)

	return stats
}

// Run advances the workflow every step until ctx is done.
func (b *Backend) Run(ctx context.Context, clk clock.Clock, step time.Duration) error {
	if clk == nil {
		clk = clock.New()
	}

	ticker := clk.Ticker(step)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.Advance()
		}
	}
}
