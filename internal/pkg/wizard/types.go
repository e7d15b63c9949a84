package wizard

// StatusReply is the body of GET /api/status.
type StatusReply struct {
	Status string           `json:"status"`
	Result *BootstrapResult `json:"result,omitempty"`
}

// BootstrapResult describes the cluster created by the bootstrap stage.
type BootstrapResult struct {
	FSID        string         `json:"fsid"`
	ConfigPath  string         `json:"config_path,omitempty"`
	KeyringPath string         `json:"keyring_path,omitempty"`
	Dashboard   *DashboardInfo `json:"dashboard,omitempty"`
}

// DashboardInfo holds the management dashboard credentials.
type DashboardInfo struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// Device is a storage device found by the inventory scan.
type Device struct {
	Path      string `json:"path"`
	Type      string `json:"type"`
	SizeBytes int64  `json:"size"`
	Available bool   `json:"available"`
}

// SolutionReport is the backend's feasibility report. Sizes may be fractional
// on the wire.
type SolutionReport struct {
	CanRaid0  bool    `json:"can_raid0"`
	CanRaid1  bool    `json:"can_raid1"`
	Raid0Size float64 `json:"raid0_size"`
	Raid1Size float64 `json:"raid1_size"`
}

// InventoryReply is the body of GET /api/inventory.
type InventoryReply struct {
	Devices  []Device       `json:"devices"`
	Solution SolutionReport `json:"solution"`
}

// Solution names understood by the backend.
const (
	SolutionRaid0 = "raid0"
	SolutionRaid1 = "raid1"
)

// SolutionCandidate is one selectable redundancy strategy.
type SolutionCandidate struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	SizeBytes int64  `json:"sizeBytes"`
}

// PoolStats is the usage of one storage pool.
type PoolStats struct {
	Used        int64   `json:"used"`
	PercentUsed float64 `json:"percent_used"`
	Avail       int64   `json:"avail"`
	AvailRaw    int64   `json:"avail_raw"`
}

// UsageStats is the body of GET /api/df.
type UsageStats struct {
	TotalAvailBytes   int64                `json:"total_avail_bytes"`
	TotalRawBytes     int64                `json:"total_raw_bytes"`
	TotalUsedRawBytes int64                `json:"total_used_raw_bytes"`
	Pools             map[string]PoolStats `json:"pools"`
}

// UsageItem is one row of the dashboard usage chart.
type UsageItem struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type acceptRequest struct {
	Name string `json:"name"`
}

type setupRequest struct {
	NFSName []string `json:"nfs_name"`
}
