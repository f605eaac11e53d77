package gatekeeper

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ferryman/internal/config"
	"ferryman/internal/interfaces"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// Gatekeeper refuses transfers into destinations that are running out of space
type Gatekeeper struct {
	config *config.Config
	statfs func(path string, stat *unix.Statfs_t) error
}

func New(cfg *config.Config) *Gatekeeper {
	return &Gatekeeper{
		config: cfg,
		statfs: unix.Statfs,
	}
}

// CanWrite checks the filesystem holding path against the configured limits
func (g *Gatekeeper) CanWrite(path string) interfaces.GateDecision {
	gatekeeperCfg := g.config.GetGatekeeper()
	if !gatekeeperCfg.Enabled {
		return interfaces.GateDecision{Allowed: true, Reason: "Gatekeeper disabled"}
	}

	status, err := g.DiskStatus(path)
	if err != nil {
		slog.Error("failed to check destination disk", "path", path, "error", err)
		return interfaces.GateDecision{
			Allowed: false,
			Reason:  "Unable to verify disk space",
		}
	}

	// Rule 1: usage ceiling
	if gatekeeperCfg.MaxUsagePercent > 0 && status.UsagePercent >= float64(gatekeeperCfg.MaxUsagePercent) {
		return interfaces.GateDecision{
			Allowed: false,
			Reason:  "Destination disk usage too high",
			Details: map[string]interface{}{
				"current_percent": status.UsagePercent,
				"max_percent":     gatekeeperCfg.MaxUsagePercent,
			},
		}
	}

	// Rule 2: free space floor
	if gatekeeperCfg.MinFreeBytes > 0 && status.FreeBytes < gatekeeperCfg.MinFreeBytes {
		return interfaces.GateDecision{
			Allowed: false,
			Reason: fmt.Sprintf("Only %s free on destination, %s required",
				humanize.IBytes(status.FreeBytes), humanize.IBytes(gatekeeperCfg.MinFreeBytes)),
			Details: map[string]interface{}{
				"free_bytes":     status.FreeBytes,
				"min_free_bytes": gatekeeperCfg.MinFreeBytes,
			},
		}
	}

	return interfaces.GateDecision{
		Allowed: true,
		Reason:  "All checks passed",
	}
}

// DiskStatus reports usage of the filesystem holding path. A path that does
// not exist yet is measured at its closest existing parent.
func (g *Gatekeeper) DiskStatus(path string) (interfaces.DiskStatus, error) {
	gatekeeperCfg := g.config.GetGatekeeper()

	target := existingAncestor(path)
	var stat unix.Statfs_t
	if err := g.statfs(target, &stat); err != nil {
		return interfaces.DiskStatus{}, fmt.Errorf("failed to stat %s: %w", target, err)
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	var usage float64
	if total > 0 {
		usage = float64(total-free) / float64(total) * 100
	}

	return interfaces.DiskStatus{
		Path:            target,
		TotalBytes:      total,
		FreeBytes:       free,
		UsagePercent:    usage,
		MaxUsagePercent: gatekeeperCfg.MaxUsagePercent,
		MinFreeBytes:    gatekeeperCfg.MinFreeBytes,
	}, nil
}

func existingAncestor(path string) string {
	p := filepath.Clean(path)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
