// Package sysinfo samples the host status lines shown under the readings:
// CPU load and temperature, memory use, local IPv4 and whether the monitored
// process is running.
package sysinfo

import (
	"context"
	"fmt"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Info struct {
	CPUPercent     float64
	CPUTemp        float64
	HasCPUTemp     bool
	MemPercent     float64
	IPv4           string
	ProcessRunning bool
	SampledAt      time.Time
}

type Param struct {
	ThermalZone string
	Interface   string
	Process     string
}

// Sampler collects Info through gopsutil. Every probe is best effort: a failing
// probe leaves its field empty and is logged at debug level.
type Sampler struct {
	fs    afero.Fs
	param Param
}

func NewSampler(fs afero.Fs, param Param) *Sampler {
	return &Sampler{fs: fs, param: param}
}

func (s *Sampler) Sample(ctx context.Context, now time.Time) Info {
	info := Info{SampledAt: now}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		logrus.Debugf("Unable to sample cpu usage: %v", err)
	} else if len(percents) > 0 {
		info.CPUPercent = percents[0]
	}

	if s.param.ThermalZone != "" {
		temp, err := ReadThermalZone(s.fs, s.param.ThermalZone)
		if err != nil {
			logrus.Debugf("Unable to read cpu temperature: %v", err)
		} else {
			info.CPUTemp = temp
			info.HasCPUTemp = true
		}
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		logrus.Debugf("Unable to sample memory usage: %v", err)
	} else {
		info.MemPercent = vm.UsedPercent
	}

	if s.param.Interface != "" {
		interfaces, err := net.InterfacesWithContext(ctx)
		if err != nil {
			logrus.Debugf("Unable to list network interfaces: %v", err)
		} else {
			info.IPv4 = InterfaceIPv4(interfaces, s.param.Interface)
		}
	}

	if s.param.Process != "" {
		running, err := processRunning(ctx, s.param.Process)
		if err != nil {
			logrus.Debugf("Unable to list processes: %v", err)
		}
		info.ProcessRunning = running
	}

	return info
}

// ReadThermalZone returns the temperature in Celsius of a sysfs thermal zone
// file, which holds millidegrees.
func ReadThermalZone(fs afero.Fs, path string) (float64, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, fmt.Errorf("unable to read %s: %w", path, err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return milli / 1000, nil
}

// InterfaceIPv4 returns the first IPv4 address of the named interface, or ""
func InterfaceIPv4(interfaces net.InterfaceStatList, name string) string {
	for _, iface := range interfaces {
		if iface.Name != name {
			continue
		}
		for _, addr := range iface.Addrs {
			ip := addr.Addr
			if i := strings.IndexByte(ip, '/'); i >= 0 {
				ip = ip[:i]
			}
			if strings.Count(ip, ".") == 3 && !strings.Contains(ip, ":") {
				return ip
			}
		}
	}
	return ""
}

func processRunning(ctx context.Context, name string) (bool, error) {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range processes {
		procName, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if MatchProcessName(procName, name) {
			return true, nil
		}
	}
	return false, nil
}

// MatchProcessName compares executable names the way the process table reports
// them: without directory and extension.
func MatchProcessName(procName string, name string) bool {
	stem := filepath.Base(procName)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	return stem == name
}
