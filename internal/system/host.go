package system

import (
	"time"

	"github.com/shirou/gopsutil/v4/host"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

// HostInfo reads the machine identity through gopsutil.
func HostInfo() (models.HostInfo, error) {
	info, err := host.Info()
	if err != nil {
		return models.HostInfo{}, internalerrors.Unavailable("gopsutil", "host", err)
	}
	return models.HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
		BootTime:        time.Unix(int64(info.BootTime), 0).UTC(),
		Uptime:          info.Uptime,
	}, nil
}
