package procfs

import (
	"strconv"
	"strings"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

const netdevSource = "netdev"

// NetDev reads the per-interface counters from /proc/net/dev.
func (r *Reader) NetDev() ([]models.NetDevStat, error) {
	path := r.procPath("net", "dev")
	var stats []models.NetDevStat
	err := scanFile(netdevSource, path, func(lineNo int, line string) error {
		if strings.Contains(line, "|") {
			// two header lines
			return nil
		}
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			return internalerrors.Malformed(netdevSource, path, "line %d: missing ':'", lineNo)
		}
		fields := strings.Fields(rest)
		if len(fields) != 16 {
			return internalerrors.Malformed(netdevSource, path, "line %d: want 16 counters, got %d", lineNo, len(fields))
		}
		var v [16]uint64
		for i, f := range fields {
			n, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return internalerrors.Malformed(netdevSource, path, "line %d: %v", lineNo, err)
			}
			v[i] = n
		}
		stats = append(stats, models.NetDevStat{
			Interface:    strings.TrimSpace(name),
			RecvBytes:    v[0],
			RecvPackets:  v[1],
			RecvErrs:     v[2],
			RecvDrop:     v[3],
			RecvFifo:     v[4],
			RecvFrame:    v[5],
			RecvCompress: v[6],
			RecvMcast:    v[7],
			SentBytes:    v[8],
			SentPackets:  v[9],
			SentErrs:     v[10],
			SentDrop:     v[11],
			SentFifo:     v[12],
			SentColls:    v[13],
			SentCarrier:  v[14],
			SentCompress: v[15],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
