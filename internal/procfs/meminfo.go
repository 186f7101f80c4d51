package procfs

import (
	"strconv"
	"strings"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

const meminfoSource = "meminfo"

// MemInfo reads /proc/meminfo. Values with a kB unit are converted to bytes;
// unitless values (HugePages_*) are kept as counts. Unknown keys are
// ignored. MemTotal must be present.
func (r *Reader) MemInfo() (models.MemInfo, error) {
	var m models.MemInfo
	required := map[string]*uint64{
		"MemTotal":        &m.MemTotal,
		"MemFree":         &m.MemFree,
		"MemAvailable":    &m.MemAvailable,
		"Buffers":         &m.Buffers,
		"Cached":          &m.Cached,
		"SwapCached":      &m.SwapCached,
		"Active":          &m.Active,
		"Inactive":        &m.Inactive,
		"Active(anon)":    &m.ActiveAnon,
		"Inactive(anon)":  &m.InactiveAnon,
		"Active(file)":    &m.ActiveFile,
		"Inactive(file)":  &m.InactiveFile,
		"Unevictable":     &m.Unevictable,
		"Mlocked":         &m.Mlocked,
		"SwapTotal":       &m.SwapTotal,
		"SwapFree":        &m.SwapFree,
		"Dirty":           &m.Dirty,
		"Writeback":       &m.Writeback,
		"AnonPages":       &m.AnonPages,
		"Mapped":          &m.Mapped,
		"Shmem":           &m.Shmem,
		"KReclaimable":    &m.KReclaimable,
		"Slab":            &m.Slab,
		"SReclaimable":    &m.SReclaimable,
		"SUnreclaim":      &m.SUnreclaim,
		"KernelStack":     &m.KernelStack,
		"PageTables":      &m.PageTables,
		"NFS_Unstable":    &m.NFSUnstable,
		"Bounce":          &m.Bounce,
		"WritebackTmp":    &m.WritebackTmp,
		"CommitLimit":     &m.CommitLimit,
		"Committed_AS":    &m.CommittedAS,
		"VmallocTotal":    &m.VmallocTotal,
		"VmallocUsed":     &m.VmallocUsed,
		"VmallocChunk":    &m.VmallocChunk,
		"Percpu":          &m.Percpu,
		"HugePages_Total": &m.HugePagesTotal,
		"HugePages_Free":  &m.HugePagesFree,
		"HugePages_Rsvd":  &m.HugePagesRsvd,
		"HugePages_Surp":  &m.HugePagesSurp,
		"Hugepagesize":    &m.HugePageSize,
		"Hugetlb":         &m.HugeTLB,
	}
	optional := map[string]**uint64{
		"CmaTotal":          &m.CmaTotal,
		"CmaFree":           &m.CmaFree,
		"HardwareCorrupted": &m.HardwareCorrupted,
		"AnonHugePages":     &m.AnonHugePages,
		"ShmemHugePages":    &m.ShmemHugePages,
		"ShmemPmdMapped":    &m.ShmemPmdMapped,
		"FileHugePages":     &m.FileHugePages,
		"FilePmdMapped":     &m.FilePmdMapped,
		"DirectMap4k":       &m.DirectMap4k,
		"DirectMap2M":       &m.DirectMap2M,
		"DirectMap1G":       &m.DirectMap1G,
	}

	path := r.procPath("meminfo")
	seenTotal := false
	err := scanFile(meminfoSource, path, func(lineNo int, line string) error {
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			return internalerrors.Malformed(meminfoSource, path, "line %d: missing ':'", lineNo)
		}
		dst, isRequired := required[key]
		opt, isOptional := optional[key]
		if !isRequired && !isOptional {
			return nil
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 || len(fields) > 2 {
			return internalerrors.Malformed(meminfoSource, path, "line %d: %q", lineNo, line)
		}
		v, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return internalerrors.Malformed(meminfoSource, path, "line %d: %v", lineNo, err)
		}
		if len(fields) == 2 {
			if fields[1] != "kB" {
				return internalerrors.Malformed(meminfoSource, path, "line %d: unknown unit %q", lineNo, fields[1])
			}
			v *= 1024
		}
		if isRequired {
			*dst = v
		} else {
			*opt = &v
		}
		if key == "MemTotal" {
			seenTotal = true
		}
		return nil
	})
	if err != nil {
		return models.MemInfo{}, err
	}
	if !seenTotal {
		return models.MemInfo{}, internalerrors.Malformed(meminfoSource, path, "MemTotal missing")
	}
	return m, nil
}
