package procfs

import (
	"fmt"
	"strconv"
	"strings"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

const cpuinfoSource = "cpuinfo"

// CPUInfo reads /proc/cpuinfo and decodes it according to the machine
// architecture. Unrecognized architectures yield an ArchUnknown record, not
// an error; callers asking for a specific layout get ErrUnsupportedPlatform
// from CPUInfo.X86 or CPUInfo.ARM.
func (r *Reader) CPUInfo() (models.CPUInfo, error) {
	machine, err := r.Arch()
	if err != nil {
		return models.CPUInfo{}, internalerrors.Unavailable(cpuinfoSource, "uname", err)
	}
	info := models.CPUInfo{Arch: archOf(machine), Machine: machine}
	if info.Arch == models.ArchUnknown {
		return info, nil
	}

	path := r.procPath("cpuinfo")
	var blocks []cpuBlock
	current := cpuBlock{}
	err = scanFile(cpuinfoSource, path, func(lineNo int, line string) error {
		if strings.TrimSpace(line) == "" {
			if len(current.fields) > 0 {
				blocks = append(blocks, current)
			}
			current = cpuBlock{}
			return nil
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return internalerrors.Malformed(cpuinfoSource, path, "line %d: missing ':'", lineNo)
		}
		if current.fields == nil {
			current = cpuBlock{fields: map[string]string{}, line: lineNo}
		}
		current.fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
		return nil
	})
	if err != nil {
		return models.CPUInfo{}, err
	}
	if len(current.fields) > 0 {
		blocks = append(blocks, current)
	}

	for _, b := range blocks {
		if _, ok := b.fields["processor"]; !ok {
			// trailing board blocks such as "Hardware" / "Revision"
			continue
		}
		switch info.Arch {
		case models.ArchX86_64:
			cpu, err := b.x86()
			if err != nil {
				return models.CPUInfo{}, internalerrors.Malformed(cpuinfoSource, path, "block at line %d: %v", b.line, err)
			}
			info.X86_64 = append(info.X86_64, cpu)
		case models.ArchArm64:
			cpu, err := b.arm64()
			if err != nil {
				return models.CPUInfo{}, internalerrors.Malformed(cpuinfoSource, path, "block at line %d: %v", b.line, err)
			}
			info.Arm64 = append(info.Arm64, cpu)
		case models.ArchUnknown:
		}
	}
	if info.Processors() == 0 {
		return models.CPUInfo{}, internalerrors.Malformed(cpuinfoSource, path, "no processor entries")
	}
	return info, nil
}

func archOf(machine string) models.CPUArch {
	switch machine {
	case "x86_64", "amd64":
		return models.ArchX86_64
	case "aarch64", "arm64":
		return models.ArchArm64
	default:
		return models.ArchUnknown
	}
}

// cpuBlock is one blank-line separated stanza of /proc/cpuinfo.
type cpuBlock struct {
	fields map[string]string
	line   int
	err    error
}

func (b *cpuBlock) fail(key, value string, err error) {
	if b.err == nil {
		b.err = fmt.Errorf("%s %q: %w", key, value, err)
	}
}

func (b *cpuBlock) str(key string) string { return b.fields[key] }

func (b *cpuBlock) optStr(key string) *string {
	v, ok := b.fields[key]
	if !ok {
		return nil
	}
	return &v
}

func (b *cpuBlock) uint(key string, bits int) uint64 {
	v, ok := b.fields[key]
	if !ok {
		return 0
	}
	// base 0 accepts the 0x-prefixed ids printed on arm64
	n, err := strconv.ParseUint(v, 0, bits)
	if err != nil {
		b.fail(key, v, err)
	}
	return n
}

func (b *cpuBlock) int(key string) int {
	return int(b.uint(key, 32))
}

// optInt treats a missing key or a non-numeric placeholder such as
// "unknown" as absent.
func (b *cpuBlock) optInt(key string) *int {
	v, ok := b.fields[key]
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func (b *cpuBlock) float(key string) float64 {
	v, ok := b.fields[key]
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		b.fail(key, v, err)
	}
	return f
}

func (b *cpuBlock) yes(key string) bool { return b.fields[key] == "yes" }

func (b *cpuBlock) list(key string) []string {
	return strings.Fields(b.fields[key])
}

// cacheSize parses "512 KB".
func (b *cpuBlock) cacheSize() *uint32 {
	v, ok := b.fields["cache size"]
	if !ok {
		return nil
	}
	num, _, _ := strings.Cut(v, " ")
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		b.fail("cache size", v, err)
		return nil
	}
	kb := uint32(n)
	return &kb
}

// tlbSize parses "3072 4K pages".
func (b *cpuBlock) tlbSize() *models.TLBSize {
	v, ok := b.fields["TLB size"]
	if !ok {
		return nil
	}
	parts := strings.Fields(v)
	if len(parts) < 2 {
		b.fail("TLB size", v, fmt.Errorf("want count and unit"))
		return nil
	}
	count, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		b.fail("TLB size", v, err)
		return nil
	}
	unit, err := strconv.ParseUint(strings.TrimSuffix(parts[1], "K"), 10, 32)
	if err != nil {
		b.fail("TLB size", v, err)
		return nil
	}
	return &models.TLBSize{Count: uint32(count), Unit: uint32(unit)}
}

// addressSizes parses "46 bits physical, 48 bits virtual".
func (b *cpuBlock) addressSizes() *models.AddressSizes {
	v, ok := b.fields["address sizes"]
	if !ok {
		return nil
	}
	var phys, virt uint8
	if _, err := fmt.Sscanf(v, "%d bits physical, %d bits virtual", &phys, &virt); err != nil {
		b.fail("address sizes", v, err)
		return nil
	}
	return &models.AddressSizes{Physical: phys, Virtual: virt}
}

func (b *cpuBlock) x86() (models.X86_64CPU, error) {
	cpu := models.X86_64CPU{
		Processor:       b.int("processor"),
		VendorID:        b.str("vendor_id"),
		ModelName:       b.str("model name"),
		CPUFamily:       b.int("cpu family"),
		Model:           b.int("model"),
		Stepping:        b.optInt("stepping"),
		Microcode:       b.optStr("microcode"),
		CPUMHz:          b.float("cpu MHz"),
		CacheSizeKB:     b.cacheSize(),
		PhysicalID:      b.optInt("physical id"),
		Siblings:        b.optInt("siblings"),
		CoreID:          b.optInt("core id"),
		CPUCores:        b.optInt("cpu cores"),
		APICID:          b.optInt("apicid"),
		InitialAPICID:   b.optInt("initial apicid"),
		FPU:             b.yes("fpu"),
		FPUException:    b.yes("fpu_exception"),
		CPUIDLevel:      b.int("cpuid level"),
		WP:              b.yes("wp"),
		Flags:           b.list("flags"),
		Bugs:            b.list("bugs"),
		BogoMIPS:        b.float("bogomips"),
		TLBSize:         b.tlbSize(),
		CLFlushSize:     uint8(b.uint("clflush size", 8)),
		CacheAlignment:  uint8(b.uint("cache_alignment", 8)),
		AddressSizes:    b.addressSizes(),
		PowerManagement: b.list("power management"),
	}
	return cpu, b.err
}

func (b *cpuBlock) arm64() (models.Arm64CPU, error) {
	cpu := models.Arm64CPU{
		Processor:       b.int("processor"),
		BogoMIPS:        b.float("BogoMIPS"),
		Features:        b.list("Features"),
		CPUImplementer:  uint16(b.uint("CPU implementer", 16)),
		CPUArchitecture: uint16(b.uint("CPU architecture", 16)),
		CPUVariant:      uint16(b.uint("CPU variant", 16)),
		CPUPart:         uint16(b.uint("CPU part", 16)),
		CPURevision:     uint16(b.uint("CPU revision", 16)),
		AddressSizes:    b.addressSizes(),
	}
	return cpu, b.err
}
