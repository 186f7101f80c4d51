package models

import (
	"fmt"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

// CPUArch tags which variant of CPUInfo is populated.
type CPUArch int

const (
	ArchUnknown CPUArch = iota
	ArchX86_64
	ArchArm64
)

func (a CPUArch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	case ArchArm64:
		return "arm64"
	default:
		return "unknown"
	}
}

func (a CPUArch) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *CPUArch) UnmarshalText(text []byte) error {
	switch string(text) {
	case "x86_64":
		*a = ArchX86_64
	case "arm64":
		*a = ArchArm64
	case "unknown":
		*a = ArchUnknown
	default:
		return fmt.Errorf("unknown cpu arch %q", text)
	}
	return nil
}

// CPUInfo is a tagged union over the per-architecture /proc/cpuinfo layouts.
// Exactly one of X86_64 and Arm64 is set, matching Arch; for ArchUnknown
// only Machine is meaningful.
type CPUInfo struct {
	Arch    CPUArch     `json:"arch"`
	Machine string      `json:"machine"`
	X86_64  []X86_64CPU `json:"x86_64,omitempty"`
	Arm64   []Arm64CPU  `json:"arm64,omitempty"`
}

// X86 returns the x86_64 records or ErrUnsupportedPlatform.
func (c CPUInfo) X86() ([]X86_64CPU, error) {
	if c.Arch != ArchX86_64 {
		return nil, internalerrors.Unsupported("cpuinfo", "not an x86_64 host: "+c.Machine)
	}
	return c.X86_64, nil
}

// ARM returns the arm64 records or ErrUnsupportedPlatform.
func (c CPUInfo) ARM() ([]Arm64CPU, error) {
	if c.Arch != ArchArm64 {
		return nil, internalerrors.Unsupported("cpuinfo", "not an arm64 host: "+c.Machine)
	}
	return c.Arm64, nil
}

// Processors returns the number of logical processors in whichever variant
// is populated.
func (c CPUInfo) Processors() int {
	switch c.Arch {
	case ArchX86_64:
		return len(c.X86_64)
	case ArchArm64:
		return len(c.Arm64)
	case ArchUnknown:
		return 0
	}
	return 0
}

type TLBSize struct {
	Count uint32 `json:"count"`
	Unit  uint32 `json:"unit"`
}

// AddressSizes holds physical and virtual address widths in bits.
type AddressSizes struct {
	Physical uint8 `json:"physical"`
	Virtual  uint8 `json:"virtual"`
}

type X86_64CPU struct {
	Processor       int           `json:"processor"`
	VendorID        string        `json:"vendor_id"`
	ModelName       string        `json:"model_name"`
	CPUFamily       int           `json:"cpu_family"`
	Model           int           `json:"model"`
	Stepping        *int          `json:"stepping,omitempty"`
	Microcode       *string       `json:"microcode,omitempty"`
	CPUMHz          float64       `json:"cpu_mhz"`
	CacheSizeKB     *uint32       `json:"cache_size_kb,omitempty"`
	PhysicalID      *int          `json:"physical_id,omitempty"`
	Siblings        *int          `json:"siblings,omitempty"`
	CoreID          *int          `json:"core_id,omitempty"`
	CPUCores        *int          `json:"cpu_cores,omitempty"`
	APICID          *int          `json:"apicid,omitempty"`
	InitialAPICID   *int          `json:"initial_apicid,omitempty"`
	FPU             bool          `json:"fpu"`
	FPUException    bool          `json:"fpu_exception"`
	CPUIDLevel      int           `json:"cpuid_level"`
	WP              bool          `json:"wp"`
	Flags           []string      `json:"flags"`
	Bugs            []string      `json:"bugs"`
	BogoMIPS        float64       `json:"bogomips"`
	TLBSize         *TLBSize      `json:"tlb_size,omitempty"`
	CLFlushSize     uint8         `json:"clflush_size"`
	CacheAlignment  uint8         `json:"cache_alignment"`
	AddressSizes    *AddressSizes `json:"address_sizes,omitempty"`
	PowerManagement []string      `json:"power_management"`
}

type Arm64CPU struct {
	Processor       int           `json:"processor"`
	BogoMIPS        float64       `json:"bogomips"`
	Features        []string      `json:"features"`
	CPUImplementer  uint16        `json:"cpu_implementer"`
	CPUArchitecture uint16        `json:"cpu_architecture"`
	CPUVariant      uint16        `json:"cpu_variant"`
	CPUPart         uint16        `json:"cpu_part"`
	CPURevision     uint16        `json:"cpu_revision"`
	AddressSizes    *AddressSizes `json:"address_sizes,omitempty"`
}
