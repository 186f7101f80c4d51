package procfs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
	models "github.com/Schera-ole/hostmetrics/internal/model"
)

const (
	dmiSource = "dmidecode"

	dmidecodeTimeout = 10 * time.Second
)

// MemoryModules runs dmidecode for SMBIOS type 17 and decodes every Memory
// Device entry. dmidecode usually needs root; a failed run is reported as
// ErrSourceUnavailable.
func (r *Reader) MemoryModules() ([]models.MemoryModule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dmidecodeTimeout)
	defer cancel()

	out, err := r.Dmidecode(ctx, "dmidecode", "-t", "17")
	if err != nil {
		return nil, internalerrors.Unavailable(dmiSource, "-t 17", err)
	}
	return ParseMemoryDevices(string(out))
}

// ParseMemoryDevices decodes dmidecode -t 17 text output.
func ParseMemoryDevices(text string) ([]models.MemoryModule, error) {
	var (
		modules []models.MemoryModule
		fields  map[string]string
		start   int
	)
	flush := func() error {
		if fields == nil {
			return nil
		}
		m, err := memoryDevice(fields)
		if err != nil {
			return internalerrors.Malformed(dmiSource, "-t 17", "device at line %d: %v", start, err)
		}
		modules = append(modules, m)
		fields = nil
		return nil
	}

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "Memory Device":
			if err := flush(); err != nil {
				return nil, err
			}
			fields = map[string]string{}
			start = i + 1
		case trimmed == "" || strings.HasPrefix(line, "Handle "):
			if err := flush(); err != nil {
				return nil, err
			}
		case fields != nil && (strings.HasPrefix(line, "\t") || strings.HasPrefix(line, " ")):
			key, value, ok := strings.Cut(trimmed, ":")
			if !ok {
				// continuation lines of list values
				continue
			}
			fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return modules, nil
}

func isPlaceholder(v string) bool {
	switch v {
	case "", "Not Provided", "None", "Unknown", "Not Specified", "Not Installed":
		return true
	}
	return false
}

type dmiFields struct {
	m   map[string]string
	err error
}

func (d *dmiFields) fail(key, value string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%s %q: %w", key, value, err)
	}
}

func (d *dmiFields) str(key string) string {
	v := d.m[key]
	if isPlaceholder(v) {
		return ""
	}
	return v
}

func (d *dmiFields) optStr(key string) *string {
	v, ok := d.m[key]
	if !ok || isPlaceholder(v) {
		return nil
	}
	return &v
}

// optUint reads "64 bits" or "0x003F". Values that are not numeric, such as
// "No Error", are treated as absent.
func (d *dmiFields) optUint(key string, bits int) *uint64 {
	v, ok := d.m[key]
	if !ok || isPlaceholder(v) {
		return nil
	}
	num, _, _ := strings.Cut(v, " ")
	n, err := strconv.ParseUint(num, 0, bits)
	if err != nil {
		return nil
	}
	return &n
}

func (d *dmiFields) optSize(key string) *uint64 {
	v, ok := d.m[key]
	if !ok || isPlaceholder(v) {
		return nil
	}
	n, err := parseDMISize(v)
	if err != nil {
		d.fail(key, v, err)
		return nil
	}
	return &n
}

var dmiUnits = map[string]uint64{
	"bytes": 1,
	"kB":    1 << 10,
	"KB":    1 << 10,
	"MB":    1 << 20,
	"GB":    1 << 30,
	"TB":    1 << 40,
}

// parseDMISize converts "16 GB" or "8192 MB" to bytes. An empty slot reads
// "No Module Installed" and is reported as zero.
func parseDMISize(v string) (uint64, error) {
	if v == "No Module Installed" {
		return 0, nil
	}
	num, unit, ok := strings.Cut(v, " ")
	if !ok {
		return 0, fmt.Errorf("missing unit")
	}
	mult, ok := dmiUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, err
	}
	return n * mult, nil
}

func narrow32(p *uint64) *uint32 {
	if p == nil {
		return nil
	}
	v := uint32(*p)
	return &v
}

func narrow16(p *uint64) *uint16 {
	if p == nil {
		return nil
	}
	v := uint16(*p)
	return &v
}

func narrow8(p *uint64) *uint8 {
	if p == nil {
		return nil
	}
	v := uint8(*p)
	return &v
}

func memoryDevice(fields map[string]string) (models.MemoryModule, error) {
	d := &dmiFields{m: fields}

	var size uint64
	if v, ok := fields["Size"]; ok && !isPlaceholder(v) {
		n, err := parseDMISize(v)
		if err != nil {
			d.fail("Size", v, err)
		}
		size = n
	}
	var arrayHandle uint32
	if p := d.optUint("Array Handle", 32); p != nil {
		arrayHandle = uint32(*p)
	}

	m := models.MemoryModule{
		ArrayHandle:                             arrayHandle,
		ErrorInfoHandle:                         narrow32(d.optUint("Error Information Handle", 32)),
		TotalWidth:                              narrow8(d.optUint("Total Width", 8)),
		DataWidth:                               narrow8(d.optUint("Data Width", 8)),
		Size:                                    size,
		FormFactor:                              d.str("Form Factor"),
		Set:                                     d.optStr("Set"),
		Locator:                                 d.str("Locator"),
		BankLocator:                             d.optStr("Bank Locator"),
		Type:                                    d.str("Type"),
		TypeDetail:                              d.str("Type Detail"),
		Speed:                                   d.optStr("Speed"),
		Manufacturer:                            d.optStr("Manufacturer"),
		SerialNumber:                            d.optStr("Serial Number"),
		AssetTag:                                d.optStr("Asset Tag"),
		PartNumber:                              d.optStr("Part Number"),
		Rank:                                    narrow16(d.optUint("Rank", 16)),
		ConfiguredMemorySpeed:                   d.optStr("Configured Memory Speed"),
		MinVoltage:                              d.optStr("Minimum Voltage"),
		MaxVoltage:                              d.optStr("Maximum Voltage"),
		ConfiguredVoltage:                       d.optStr("Configured Voltage"),
		MemoryTechnology:                        d.optStr("Memory Technology"),
		MemoryOperatingModeCapability:           d.optStr("Memory Operating Mode Capability"),
		FirmwareVersion:                         d.optStr("Firmware Version"),
		ModuleManufacturerID:                    d.optStr("Module Manufacturer ID"),
		ModuleProductID:                         d.optStr("Module Product ID"),
		MemorySubsystemControllerManufacturerID: d.optStr("Memory Subsystem Controller Manufacturer ID"),
		MemorySubsystemControllerProductID:      d.optStr("Memory Subsystem Controller Product ID"),
		NonVolatileSize:                         d.optSize("Non-Volatile Size"),
		VolatileSize:                            d.optSize("Volatile Size"),
		CacheSize:                               d.optSize("Cache Size"),
		LogicalSize:                             d.optSize("Logical Size"),
	}
	return m, d.err
}
