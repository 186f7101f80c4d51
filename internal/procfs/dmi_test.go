package procfs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

const dmidecodeOutput = `# dmidecode 3.5
Getting SMBIOS data from sysfs.
SMBIOS 3.3.0 present.

Handle 0x0040, DMI type 17, 92 bytes
Memory Device
	Array Handle: 0x003F
	Error Information Handle: Not Provided
	Total Width: 64 bits
	Data Width: 64 bits
	Size: 16 GB
	Form Factor: SODIMM
	Set: None
	Locator: ChannelA-DIMM0
	Bank Locator: BANK 0
	Type: DDR4
	Type Detail: Synchronous Unbuffered (Unregistered)
	Speed: 3200 MT/s
	Manufacturer: Samsung
	Serial Number: 12345678
	Asset Tag: None
	Part Number: M471A2K43DB1-CWE
	Rank: 2
	Configured Memory Speed: 3200 MT/s
	Minimum Voltage: 1.2 V
	Maximum Voltage: 1.2 V
	Configured Voltage: 1.2 V
	Memory Technology: DRAM
	Memory Operating Mode Capability: Volatile memory
	Firmware Version: Not Specified
	Module Manufacturer ID: Bank 1, Hex 0xCE
	Module Product ID: Unknown
	Non-Volatile Size: None
	Volatile Size: 16 GB
	Cache Size: None
	Logical Size: None

Handle 0x0041, DMI type 17, 92 bytes
Memory Device
	Array Handle: 0x003F
	Error Information Handle: No Error
	Total Width: Unknown
	Data Width: Unknown
	Size: No Module Installed
	Form Factor: Unknown
	Locator: ChannelB-DIMM0
	Bank Locator: BANK 2
	Type: Unknown
	Type Detail: None
	Rank: Unknown

`

func TestParseMemoryDevices(t *testing.T) {
	modules, err := ParseMemoryDevices(dmidecodeOutput)
	require.NoError(t, err)
	require.Len(t, modules, 2)

	m := modules[0]
	assert.Equal(t, uint32(0x3f), m.ArrayHandle)
	assert.Nil(t, m.ErrorInfoHandle)
	require.NotNil(t, m.TotalWidth)
	assert.Equal(t, uint8(64), *m.TotalWidth)
	assert.Equal(t, uint64(16<<30), m.Size)
	assert.Equal(t, "SODIMM", m.FormFactor)
	assert.Nil(t, m.Set)
	assert.Equal(t, "ChannelA-DIMM0", m.Locator)
	require.NotNil(t, m.BankLocator)
	assert.Equal(t, "BANK 0", *m.BankLocator)
	assert.Equal(t, "DDR4", m.Type)
	require.NotNil(t, m.Manufacturer)
	assert.Equal(t, "Samsung", *m.Manufacturer)
	assert.Nil(t, m.AssetTag)
	require.NotNil(t, m.Rank)
	assert.Equal(t, uint16(2), *m.Rank)
	assert.Nil(t, m.FirmwareVersion)
	require.NotNil(t, m.ModuleManufacturerID)
	assert.Equal(t, "Bank 1, Hex 0xCE", *m.ModuleManufacturerID)
	assert.Nil(t, m.ModuleProductID)
	assert.Nil(t, m.NonVolatileSize)
	require.NotNil(t, m.VolatileSize)
	assert.Equal(t, uint64(16<<30), *m.VolatileSize)

	empty := modules[1]
	assert.Equal(t, uint64(0), empty.Size)
	assert.Nil(t, empty.ErrorInfoHandle)
	assert.Nil(t, empty.TotalWidth)
	assert.Nil(t, empty.Rank)
	assert.Equal(t, "", empty.Type)
	assert.Equal(t, "ChannelB-DIMM0", empty.Locator)
}

func TestParseMemoryDevicesBadSize(t *testing.T) {
	_, err := ParseMemoryDevices("Memory Device\n\tSize: 16 parsecs\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerrors.ErrMalformedData))
}

func TestMemoryModulesRunsDmidecode(t *testing.T) {
	r, _ := syntheticReader(t, "x86_64")
	var gotArgs []string
	r.Dmidecode = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		gotArgs = append([]string{name}, args...)
		return []byte(dmidecodeOutput), nil
	}

	modules, err := r.MemoryModules()
	require.NoError(t, err)
	assert.Len(t, modules, 2)
	assert.Equal(t, []string{"dmidecode", "-t", "17"}, gotArgs)
}

func TestParseMemoryDevicesNoDevices(t *testing.T) {
	modules, err := ParseMemoryDevices("# dmidecode 3.5\nNo SMBIOS nor DMI entry point found, sorry.\n")
	require.NoError(t, err)
	assert.Empty(t, modules)
}
