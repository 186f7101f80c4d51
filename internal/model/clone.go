package models

import "slices"

// ptr returns a copy of the value p points to, or nil.
func ptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a copy of c sharing no memory with it.
func (c CPUInfo) Clone() CPUInfo {
	out := c
	if c.X86_64 != nil {
		out.X86_64 = make([]X86_64CPU, len(c.X86_64))
		for i, cpu := range c.X86_64 {
			out.X86_64[i] = cpu.Clone()
		}
	}
	if c.Arm64 != nil {
		out.Arm64 = make([]Arm64CPU, len(c.Arm64))
		for i, cpu := range c.Arm64 {
			out.Arm64[i] = cpu.Clone()
		}
	}
	return out
}

func (c X86_64CPU) Clone() X86_64CPU {
	out := c
	out.Stepping = ptr(c.Stepping)
	out.Microcode = ptr(c.Microcode)
	out.CacheSizeKB = ptr(c.CacheSizeKB)
	out.PhysicalID = ptr(c.PhysicalID)
	out.Siblings = ptr(c.Siblings)
	out.CoreID = ptr(c.CoreID)
	out.CPUCores = ptr(c.CPUCores)
	out.APICID = ptr(c.APICID)
	out.InitialAPICID = ptr(c.InitialAPICID)
	out.Flags = slices.Clone(c.Flags)
	out.Bugs = slices.Clone(c.Bugs)
	out.TLBSize = ptr(c.TLBSize)
	out.AddressSizes = ptr(c.AddressSizes)
	out.PowerManagement = slices.Clone(c.PowerManagement)
	return out
}

func (c Arm64CPU) Clone() Arm64CPU {
	out := c
	out.Features = slices.Clone(c.Features)
	out.AddressSizes = ptr(c.AddressSizes)
	return out
}

func (m MemInfo) Clone() MemInfo {
	out := m
	out.CmaTotal = ptr(m.CmaTotal)
	out.CmaFree = ptr(m.CmaFree)
	out.HardwareCorrupted = ptr(m.HardwareCorrupted)
	out.AnonHugePages = ptr(m.AnonHugePages)
	out.ShmemHugePages = ptr(m.ShmemHugePages)
	out.ShmemPmdMapped = ptr(m.ShmemPmdMapped)
	out.FileHugePages = ptr(m.FileHugePages)
	out.FilePmdMapped = ptr(m.FilePmdMapped)
	out.DirectMap4k = ptr(m.DirectMap4k)
	out.DirectMap2M = ptr(m.DirectMap2M)
	out.DirectMap1G = ptr(m.DirectMap1G)
	return out
}

func (m MemoryModule) Clone() MemoryModule {
	out := m
	out.ErrorInfoHandle = ptr(m.ErrorInfoHandle)
	out.TotalWidth = ptr(m.TotalWidth)
	out.DataWidth = ptr(m.DataWidth)
	out.Set = ptr(m.Set)
	out.BankLocator = ptr(m.BankLocator)
	out.Speed = ptr(m.Speed)
	out.Manufacturer = ptr(m.Manufacturer)
	out.SerialNumber = ptr(m.SerialNumber)
	out.AssetTag = ptr(m.AssetTag)
	out.PartNumber = ptr(m.PartNumber)
	out.Rank = ptr(m.Rank)
	out.ConfiguredMemorySpeed = ptr(m.ConfiguredMemorySpeed)
	out.MinVoltage = ptr(m.MinVoltage)
	out.MaxVoltage = ptr(m.MaxVoltage)
	out.ConfiguredVoltage = ptr(m.ConfiguredVoltage)
	out.MemoryTechnology = ptr(m.MemoryTechnology)
	out.MemoryOperatingModeCapability = ptr(m.MemoryOperatingModeCapability)
	out.FirmwareVersion = ptr(m.FirmwareVersion)
	out.ModuleManufacturerID = ptr(m.ModuleManufacturerID)
	out.ModuleProductID = ptr(m.ModuleProductID)
	out.MemorySubsystemControllerManufacturerID = ptr(m.MemorySubsystemControllerManufacturerID)
	out.MemorySubsystemControllerProductID = ptr(m.MemorySubsystemControllerProductID)
	out.NonVolatileSize = ptr(m.NonVolatileSize)
	out.VolatileSize = ptr(m.VolatileSize)
	out.CacheSize = ptr(m.CacheSize)
	out.LogicalSize = ptr(m.LogicalSize)
	return out
}

func (d InterruptDetails) Clone() InterruptDetails {
	out := d
	out.CPUCounts = slices.Clone(d.CPUCounts)
	return out
}

func (d IrqDetails) Clone() IrqDetails {
	out := d
	out.SMPAffinity = ptr(d.SMPAffinity)
	out.SMPAffinityList = ptr(d.SMPAffinityList)
	out.Node = ptr(d.Node)
	return out
}
