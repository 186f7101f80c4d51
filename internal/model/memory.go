package models

// MemInfo mirrors /proc/meminfo. Sizes are in bytes; HugePages* fields are
// page counts. Pointer fields are absent on kernels or configurations that
// do not export them.
type MemInfo struct {
	MemTotal          uint64  `json:"mem_total"`
	MemFree           uint64  `json:"mem_free"`
	MemAvailable      uint64  `json:"mem_available"`
	Buffers           uint64  `json:"buffers"`
	Cached            uint64  `json:"cached"`
	SwapCached        uint64  `json:"swap_cached"`
	Active            uint64  `json:"active"`
	Inactive          uint64  `json:"inactive"`
	ActiveAnon        uint64  `json:"active_anon"`
	InactiveAnon      uint64  `json:"inactive_anon"`
	ActiveFile        uint64  `json:"active_file"`
	InactiveFile      uint64  `json:"inactive_file"`
	Unevictable       uint64  `json:"unevictable"`
	Mlocked           uint64  `json:"mlocked"`
	SwapTotal         uint64  `json:"swap_total"`
	SwapFree          uint64  `json:"swap_free"`
	Dirty             uint64  `json:"dirty"`
	Writeback         uint64  `json:"writeback"`
	AnonPages         uint64  `json:"anon_pages"`
	Mapped            uint64  `json:"mapped"`
	Shmem             uint64  `json:"shmem"`
	KReclaimable      uint64  `json:"kreclaimable"`
	Slab              uint64  `json:"slab"`
	SReclaimable      uint64  `json:"sreclaimable"`
	SUnreclaim        uint64  `json:"sunreclaim"`
	KernelStack       uint64  `json:"kernel_stack"`
	PageTables        uint64  `json:"page_tables"`
	NFSUnstable       uint64  `json:"nfs_unstable"`
	Bounce            uint64  `json:"bounce"`
	WritebackTmp      uint64  `json:"writeback_tmp"`
	CommitLimit       uint64  `json:"commit_limit"`
	CommittedAS       uint64  `json:"committed_as"`
	VmallocTotal      uint64  `json:"vmalloc_total"`
	VmallocUsed       uint64  `json:"vmalloc_used"`
	VmallocChunk      uint64  `json:"vmalloc_chunk"`
	Percpu            uint64  `json:"percpu"`
	CmaTotal          *uint64 `json:"cma_total,omitempty"`
	CmaFree           *uint64 `json:"cma_free,omitempty"`
	HardwareCorrupted *uint64 `json:"hardware_corrupted,omitempty"`
	AnonHugePages     *uint64 `json:"anon_huge_pages,omitempty"`
	ShmemHugePages    *uint64 `json:"shmem_huge_pages,omitempty"`
	ShmemPmdMapped    *uint64 `json:"shmem_pmd_mapped,omitempty"`
	FileHugePages     *uint64 `json:"file_huge_pages,omitempty"`
	FilePmdMapped     *uint64 `json:"file_pmd_mapped,omitempty"`
	HugePagesTotal    uint64  `json:"huge_pages_total"`
	HugePagesFree     uint64  `json:"huge_pages_free"`
	HugePagesRsvd     uint64  `json:"huge_pages_rsvd"`
	HugePagesSurp     uint64  `json:"huge_pages_surp"`
	HugePageSize      uint64  `json:"huge_page_size"`
	HugeTLB           uint64  `json:"huge_tlb"`
	DirectMap4k       *uint64 `json:"direct_map_4k,omitempty"`
	DirectMap2M       *uint64 `json:"direct_map_2m,omitempty"`
	DirectMap1G       *uint64 `json:"direct_map_1g,omitempty"`
}

// UsedPercent is the share of MemTotal that is not available, or 0 when
// MemTotal is unknown.
func (m MemInfo) UsedPercent() float64 {
	if m.MemTotal == 0 || m.MemAvailable > m.MemTotal {
		return 0
	}
	return float64(m.MemTotal-m.MemAvailable) / float64(m.MemTotal) * 100
}

// MemoryModule is one SMBIOS type 17 (Memory Device) entry. Size is in bytes
// and is 0 for an empty slot.
type MemoryModule struct {
	ArrayHandle                             uint32  `json:"array_handle"`
	ErrorInfoHandle                         *uint32 `json:"error_info_handle,omitempty"`
	TotalWidth                              *uint8  `json:"total_width,omitempty"`
	DataWidth                               *uint8  `json:"data_width,omitempty"`
	Size                                    uint64  `json:"size"`
	FormFactor                              string  `json:"form_factor"`
	Set                                     *string `json:"set,omitempty"`
	Locator                                 string  `json:"locator"`
	BankLocator                             *string `json:"bank_locator,omitempty"`
	Type                                    string  `json:"type"`
	TypeDetail                              string  `json:"type_detail"`
	Speed                                   *string `json:"speed,omitempty"`
	Manufacturer                            *string `json:"manufacturer,omitempty"`
	SerialNumber                            *string `json:"serial_number,omitempty"`
	AssetTag                                *string `json:"asset_tag,omitempty"`
	PartNumber                              *string `json:"part_number,omitempty"`
	Rank                                    *uint16 `json:"rank,omitempty"`
	ConfiguredMemorySpeed                   *string `json:"configured_memory_speed,omitempty"`
	MinVoltage                              *string `json:"min_voltage,omitempty"`
	MaxVoltage                              *string `json:"max_voltage,omitempty"`
	ConfiguredVoltage                       *string `json:"configured_voltage,omitempty"`
	MemoryTechnology                        *string `json:"memory_technology,omitempty"`
	MemoryOperatingModeCapability           *string `json:"memory_operating_mode_capability,omitempty"`
	FirmwareVersion                         *string `json:"firmware_version,omitempty"`
	ModuleManufacturerID                    *string `json:"module_manufacturer_id,omitempty"`
	ModuleProductID                         *string `json:"module_product_id,omitempty"`
	MemorySubsystemControllerManufacturerID *string `json:"memory_subsystem_controller_manufacturer_id,omitempty"`
	MemorySubsystemControllerProductID      *string `json:"memory_subsystem_controller_product_id,omitempty"`
	NonVolatileSize                         *uint64 `json:"non_volatile_size,omitempty"`
	VolatileSize                            *uint64 `json:"volatile_size,omitempty"`
	CacheSize                               *uint64 `json:"cache_size,omitempty"`
	LogicalSize                             *uint64 `json:"logical_size,omitempty"`
}
