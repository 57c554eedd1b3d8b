package domain

// Category is the canonical part taxonomy. Every listing is classified into
// exactly one of these; OTHER is the fallback for anything unresolvable.
type Category string

const (
	CategoryCPU         Category = "CPU"
	CategoryGPU         Category = "GPU"
	CategoryMotherboard Category = "MOTHERBOARD"
	CategoryRAM         Category = "RAM"
	CategoryStorage     Category = "STORAGE"
	CategoryPSU         Category = "PSU"
	CategoryCase        Category = "CASE"
	CategoryCPUCooler   Category = "CPU_COOLER"
	CategoryCaseFan     Category = "CASE_FAN"
	CategoryMonitor     Category = "MONITOR"
	CategoryPeripheral  Category = "PERIPHERAL"
	CategoryAccessory   Category = "ACCESSORY"
	CategoryOther       Category = "OTHER"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCPU, CategoryGPU, CategoryMotherboard, CategoryRAM,
		CategoryStorage, CategoryPSU, CategoryCase, CategoryCPUCooler,
		CategoryCaseFan, CategoryMonitor, CategoryPeripheral,
		CategoryAccessory, CategoryOther:
		return true
	}
	return false
}

// StockStatus reflects a retailer's availability signal. LIMITED_STOCK is
// reserved for manual/administrative use; normalization only ever produces
// IN_STOCK or OUT_OF_STOCK.
type StockStatus string

const (
	StockIn      StockStatus = "IN_STOCK"
	StockLimited StockStatus = "LIMITED_STOCK"
	StockOut     StockStatus = "OUT_OF_STOCK"
)
