package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"partscout-engine/internal/domain"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"₱2,395.00", 2395.00},
		{"₱2,395.00 – ₱2,495.00", 2395.00},
		{"₱2,395.00 - ₱2,495.00", 2395.00},
		{"PHP 1,250", 1250},
		{"Php 999.50", 999.50},
		{"$120", 120},
		{"1,234,567.89", 1234567.89},
		{"4500", 4500},
		{"11995.00", 11995.00}, // shopfront variant prices arrive bare
		{"₱12345", 12345},
		{"Call for price", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePrice(tt.text), "ParsePrice(%q)", tt.text)
	}
}

func TestResolveCategoryPrecedence(t *testing.T) {
	tests := []struct {
		name string
		want domain.Category
	}{
		// specific phrases must beat the bare words they contain
		{"Noctua NH-D15 CPU Cooler", domain.CategoryCPUCooler},
		{"Deepcool AK400 CPU Air Cooler", domain.CategoryCPUCooler},
		{"Lian Li GPU Support Bracket", domain.CategoryAccessory},
		{"Graphics Card Support Bracket RGB", domain.CategoryAccessory},
		{"Arctic MX-4 Thermal Paste 4g", domain.CategoryAccessory},
		{"ORICO NVMe SSD Enclosure USB-C", domain.CategoryAccessory},
		{"UGREEN Storage Enclosure 2.5in", domain.CategoryAccessory},
		// broad words still work on their own
		{"AMD Ryzen 5 7600 Processor", domain.CategoryCPU},
		{"Intel Core i5-13400F CPU", domain.CategoryCPU},
		{"MSI GeForce RTX 4060 Ventus", domain.CategoryGPU},
		{"Gigabyte B650M Motherboard", domain.CategoryMotherboard},
		{"Kingston Fury 16GB DDR5", domain.CategoryRAM},
		{"Samsung 980 1TB NVMe", domain.CategoryStorage},
		{"Corsair RM750e Power Supply", domain.CategoryPSU},
		{"NZXT H5 Flow PC Case", domain.CategoryCase},
		{"Arctic P12 Case Fan 120mm", domain.CategoryCaseFan},
		{"AOC 24G2 24in Monitor", domain.CategoryMonitor},
		{"Logitech G502 Hero Mouse", domain.CategoryPeripheral},
		{"Velcro strap pack", domain.CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveCategory(tt.name, ""), "ResolveCategory(%q)", tt.name)
	}
}

func TestResolveCategoryHint(t *testing.T) {
	// a canonical hint from a pre-mapped query wins over the name
	assert.Equal(t, domain.CategoryStorage, ResolveCategory("WD Blue 1TB", "STORAGE"))
	assert.Equal(t, domain.CategoryCPUCooler, ResolveCategory("ID-Cooling SE-214", "CPU_COOLER"))
	// a free-text hint goes through the rule table
	assert.Equal(t, domain.CategoryRAM, ResolveCategory("Fury Beast 16GB", "ddr5 memory"))
	// name rules still apply when the hint resolves nothing
	assert.Equal(t, domain.CategoryGPU, ResolveCategory("Palit RTX 4070 GamingPro", "featured"))
}

func TestResolveBrand(t *testing.T) {
	assert.Equal(t, "Noctua", ResolveBrand("Noctua NH-U12S Redux", ""))
	assert.Equal(t, "Western Digital", ResolveBrand("western digital blue 2tb", ""))
	// hint is used verbatim
	assert.Equal(t, "Team Elite", ResolveBrand("TEAMGROUP Elite 8GB", "Team Elite"))
	assert.Equal(t, "", ResolveBrand("Generic 24-pin extension", ""))
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  AMD Ryzen 5   5600 ", "AMD Ryzen 5 5600"},
		{"MSI B450M-A PRO MAX (AM4)", "MSI B450M-A PRO MAX (AM4)"},
		{"Corsair K55 RGB", "Corsair K55 RGB"},
		{"Hot! ★ RTX 3060 ★", "Hot RTX 3060"},
		{"Seagate 2.5\" Barracuda", "Seagate 2.5 Barracuda"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanName(tt.in), "CleanName(%q)", tt.in)
	}
}

func TestNormalizeTotal(t *testing.T) {
	n := Normalize(domain.RawListing{})
	assert.Equal(t, domain.CategoryOther, n.Category)
	assert.Equal(t, domain.StockOut, n.StockStatus)
	assert.Zero(t, n.Price)

	n = Normalize(domain.RawListing{
		Name:    "ASUS TUF Gaming B550M-PLUS Motherboard",
		Price:   8995,
		URL:     "https://example.ph/p/b550m",
		InStock: true,
	})
	assert.Equal(t, domain.CategoryMotherboard, n.Category)
	assert.Equal(t, "ASUS", n.Brand)
	assert.Equal(t, domain.StockIn, n.StockStatus)
	assert.Equal(t, 8995.0, n.Price)
}
