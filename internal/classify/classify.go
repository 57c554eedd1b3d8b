// Package classify maps raw retailer listings into the canonical taxonomy.
// Normalize is total: it never fails, it degrades to OTHER / empty brand /
// price 0 instead.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"partscout-engine/internal/domain"
)

type rule struct {
	phrase   string
	category domain.Category
}

// rules are checked in order, most specific phrase first. A cooler must win
// over "cpu", a support bracket over "gpu", thermal compound and enclosures
// over the component they attach to. Keep multi-word phrases above the bare
// words they contain.
var rules = []rule{
	{"cpu cooler", domain.CategoryCPUCooler},
	{"cpu air cooler", domain.CategoryCPUCooler},
	{"liquid cooler", domain.CategoryCPUCooler},
	{"aio cooler", domain.CategoryCPUCooler},
	{"water cooling", domain.CategoryCPUCooler},
	{"heatsink", domain.CategoryCPUCooler},
	{"gpu support bracket", domain.CategoryAccessory},
	{"graphics card support bracket", domain.CategoryAccessory},
	{"gpu bracket", domain.CategoryAccessory},
	{"gpu holder", domain.CategoryAccessory},
	{"thermal paste", domain.CategoryAccessory},
	{"thermal compound", domain.CategoryAccessory},
	{"thermal pad", domain.CategoryAccessory},
	{"storage enclosure", domain.CategoryAccessory},
	{"drive enclosure", domain.CategoryAccessory},
	{"ssd enclosure", domain.CategoryAccessory},
	{"hdd enclosure", domain.CategoryAccessory},
	{"hdmi cable", domain.CategoryAccessory},
	{"displayport cable", domain.CategoryAccessory},
	{"case fan", domain.CategoryCaseFan},
	{"chassis fan", domain.CategoryCaseFan},
	{"fan hub", domain.CategoryAccessory},
	{"power supply", domain.CategoryPSU},
	{"psu", domain.CategoryPSU},
	{"motherboard", domain.CategoryMotherboard},
	{"mainboard", domain.CategoryMotherboard},
	{"graphics card", domain.CategoryGPU},
	{"video card", domain.CategoryGPU},
	{"geforce", domain.CategoryGPU},
	{"radeon rx", domain.CategoryGPU},
	{"rtx", domain.CategoryGPU},
	{"gtx", domain.CategoryGPU},
	{"gpu", domain.CategoryGPU},
	{"processor", domain.CategoryCPU},
	{"ryzen", domain.CategoryCPU},
	{"core i3", domain.CategoryCPU},
	{"core i5", domain.CategoryCPU},
	{"core i7", domain.CategoryCPU},
	{"core i9", domain.CategoryCPU},
	{"cpu", domain.CategoryCPU},
	{"memory", domain.CategoryRAM},
	{"ddr4", domain.CategoryRAM},
	{"ddr5", domain.CategoryRAM},
	{"ram", domain.CategoryRAM},
	{"nvme", domain.CategoryStorage},
	{"ssd", domain.CategoryStorage},
	{"hdd", domain.CategoryStorage},
	{"hard drive", domain.CategoryStorage},
	{"hard disk", domain.CategoryStorage},
	{"storage", domain.CategoryStorage},
	{"monitor", domain.CategoryMonitor},
	{"display", domain.CategoryMonitor},
	{"keyboard", domain.CategoryPeripheral},
	{"mouse", domain.CategoryPeripheral},
	{"headset", domain.CategoryPeripheral},
	{"webcam", domain.CategoryPeripheral},
	{"speaker", domain.CategoryPeripheral},
	{"mousepad", domain.CategoryAccessory},
	{"pc case", domain.CategoryCase},
	{"tower case", domain.CategoryCase},
	{"chassis", domain.CategoryCase},
	{"case", domain.CategoryCase},
	{"fan", domain.CategoryCaseFan},
	{"cable", domain.CategoryAccessory},
	{"adapter", domain.CategoryAccessory},
	{"accessory", domain.CategoryAccessory},
}

// brands is the manufacturer lexicon for name scanning; first match wins.
var brands = []string{
	"AMD", "Intel", "NVIDIA", "ASUS", "ASRock", "Gigabyte", "MSI", "EVGA",
	"Corsair", "Cooler Master", "NZXT", "Noctua", "be quiet", "Thermaltake",
	"Deepcool", "Arctic", "Lian Li", "Fractal Design", "Kingston", "G.Skill",
	"Crucial", "Samsung", "Western Digital", "Seagate", "Team Group", "ADATA",
	"Seasonic", "FSP", "Silverstone", "Logitech", "Razer", "SteelSeries",
	"HyperX", "Keychron", "AOC", "ViewSonic", "BenQ", "LG", "Acer", "Dell",
	"PNY", "Zotac", "Sapphire", "PowerColor", "XFX", "Palit", "Inno3D",
	"Galax", "Colorful",
}

// amountRe matches one currency amount: optional symbol, then either digits
// with thousands separators or a plain number. The separator branch requires
// at least one comma group; alternation is leftmost-first, so a starred group
// there would split plain amounts after three digits ("4500" -> 450).
var amountRe = regexp.MustCompile(`(?:₱|PHP|Php|\$)?\s*(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`)

var nameAllow = regexp.MustCompile(`[^\w\s\-().]`)

// Normalize converts one adapter record into a canonical listing. It never
// returns an error: category falls back to OTHER, brand to empty. A price of
// 0 means the record's price text was unusable and the record must be
// discarded downstream, not persisted.
func Normalize(raw domain.RawListing) domain.NormalizedListing {
	name := CleanName(raw.Name)

	stock := domain.StockOut
	if raw.InStock {
		stock = domain.StockIn
	}

	return domain.NormalizedListing{
		Name:        name,
		Category:    ResolveCategory(raw.Name, raw.CategoryHint),
		Brand:       ResolveBrand(raw.Name, raw.BrandHint),
		ImageURL:    strings.TrimSpace(raw.ImageURL),
		Price:       raw.Price,
		URL:         strings.TrimSpace(raw.URL),
		StockStatus: stock,
	}
}

// ResolveCategory resolves a listing's canonical category. A hint that is
// already a canonical value (an adapter pre-mapped it from its query) wins
// outright; otherwise the name and then the free-text hint are scanned
// against the ordered rule table. Rule order is the precedence contract.
func ResolveCategory(name, hint string) domain.Category {
	if c := domain.Category(strings.ToUpper(strings.TrimSpace(hint))); c.Valid() {
		return c
	}
	for _, text := range []string{name, hint} {
		low := strings.ToLower(text)
		if strings.TrimSpace(low) == "" {
			continue
		}
		for _, r := range rules {
			if strings.Contains(low, r.phrase) {
				return r.category
			}
		}
	}
	return domain.CategoryOther
}

// ResolveBrand uses the source hint verbatim when present, else scans the
// name against the lexicon case-insensitively.
func ResolveBrand(name, hint string) string {
	if h := strings.TrimSpace(hint); h != "" {
		return h
	}
	low := strings.ToLower(name)
	for _, b := range brands {
		if strings.Contains(low, strings.ToLower(b)) {
			return b
		}
	}
	return ""
}

// ParsePrice extracts the first amount from possibly range-formatted price
// text ("₱2,395.00 – ₱2,495.00" -> 2395). Unparseable text yields 0.
func ParsePrice(text string) float64 {
	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0
	}
	return v
}

// CleanName trims, collapses internal whitespace, and strips characters
// outside a conservative allow-list so names stay stable as the cross-run
// matching key.
func CleanName(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = nameAllow.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
