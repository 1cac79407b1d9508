// Package planogram maps slot occupancy onto the products a shelf is supposed
// to carry.
//
// A planogram file lists, per shelf, which product sits in which 1-based slot:
//
//	shelves:
//	  SHELF_001:
//	    1: chocolates
//	    2: biscuits
//
// Slots without an entry are ignored when mapping.
package planogram

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownShelf is returned by Map when the shelf has no layout.
var ErrUnknownShelf = errors.New("no planogram defined for shelf")

// Layout maps 1-based slot numbers to product names.
type Layout map[int]string

// Planogram holds the layouts of every known shelf.
type Planogram struct {
	Shelves map[string]Layout `yaml:"shelves" json:"shelves"`
}

// Availability lists which of a shelf's products are on it and which are not.
type Availability struct {
	Present []string `json:"present_products" yaml:"present_products"`
	Missing []string `json:"missing_products" yaml:"missing_products"`
}

// Load reads a YAML planogram from path.
func Load(path string) (*Planogram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read planogram")
	}
	return Parse(data)
}

// Parse decodes a YAML planogram.
func Parse(data []byte) (*Planogram, error) {
	var p Planogram
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "failed to parse planogram")
	}
	if p.Shelves == nil {
		p.Shelves = make(map[string]Layout)
	}
	for shelf, layout := range p.Shelves {
		for slot := range layout {
			if slot < 1 {
				return nil, errors.Errorf("shelf %s: slot numbers start at 1, got %d", shelf, slot)
			}
		}
	}
	return &p, nil
}

// Has reports whether a layout exists for shelfID.
func (p *Planogram) Has(shelfID string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Shelves[shelfID]
	return ok
}

// Map resolves occupied and empty 1-based slot numbers into product names.
//
// Each product appears at most once per list, in the order its first slot is
// encountered after sorting the slot numbers. A product spread over occupied
// and empty slots appears in both lists.
func (p *Planogram) Map(shelfID string, occupied, empty []int) (*Availability, error) {
	if !p.Has(shelfID) {
		return nil, errors.Wrapf(ErrUnknownShelf, "shelf %s", shelfID)
	}
	layout := p.Shelves[shelfID]

	return &Availability{
		Present: layout.products(occupied),
		Missing: layout.products(empty),
	}, nil
}

func (l Layout) products(slots []int) []string {
	sorted := append([]int(nil), slots...)
	sort.Ints(sorted)

	out := []string{}
	seen := make(map[string]bool)
	for _, slot := range sorted {
		product, ok := l[slot]
		if !ok || product == "" || seen[product] {
			continue
		}
		seen[product] = true
		out = append(out, product)
	}
	return out
}
