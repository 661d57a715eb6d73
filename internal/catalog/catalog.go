// Package catalog loads the static instrument reference data.
//
// The catalog is parsed once at startup and shared by pointer; nothing
// mutates it afterwards, so it is safe for concurrent readers without
// locking.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sanchay/advisor-engine/internal/model"
)

//go:embed instruments.yaml
var embedded []byte

var (
	ErrEmptyCatalog     = errors.New("catalog: no instruments defined")
	ErrDuplicateType    = errors.New("catalog: duplicate instrument type")
	ErrInvalidReference = errors.New("catalog: invalid instrument definition")
)

// Catalog is an immutable, ordered list of instruments.
type Catalog struct {
	instruments []model.Instrument
	byType      map[model.InstrumentType]int
}

type document struct {
	Instruments []model.Instrument `yaml:"instruments"`
}

// Default returns the catalog compiled into the binary. It is parsed on
// first use and the same pointer is returned afterwards.
var Default = sync.OnceValue(func() *Catalog {
	c, err := Parse(bytes.NewReader(embedded))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded definitions are invalid: %v", err))
	}
	return c
})

// Load returns the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(bytes.NewReader(embedded))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a YAML catalog document.
func Parse(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(doc.Instruments)
}

// New validates instruments and builds a catalog preserving their order.
func New(instruments []model.Instrument) (*Catalog, error) {
	if len(instruments) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		instruments: make([]model.Instrument, len(instruments)),
		byType:      make(map[model.InstrumentType]int, len(instruments)),
	}
	copy(c.instruments, instruments)

	for i, inst := range c.instruments {
		if err := validate(inst); err != nil {
			return nil, err
		}
		if _, dup := c.byType[inst.Type]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, inst.Type)
		}
		c.byType[inst.Type] = i
	}
	return c, nil
}

func validate(inst model.Instrument) error {
	switch {
	case inst.Type == "":
		return fmt.Errorf("%w: missing type", ErrInvalidReference)
	case inst.ExpectedReturn.IsNegative():
		return fmt.Errorf("%w: %s expected_return is negative", ErrInvalidReference, inst.Type)
	case !inst.MinInvestment.IsPositive():
		return fmt.Errorf("%w: %s min_investment must be positive", ErrInvalidReference, inst.Type)
	case inst.MaxInvestment != nil && inst.MaxInvestment.LessThan(inst.MinInvestment):
		return fmt.Errorf("%w: %s max_investment below min_investment", ErrInvalidReference, inst.Type)
	case !inst.RiskLevel.Valid():
		return fmt.Errorf("%w: %s risk_level %q", ErrInvalidReference, inst.Type, inst.RiskLevel)
	case !inst.Category.Valid():
		return fmt.Errorf("%w: %s category %q", ErrInvalidReference, inst.Type, inst.Category)
	case inst.LiquidityDays < 0:
		return fmt.Errorf("%w: %s liquidity_days is negative", ErrInvalidReference, inst.Type)
	}
	return nil
}

// All returns the instruments in catalog order. The slice is shared;
// callers must treat it as read-only.
func (c *Catalog) All() []model.Instrument {
	return c.instruments
}

// Len returns the number of instruments.
func (c *Catalog) Len() int {
	return len(c.instruments)
}

// Lookup returns the instrument of the given type.
func (c *Catalog) Lookup(t model.InstrumentType) (model.Instrument, bool) {
	i, ok := c.byType[t]
	if !ok {
		return model.Instrument{}, false
	}
	return c.instruments[i], true
}

// CheckAmount reports whether amount respects the instrument's bounds.
func CheckAmount(inst model.Instrument, amount decimal.Decimal) error {
	if amount.LessThan(inst.MinInvestment) {
		return model.Invalid("amount", fmt.Sprintf("%s requires at least %s", inst.Type, inst.MinInvestment))
	}
	if inst.MaxInvestment != nil && amount.GreaterThan(*inst.MaxInvestment) {
		return model.Invalid("amount", fmt.Sprintf("%s allows at most %s", inst.Type, *inst.MaxInvestment))
	}
	return nil
}
