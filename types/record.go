package types

import "fmt"

// BinNameLimit is the maximum length of a bin name in bytes.
const BinNameLimit = 15

// Bin is a named cell inside a record.
type Bin struct {
	Name  string
	Value Value
}

// NewBin creates a bin from a native Go value.
func NewBin(name string, value any) *Bin {
	return &Bin{Name: name, Value: NewValue(value)}
}

// Validate checks the bin name against the protocol limit.
func (b *Bin) Validate() error {
	if len(b.Name) > BinNameLimit {
		return NewEncodingError(fmt.Sprintf("bin name %q exceeds %d bytes", b.Name, BinNameLimit))
	}
	return nil
}

// Record is a decoded server record: its bins plus the generation and
// expiration metadata from the record header.
type Record struct {
	Key        *Key
	Bins       map[string]Value
	Generation uint32
	Expiration uint32
}

// Bins selects which bins of a record a read-style command returns: all
// bins, no bins (header only), or a named subset.
type Bins struct {
	all   bool
	names []string
}

// BinsAll selects every bin.
func BinsAll() Bins { return Bins{all: true} }

// BinsNone selects no bins; only the record header is returned.
func BinsNone() Bins { return Bins{} }

// SomeBins selects the named bins.
func SomeBins(names ...string) Bins { return Bins{names: names} }

// IsAll reports whether every bin is selected.
func (b Bins) IsAll() bool { return b.all }

// IsNone reports whether no bins are selected.
func (b Bins) IsNone() bool { return !b.all && len(b.names) == 0 }

// Names returns the selected bin names; empty unless a subset was selected.
func (b Bins) Names() []string { return b.names }
