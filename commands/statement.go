package commands

import (
	"github.com/jeeves-cluster-organization/aerowire/msgpack"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// CollectionIndexType names the secondary index structure a filter probes.
type CollectionIndexType uint8

const (
	// IndexCollectionDefault probes a scalar index.
	IndexCollectionDefault CollectionIndexType = 0
	// IndexCollectionList probes a list element index.
	IndexCollectionList CollectionIndexType = 1
	// IndexCollectionMapKeys probes a map key index.
	IndexCollectionMapKeys CollectionIndexType = 2
	// IndexCollectionMapValues probes a map value index.
	IndexCollectionMapValues CollectionIndexType = 3
)

// Filter is a secondary-index predicate: an equality or range probe on one
// indexed bin.
type Filter struct {
	binName string
	idxType CollectionIndexType
	begin   types.Value
	end     types.Value
}

// NewEqualFilter matches records whose indexed bin equals the value.
func NewEqualFilter(binName string, value any) *Filter {
	v := types.NewValue(value)
	return &Filter{binName: binName, begin: v, end: v}
}

// NewRangeFilter matches records whose indexed integer bin lies in
// [begin, end].
func NewRangeFilter(binName string, begin, end int64) *Filter {
	return &Filter{
		binName: binName,
		begin:   types.IntegerValue(begin),
		end:     types.IntegerValue(end),
	}
}

// NewContainsFilter matches records whose indexed collection contains the
// value.
func NewContainsFilter(binName string, idxType CollectionIndexType, value any) *Filter {
	v := types.NewValue(value)
	return &Filter{binName: binName, idxType: idxType, begin: v, end: v}
}

// NewContainsRangeFilter matches records whose indexed collection contains
// a value in [begin, end].
func NewContainsRangeFilter(binName string, idxType CollectionIndexType, begin, end int64) *Filter {
	return &Filter{
		binName: binName,
		idxType: idxType,
		begin:   types.IntegerValue(begin),
		end:     types.IntegerValue(end),
	}
}

// NewGeoRegionFilter matches records whose indexed geo bin lies within the
// GeoJSON region.
func NewGeoRegionFilter(binName string, idxType CollectionIndexType, region string) *Filter {
	v := types.GeoJSONValue(region)
	return &Filter{binName: binName, idxType: idxType, begin: v, end: v}
}

// CollectionIndexType returns the index structure the filter probes.
func (f *Filter) CollectionIndexType() CollectionIndexType {
	return f.idxType
}

// estimateSize returns the packed size of the filter body.
func (f *Filter) estimateSize() (int, error) {
	beginSize, err := msgpack.EstimateValue(f.begin)
	if err != nil {
		return 0, err
	}
	endSize, err := msgpack.EstimateValue(f.end)
	if err != nil {
		return 0, err
	}
	// name length byte + name + particle type + two length-prefixed values
	return 1 + len(f.binName) + 1 + 4 + beginSize + 4 + endSize, nil
}

// write encodes the filter body at the buffer cursor.
func (f *Filter) write(buf *wire.Buffer) error {
	buf.WriteUint8(uint8(len(f.binName)))
	buf.WriteString(f.binName)
	buf.WriteUint8(uint8(f.begin.ParticleType()))

	beginSize, err := msgpack.EstimateValue(f.begin)
	if err != nil {
		return err
	}
	buf.WriteUint32(uint32(beginSize))
	if _, err := msgpack.WriteValue(buf, f.begin); err != nil {
		return err
	}

	endSize, err := msgpack.EstimateValue(f.end)
	if err != nil {
		return err
	}
	buf.WriteUint32(uint32(endSize))
	_, err = msgpack.WriteValue(buf, f.end)
	return err
}

// Aggregation names a stream UDF applied to query results.
type Aggregation struct {
	PackageName  string
	FunctionName string
	Args         types.ListValue
}

// Statement describes a query: the records to select and, optionally, an
// index filter and a stream UDF.
type Statement struct {
	// Namespace to query.
	Namespace string
	// SetName to query, possibly empty.
	SetName string
	// IndexName forces a specific secondary index, possibly empty.
	IndexName string
	// Filter is the optional index predicate. A statement without a filter
	// executes as a primary-index scan.
	Filter *Filter
	// Bins selects the bins returned per record.
	Bins types.Bins
	// Aggregation is the optional stream UDF.
	Aggregation *Aggregation
}

// NewStatement creates a statement selecting all bins.
func NewStatement(namespace, setName string) *Statement {
	return &Statement{
		Namespace: namespace,
		SetName:   setName,
		Bins:      types.BinsAll(),
	}
}

// IsScan reports whether the statement degrades to a primary-index scan.
func (s *Statement) IsScan() bool {
	return s.Filter == nil
}
