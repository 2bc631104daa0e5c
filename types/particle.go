// Package types provides the protocol data model: the tagged value union
// with its on-wire particle types, keys, bins, records, server result codes,
// and the error set shared by the encoding and parsing layers.
package types

// ParticleType is the u8 tag identifying a bin value's concrete type on the
// wire. The integers are part of the compatibility contract.
type ParticleType uint8

const (
	// ParticleNull is the absence of a value.
	ParticleNull ParticleType = 0
	// ParticleInteger is a signed 64 bit integer.
	ParticleInteger ParticleType = 1
	// ParticleFloat is an IEEE-754 double.
	ParticleFloat ParticleType = 2
	// ParticleString is a UTF-8 string.
	ParticleString ParticleType = 3
	// ParticleBlob is an opaque byte array.
	ParticleBlob ParticleType = 4
	// ParticleBool is a boolean.
	ParticleBool ParticleType = 17
	// ParticleMap is a CDT map.
	ParticleMap ParticleType = 19
	// ParticleList is a CDT list.
	ParticleList ParticleType = 20
	// ParticleGeoJSON is a GeoJSON document.
	ParticleGeoJSON ParticleType = 23
	// ParticleHLL is a HyperLogLog blob.
	ParticleHLL ParticleType = 24
)

// String returns the canonical name of the particle type.
func (p ParticleType) String() string {
	switch p {
	case ParticleNull:
		return "null"
	case ParticleInteger:
		return "integer"
	case ParticleFloat:
		return "float"
	case ParticleString:
		return "string"
	case ParticleBlob:
		return "blob"
	case ParticleBool:
		return "bool"
	case ParticleMap:
		return "map"
	case ParticleList:
		return "list"
	case ParticleGeoJSON:
		return "geojson"
	case ParticleHLL:
		return "hll"
	}
	return "unknown"
}
