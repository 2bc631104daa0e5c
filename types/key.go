package types

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is mandated by the protocol digest format.
)

// Key identifies a record: namespace, optional set, the 20 byte digest, and
// the original user key. The digest is the canonical identifier; the user
// key is sent on the wire only when a per-command policy requests it.
type Key struct {
	namespace string
	setName   string
	digest    [20]byte
	userKey   Value
}

// NewKey creates a key for the given namespace, set, and user key, and
// computes its digest. Supported user key types are integers, strings, and
// byte slices.
func NewKey(namespace, setName string, userKey any) (*Key, error) {
	k := &Key{
		namespace: namespace,
		setName:   setName,
		userKey:   NewValue(userKey),
	}
	if err := k.computeDigest(); err != nil {
		return nil, err
	}
	return k, nil
}

// NewKeyWithDigest creates a key from an externally computed digest. The
// user key may be nil.
func NewKeyWithDigest(namespace, setName string, userKey any, digest []byte) (*Key, error) {
	if len(digest) != 20 {
		return nil, NewEncodingError(fmt.Sprintf("invalid digest length %d, want 20", len(digest)))
	}
	k := &Key{
		namespace: namespace,
		setName:   setName,
	}
	if userKey != nil {
		k.userKey = NewValue(userKey)
	}
	copy(k.digest[:], digest)
	return k, nil
}

// Namespace returns the key's namespace.
func (k *Key) Namespace() string { return k.namespace }

// SetName returns the key's set name, possibly empty.
func (k *Key) SetName() string { return k.setName }

// Digest returns the 20 byte record digest.
func (k *Key) Digest() []byte { return k.digest[:] }

// UserKey returns the original user key value, or nil when the key was
// built from a digest alone.
func (k *Key) UserKey() Value { return k.userKey }

// String renders the key for logs.
func (k *Key) String() string {
	if k.userKey != nil {
		return fmt.Sprintf("%s:%s:%s", k.namespace, k.setName, k.userKey.String())
	}
	return fmt.Sprintf("%s:%s:%x", k.namespace, k.setName, k.digest)
}

// computeDigest hashes set name, particle type, and the user key payload
// with RIPEMD-160, matching the server's record addressing.
func (k *Key) computeDigest() error {
	h := ripemd160.New()
	h.Write([]byte(k.setName))

	switch v := k.userKey.(type) {
	case IntegerValue:
		h.Write([]byte{byte(ParticleInteger)})
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	case UintValue:
		h.Write([]byte{byte(ParticleInteger)})
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	case StringValue:
		h.Write([]byte{byte(ParticleString)})
		h.Write([]byte(v))
	case BlobValue:
		h.Write([]byte{byte(ParticleBlob)})
		h.Write(v)
	default:
		return NewEncodingError(fmt.Sprintf("invalid user key type %T for digest", k.userKey))
	}

	h.Sum(k.digest[:0])
	return nil
}
