package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValueVariants(t *testing.T) {
	cases := []struct {
		in       any
		particle ParticleType
	}{
		{nil, ParticleNull},
		{true, ParticleBool},
		{int(3), ParticleInteger},
		{int64(-9), ParticleInteger},
		{uint64(1 << 63), ParticleInteger},
		{3.25, ParticleFloat},
		{float32(1.5), ParticleFloat},
		{"s", ParticleString},
		{[]byte{1}, ParticleBlob},
		{[]any{1, "a"}, ParticleList},
		{map[any]any{"k": 1}, ParticleMap},
	}

	for _, tc := range cases {
		v := NewValue(tc.in)
		assert.Equalf(t, tc.particle, v.ParticleType(), "input %v", tc.in)
	}
}

func TestNewValuePassesValuesThrough(t *testing.T) {
	v := IntegerValue(5)
	assert.Equal(t, v, NewValue(v))
}

func TestNewValueRejectsUnsupported(t *testing.T) {
	assert.Panics(t, func() { NewValue(struct{}{}) })
}

func TestHLLSharesBlobShapeButNotParticle(t *testing.T) {
	blob := BlobValue{1, 2}
	hll := HLLValue{1, 2}
	assert.NotEqual(t, blob.ParticleType(), hll.ParticleType())
	assert.Equal(t, ParticleHLL, hll.ParticleType())
}

func TestKeyDigest(t *testing.T) {
	k1, err := NewKey("test", "s", int64(42))
	require.NoError(t, err)
	assert.Len(t, k1.Digest(), 20)

	// digests are deterministic per (set, key)
	k2, err := NewKey("other-ns", "s", int64(42))
	require.NoError(t, err)
	assert.Equal(t, k1.Digest(), k2.Digest(), "namespace does not participate in the digest")

	k3, err := NewKey("test", "s", int64(43))
	require.NoError(t, err)
	assert.NotEqual(t, k1.Digest(), k3.Digest())

	k4, err := NewKey("test", "s2", int64(42))
	require.NoError(t, err)
	assert.NotEqual(t, k1.Digest(), k4.Digest())

	k5, err := NewKey("test", "s", "42")
	require.NoError(t, err)
	assert.NotEqual(t, k1.Digest(), k5.Digest(), "particle type participates in the digest")
}

func TestNewKeyWithDigest(t *testing.T) {
	digest := make([]byte, 20)
	digest[0] = 0xab
	k, err := NewKeyWithDigest("test", "s", nil, digest)
	require.NoError(t, err)
	assert.Equal(t, digest, k.Digest())
	assert.Nil(t, k.UserKey())

	_, err = NewKeyWithDigest("test", "s", nil, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestKeyRejectsInvalidUserKeyType(t *testing.T) {
	_, err := NewKey("test", "s", 1.5)
	require.Error(t, err)
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestBinValidate(t *testing.T) {
	assert.NoError(t, NewBin("a", 1).Validate())
	assert.NoError(t, NewBin("fifteen-bytes-x", 1).Validate())
	assert.Error(t, NewBin("sixteen-bytes-xy", 1).Validate())
}

func TestBinsSelectors(t *testing.T) {
	assert.True(t, BinsAll().IsAll())
	assert.False(t, BinsAll().IsNone())
	assert.True(t, BinsNone().IsNone())

	some := SomeBins("a", "b")
	assert.False(t, some.IsAll())
	assert.False(t, some.IsNone())
	assert.Equal(t, []string{"a", "b"}, some.Names())
}

func TestResultCodeClass(t *testing.T) {
	assert.Equal(t, ClassOK, ResultOK.Class())
	assert.Equal(t, ClassClientError, ResultParameterError.Class())
	assert.Equal(t, ClassClientError, ResultFilteredOut.Class())
	assert.Equal(t, ClassTimeout, ResultTimeout.Class())
	assert.Equal(t, ClassRetry, ResultKeyBusy.Class())
	assert.Equal(t, ClassRetry, ResultDeviceOverload.Class())
	assert.Equal(t, ClassServerError, ResultServerError.Class())
	assert.Equal(t, ClassServerError, ResultCode(200).Class())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WrapEncodingError("packing bin", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "packing bin")

	serverErr := NewServerError(ResultTimeout)
	assert.Contains(t, serverErr.Error(), "timeout")
}

func TestSafeAccessors(t *testing.T) {
	n, ok := AsInt64(IntegerValue(4))
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)

	_, ok = AsInt64(StringValue("4"))
	assert.False(t, ok)

	s, ok := AsString(StringValue("x"))
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	assert.Equal(t, int64(7), Int64Default(StringValue("nope"), 7))
	assert.Equal(t, "d", StringDefault(IntegerValue(1), "d"))

	b, ok := AsBytes(HLLValue{5})
	assert.True(t, ok)
	assert.Equal(t, []byte{5}, b)
}
