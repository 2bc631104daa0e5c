package expressions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/aerowire/operations"
	"github.com/jeeves-cluster-organization/aerowire/types"
	"github.com/jeeves-cluster-organization/aerowire/wire"
)

// packExp runs the two-phase contract and returns the packed blob.
func packExp(t *testing.T, fe *FilterExpression) []byte {
	t.Helper()
	size, err := fe.Size()
	require.NoError(t, err)

	buf := wire.NewBuffer()
	require.NoError(t, buf.Resize(size))
	written, err := fe.PackExpression(buf)
	require.NoError(t, err)
	require.Equal(t, size, written)
	require.Equal(t, size, buf.DataOffset)
	return buf.Data
}

func TestAgeRangeFilter(t *testing.T) {
	fe := And(
		GtEq(IntBin("age"), IntVal(18)),
		Lt(IntBin("age"), IntVal(65)),
	)

	want := []byte{
		0x93, 0x10, // and, two children
		0x93, 0x04, // ge
		0x93, 0x51, 0x02, 0xa3, 'a', 'g', 'e', // int bin "age"
		0x12,       // 18
		0x93, 0x05, // lt
		0x93, 0x51, 0x02, 0xa3, 'a', 'g', 'e',
		0x41, // 65
	}
	assert.Equal(t, want, packExp(t, fe))
}

func TestBinAccessorsUseRawStrings(t *testing.T) {
	got := packExp(t, StringBin("s"))
	// the bin name carries no particle tag
	assert.Equal(t, []byte{0x93, 0x51, 0x03, 0xa1, 's'}, got)

	got = packExp(t, BinType("s"))
	assert.Equal(t, []byte{0x92, 0x52, 0xa1, 's'}, got)
}

func TestMetadataAccessors(t *testing.T) {
	assert.Equal(t, []byte{0x91, 0x45}, packExp(t, TTL()))
	assert.Equal(t, []byte{0x91, 0x48}, packExp(t, IsTombstone()))
	assert.Equal(t, []byte{0x92, 0x40, 0x03}, packExp(t, DigestModulo(3)))
	assert.Equal(t, []byte{0x92, 0x50, 0x02}, packExp(t, Key(TypeInt)))
	assert.Equal(t, []byte{0x91, 0x47}, packExp(t, KeyExists()))
}

func TestQuotedListValue(t *testing.T) {
	fe := ListVal(types.ListValue{types.IntegerValue(1), types.IntegerValue(2)})
	assert.Equal(t, []byte{0x92, 0x7e, 0x92, 0x01, 0x02}, packExp(t, fe))
}

func TestUnknownPacksBareOp(t *testing.T) {
	assert.Equal(t, []byte{0x91, 0x00}, packExp(t, Unknown()))
}

func TestRegexShape(t *testing.T) {
	fe := RegexCompare("a.*", RegexICase, StringBin("s"))
	want := []byte{
		0x94, 0x07, // regex, four slots
		0x02,                // flags
		0xa3, 'a', '.', '*', // raw pattern
		0x93, 0x51, 0x03, 0xa1, 's', // the bin
	}
	assert.Equal(t, want, packExp(t, fe))
}

func TestLetDefVarCond(t *testing.T) {
	fe := Let(
		Def("x", IntBin("a")),
		Gt(Var("x"), IntVal(5)),
	)

	want := []byte{
		0x94, 0x7d, // let, name/def pair plus scope
		0xa1, 'x', // def name, raw
		0x93, 0x51, 0x02, 0xa1, 'a', // bound expression
		0x93, 0x03, // gt
		0x92, 0x7c, 0xa1, 'x', // var "x"
		0x05,
	}
	assert.Equal(t, want, packExp(t, fe))

	cond := Cond(
		Eq(IntBin("t"), IntVal(0)), IntVal(1),
		IntVal(-1),
	)
	got := packExp(t, cond)
	// cond, three children plus the op code
	assert.Equal(t, uint8(0x94), got[0])
	assert.Equal(t, uint8(0x7b), got[1])
}

func TestListModuleCall(t *testing.T) {
	fe := ListAppend(operations.DefaultListPolicy(), IntVal(1), ListBin("l"))

	want := []byte{
		0x95, 0x7f, // call, five slots
		0x04, // return type: list
		0x40, // module 0 with the modify bit
		0x94, // four arguments
		0x01, // append op code
		0x01, // the value
		0x00, // list order
		0x00, // write flags
		0x93, 0x51, 0x04, 0xa1, 'l', // the bin
	}
	assert.Equal(t, want, packExp(t, fe))
}

func TestListCallWithContextEmitsPrefix(t *testing.T) {
	ctx := []operations.CDTContext{operations.CtxListIndex(2)}
	fe := ListSize(ListBin("l"), ctx...)
	got := packExp(t, fe)

	want := []byte{
		0x95, 0x7f, // call, five slots
		0x02, // return type: int
		0x00, // module 0, read
		0x93, 0xcc, 0xff, // context wrapper
		0x92, 0x10, 0x02, // one element: list index 2
		0x91, 0x10, // op array: size
		0x93, 0x51, 0x04, 0xa1, 'l',
	}
	assert.Equal(t, want, got)
}

func TestMapCallReturnTypes(t *testing.T) {
	fe := MapGetByKey(operations.MapReturnValue, TypeInt, StringVal("k"), MapBin("m"))
	got := packExp(t, fe)
	// return type int, map module without the modify bit
	assert.Equal(t, uint8(0x02), got[2])
	assert.Equal(t, uint8(0x00), got[3])

	write := MapPut(operations.DefaultMapPolicy(), StringVal("k"), IntVal(1), MapBin("m"))
	got = packExp(t, write)
	assert.Equal(t, uint8(0x05), got[2], "map write returns a map")
	assert.Equal(t, uint8(0x40), got[3], "modify bit set")
}

func TestBitAndHLLModuleIDs(t *testing.T) {
	bitCall := BitCount(IntVal(0), IntVal(8), BlobBin("b"))
	got := packExp(t, bitCall)
	assert.Equal(t, uint8(0x01), got[3], "bit module id")

	hllCall := HLLGetCount(HLLBin("h"))
	got = packExp(t, hllCall)
	assert.Equal(t, uint8(0x02), got[3], "hll module id")

	hllWrite := HLLAdd(operations.DefaultHLLPolicy(), ListVal(types.ListValue{types.IntegerValue(1)}), HLLBin("h"))
	got = packExp(t, hllWrite)
	assert.Equal(t, uint8(0x42), got[3], "hll module id with modify bit")
}

func TestBinExistsDerivesFromBinType(t *testing.T) {
	got := packExp(t, BinExists("a"))
	want := []byte{
		0x93, 0x02, // ne
		0x92, 0x52, 0xa1, 'a', // bin type "a"
		0x00, // particle null
	}
	assert.Equal(t, want, got)
}

func TestArithmeticAndLogicShapes(t *testing.T) {
	exps := []*FilterExpression{
		Not(Eq(IntBin("a"), IntVal(0))),
		Xor(BoolBin("p"), BoolBin("q")),
		NumAdd(IntBin("a"), IntBin("b"), IntVal(1)),
		NumAbs(IntVal(-5)),
		ToFloat(IntVal(2)),
		IntAnd(IntBin("a"), IntVal(0xff)),
		IntLScan(IntBin("a"), BoolVal(true)),
		Min(IntBin("a"), IntBin("b")),
		Max(FloatBin("x"), FloatVal(1.5)),
		NumPow(FloatBin("x"), FloatVal(2)),
		GeoCompare(GeoBin("g"), GeoVal(`{"type":"AeroCircle"}`)),
	}
	for _, fe := range exps {
		packExp(t, fe) // asserts the two-phase contract
	}
}
