package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesFieldOrder(t *testing.T) {
	rec, err := Parse([]byte(`{"zeta":1,"alpha":"a","mid":true}`))
	require.NoError(t, err)

	require.Equal(t, 3, rec.Len())
	assert.Equal(t, "zeta", rec.Fields()[0].Name)
	assert.Equal(t, "alpha", rec.Fields()[1].Name)
	assert.Equal(t, "mid", rec.Fields()[2].Name)
}

func TestParse_Nested(t *testing.T) {
	rec, err := Parse([]byte(`{"meta":{"idx":3,"tags":["a","b"]},"ok":null}`))
	require.NoError(t, err)

	meta, ok := rec.Get("meta")
	require.True(t, ok)
	require.Equal(t, KindObject, meta.Kind())

	idx, ok := meta.Obj().Get("idx")
	require.True(t, ok)
	assert.Equal(t, 3.0, idx.Num())

	tags, ok := meta.Obj().Get("tags")
	require.True(t, ok)
	require.Equal(t, KindArray, tags.Kind())
	require.Len(t, tags.Arr(), 2)
	assert.Equal(t, "a", tags.Arr()[0].Str())

	null, ok := rec.Get("ok")
	require.True(t, ok)
	assert.True(t, null.IsNull())
}

func TestParse_RejectsNonObject(t *testing.T) {
	_, err := Parse([]byte(`[1,2,3]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected object")
}

func TestParse_RejectsMalformed(t *testing.T) {
	_, err := Parse([]byte(`{bad json`))
	require.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := `{"question":"2+2?","score":1.5,"done":false,"meta":{"split":"train","index":0},"tags":["x"],"note":null}`
	rec, err := Parse([]byte(in))
	require.NoError(t, err)

	out, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, in, string(out))

	again, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, rec.Equal(again))
}

func TestSet_ReplacesInPlace(t *testing.T) {
	rec := New().
		Set("a", Int(1)).
		Set("b", Int(2)).
		Set("a", Int(3))

	require.Equal(t, 2, rec.Len())
	assert.Equal(t, "a", rec.Fields()[0].Name)
	v, _ := rec.Get("a")
	assert.Equal(t, 3.0, v.Num())
}

func TestEqual_OrderSensitive(t *testing.T) {
	a, err := Parse([]byte(`{"x":1,"y":2}`))
	require.NoError(t, err)
	b, err := Parse([]byte(`{"y":2,"x":1}`))
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, String("x").Equal(String("x")))
	assert.False(t, String("x").Equal(Number(1)))
	assert.True(t, Null().Equal(Null()))
	assert.True(t, Array(Int(1), Bool(true)).Equal(Array(Int(1), Bool(true))))
	assert.False(t, Array(Int(1)).Equal(Array(Int(2))))
}

func TestMarshal_IntegerNumbersStayIntegral(t *testing.T) {
	out, err := Int(42).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "42", string(out))
}
