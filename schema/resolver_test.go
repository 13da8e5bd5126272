package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulogkit/ulog/errs"
)

func mustParse(t *testing.T, text string) Declaration {
	t.Helper()
	decl, err := ParseDeclaration(text)
	require.NoError(t, err)

	return decl
}

func resolveOne(t *testing.T, texts ...string) map[string]*Format {
	t.Helper()
	r := NewResolver()
	for _, text := range texts {
		r.Add(mustParse(t, text))
	}
	formats, err := r.Resolve()
	require.NoError(t, err)

	return formats
}

func TestParseDeclaration(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		decl := mustParse(t, "Ex:uint8_t a;float b[2];uint8_t padding0_0")
		require.Equal(t, "Ex", decl.Name)
		require.Equal(t, []FieldSpec{
			{Name: "a", TypeSpec: "uint8_t"},
			{Name: "b", TypeSpec: "float[2]"},
			{Name: "padding0_0", TypeSpec: "uint8_t"},
		}, decl.Fields)
	})

	t.Run("empty chunks skipped", func(t *testing.T) {
		decl := mustParse(t, "a:uint8 x;;uint8 y;")
		require.Len(t, decl.Fields, 2)
	})

	t.Run("stray leading underscore stripped", func(t *testing.T) {
		decl := mustParse(t, "a:uint8 _padding0")
		require.Equal(t, "padding0", decl.Fields[0].Name)
	})

	t.Run("stray leading space stripped", func(t *testing.T) {
		decl := mustParse(t, "a:uint8  x")
		require.Equal(t, "x", decl.Fields[0].Name)
	})

	t.Run("no fields", func(t *testing.T) {
		decl := mustParse(t, "a:")
		require.Empty(t, decl.Fields)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := ParseDeclaration("just a name")
		require.ErrorIs(t, err, errs.ErrBadDeclaration)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseDeclaration(":uint8 x")
		require.ErrorIs(t, err, errs.ErrBadDeclaration)
	})

	t.Run("field without name", func(t *testing.T) {
		_, err := ParseDeclaration("a:uint8")
		require.ErrorIs(t, err, errs.ErrBadDeclaration)
	})
}

func TestResolveFlatFormat(t *testing.T) {
	formats := resolveOne(t, "Ex:uint8_t a;float b[2];uint8_t padding0_0")
	f := formats["Ex"]
	require.NotNil(t, f)

	// Trailing padding leaves the public list but counts toward size.
	require.Equal(t, []string{"a", "b_0", "b_1"}, f.FieldNames())
	require.Equal(t, 10, f.Size)

	a, ok := f.Field("a")
	require.True(t, ok)
	assert.Equal(t, Field{Name: "a", Kind: TypeUint8, Offset: 0, Width: 1}, a)

	b0, _ := f.Field("b_0")
	assert.Equal(t, Field{Name: "b_0", Kind: TypeFloat, Offset: 1, Width: 4}, b0)

	b1, _ := f.Field("b_1")
	assert.Equal(t, Field{Name: "b_1", Kind: TypeFloat, Offset: 5, Width: 4}, b1)

	_, ok = f.Field("padding0_0")
	assert.False(t, ok)
}

func TestResolveArrayExpansion(t *testing.T) {
	formats := resolveOne(t, "v:float arr[3];uint8 tail")
	f := formats["v"]

	require.Equal(t, []string{"arr_0", "arr_1", "arr_2", "tail"}, f.FieldNames())
	require.Equal(t, 13, f.Size)

	for i, want := range []int{0, 4, 8} {
		field := f.Fields[i]
		assert.Equal(t, TypeFloat, field.Kind)
		assert.Equal(t, want, field.Offset)
	}
	assert.Equal(t, 12, f.Fields[3].Offset)
}

func TestResolveEmbedded(t *testing.T) {
	formats := resolveOne(t,
		"inner:float x;float y",
		"outer:uint64 timestamp;inner pos;uint8 flag",
	)
	f := formats["outer"]

	require.Equal(t, []string{"timestamp", "pos__x", "pos__y", "flag"}, f.FieldNames())
	require.Equal(t, 17, f.Size)

	px, _ := f.Field("pos__x")
	assert.Equal(t, 8, px.Offset)
	py, _ := f.Field("pos__y")
	assert.Equal(t, 12, py.Offset)
}

func TestResolveEmbeddedPadding(t *testing.T) {
	t.Run("mid-record padding survives to the public list", func(t *testing.T) {
		formats := resolveOne(t,
			"inner:float x;uint8 padding0",
			"outer:inner a;float z",
		)
		f := formats["outer"]

		// The inlined inner padding is not trailing, so stage 3 keeps it.
		require.Equal(t, []string{"a__x", "a__padding0", "z"}, f.FieldNames())
		require.Equal(t, 9, f.Size)
	})

	t.Run("trailing inlined padding is stripped", func(t *testing.T) {
		formats := resolveOne(t,
			"inner:float x;uint8 padding0",
			"outer:float z;inner a",
		)
		f := formats["outer"]

		require.Equal(t, []string{"z", "a__x"}, f.FieldNames())
		require.Equal(t, 9, f.Size)
	})
}

func TestResolveArrayOfEmbedded(t *testing.T) {
	formats := resolveOne(t,
		"pt:float x;float y",
		"path:pt pts[2];uint8 n",
	)
	f := formats["path"]

	require.Equal(t, []string{"pts_0__x", "pts_0__y", "pts_1__x", "pts_1__y", "n"}, f.FieldNames())
	require.Equal(t, 17, f.Size)
}

func TestResolveDeepNesting(t *testing.T) {
	formats := resolveOne(t,
		"c:uint16 v",
		"b:c leaf;uint8 tag",
		"a:b mid;float w",
	)
	f := formats["a"]

	require.Equal(t, []string{"mid__leaf__v", "mid__tag", "w"}, f.FieldNames())
	require.Equal(t, 7, f.Size)

	leaf, ok := f.Field("mid__leaf__v")
	require.True(t, ok)
	assert.Equal(t, TypeUint16, leaf.Kind)
	assert.Equal(t, 0, leaf.Offset)
}

func TestResolveCycle(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		r := NewResolver()
		decl := mustParse(t, "a:uint8 x;a self")
		decl.SrcOffset = 1234
		r.Add(decl)

		_, err := r.Resolve()
		require.ErrorIs(t, err, errs.ErrFormatCycle)

		var rerr *ResolveError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "a", rerr.Format)
		assert.Equal(t, int64(1234), rerr.Offset)
	})

	t.Run("indirect", func(t *testing.T) {
		r := NewResolver()
		r.Add(mustParse(t, "a:b next"))
		r.Add(mustParse(t, "b:c next"))
		r.Add(mustParse(t, "c:a next"))

		_, err := r.Resolve()
		require.ErrorIs(t, err, errs.ErrFormatCycle)
	})
}

func TestResolveUnknownType(t *testing.T) {
	r := NewResolver()
	r.Add(mustParse(t, "a:uint8 x;mystery m"))

	_, err := r.Resolve()
	require.ErrorIs(t, err, errs.ErrUnknownFieldType)

	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "a", rerr.Format)
}

func TestResolveBadArrayLength(t *testing.T) {
	for _, spec := range []string{"float[0]", "float[-2]", "float[abc]", "float[2"} {
		t.Run(spec, func(t *testing.T) {
			r := NewResolver()
			r.Add(Declaration{Name: "a", Fields: []FieldSpec{{Name: "x", TypeSpec: spec}}})

			_, err := r.Resolve()
			require.ErrorIs(t, err, errs.ErrBadArrayLength)
		})
	}
}

func TestResolveRedeclarationOverwrites(t *testing.T) {
	r := NewResolver()
	r.Add(mustParse(t, "a:uint8 x"))
	r.Add(mustParse(t, "a:float y"))
	require.Equal(t, 1, r.Len())

	formats, err := r.Resolve()
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, formats["a"].FieldNames())
	require.Equal(t, 4, formats["a"].Size)
}

func TestResolveEmptyAndAllPadding(t *testing.T) {
	formats := resolveOne(t, "e:", "p:uint8 padding0")

	require.Empty(t, formats["e"].FieldNames())
	require.Equal(t, 0, formats["e"].Size)

	require.Empty(t, formats["p"].FieldNames())
	require.Equal(t, 1, formats["p"].Size)
}

func TestFingerprint(t *testing.T) {
	a := resolveOne(t, "v:uint64 timestamp;float x")["v"]
	b := resolveOne(t, "v:uint64 timestamp;float x")["v"]
	c := resolveOne(t, "v:uint64 timestamp;double x")["v"]

	require.Equal(t, a.Fingerprint, b.Fingerprint)
	require.NotEqual(t, a.Fingerprint, c.Fingerprint)
	require.NotZero(t, a.Fingerprint)
}

func TestIsPaddingName(t *testing.T) {
	assert.True(t, IsPaddingName("padding0"))
	assert.True(t, IsPaddingName("padding0_0"))
	assert.True(t, IsPaddingName("a__padding3"))
	assert.True(t, IsPaddingName("outer__inner__padding1"))

	assert.False(t, IsPaddingName("p"))
	assert.False(t, IsPaddingName("xpadding"))
	assert.False(t, IsPaddingName("pad"))
	assert.False(t, IsPaddingName("a__xpadding0"))
}
