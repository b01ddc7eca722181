package answers

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	t.Run("Dotted Path", func(t *testing.T) {
		path, err := ParsePath("Patient.name.given")
		require.NoError(t, err)
		assert.Equal(t, Path{"Patient", "name", "given"}, path)
		assert.Equal(t, "Patient.name.given", path.String())
	})

	t.Run("Brackets Stay In Segment", func(t *testing.T) {
		path, err := ParsePath("Patient.deceased[x]")
		require.NoError(t, err)
		assert.Equal(t, Path{"Patient", "deceased[x]"}, path)
	})

	t.Run("Empty String", func(t *testing.T) {
		_, err := ParsePath("")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("Empty Segment", func(t *testing.T) {
		_, err := ParsePath("Patient..name")
		assert.ErrorIs(t, err, ErrInvalidPath)

		_, err = ParsePath("Patient.")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})
}

func TestSet(t *testing.T) {
	t.Run("Creates Intermediate Mappings", func(t *testing.T) {
		root := Mapping{}
		require.NoError(t, Set(root, MustParsePath("a.b.c"), NewScalar("v")))

		value, err := Get(root, MustParsePath("a.b.c"))
		require.NoError(t, err)
		assert.Equal(t, NewScalar("v"), value)
		assert.IsType(t, Mapping{}, root["a"])
	})

	t.Run("Overwrites Non Mapping Intermediate", func(t *testing.T) {
		root := Mapping{"a": NewScalar("scalar")}
		require.NoError(t, Set(root, MustParsePath("a.b"), NewScalar(1)))

		a, ok := root["a"].(Mapping)
		require.True(t, ok, "scalar intermediate should have been replaced by a mapping")
		assert.Equal(t, NewScalar(1), a["b"])
	})

	t.Run("Overwrites Sequence Intermediate", func(t *testing.T) {
		root := Mapping{"a": Sequence{NewScalar("x")}}
		require.NoError(t, Set(root, MustParsePath("a.b"), NewScalar(true)))

		_, ok := root["a"].(Mapping)
		assert.True(t, ok)
	})

	t.Run("Keeps Existing Sibling Keys", func(t *testing.T) {
		root := Mapping{"a": Mapping{"keep": NewScalar("me")}}
		require.NoError(t, Set(root, MustParsePath("a.b"), NewScalar("new")))

		a := root["a"].(Mapping)
		assert.Equal(t, NewScalar("me"), a["keep"])
		assert.Equal(t, NewScalar("new"), a["b"])
	})

	t.Run("Nil Value Stores Null", func(t *testing.T) {
		root := Mapping{}
		require.NoError(t, Set(root, MustParsePath("a"), nil))
		assert.Equal(t, Null, root["a"])
		assert.True(t, root["a"].(Scalar).IsNull())
	})

	t.Run("Repeated Calls Overwrite", func(t *testing.T) {
		root := Mapping{}
		require.NoError(t, Set(root, MustParsePath("a.b"), NewScalar("1")))
		require.NoError(t, Set(root, MustParsePath("a.b"), NewScalar("2")))
		value, _ := Lookup(root, MustParsePath("a.b"))
		assert.Equal(t, NewScalar("2"), value)
	})

	t.Run("Invalid Path Fails", func(t *testing.T) {
		root := Mapping{}
		assert.ErrorIs(t, Set(root, Path{}, NewScalar(1)), ErrInvalidPath)
		assert.ErrorIs(t, Set(root, Path{"a", ""}, NewScalar(1)), ErrInvalidPath)
		assert.Empty(t, root)
	})

	t.Run("Nil Root Fails", func(t *testing.T) {
		assert.ErrorIs(t, Set(nil, Path{"a"}, NewScalar(1)), ErrNilDocument)
	})
}

func TestInitSequence(t *testing.T) {
	root := Mapping{"g": NewScalar("old")}
	require.NoError(t, InitSequence(root, MustParsePath("g.items")))

	value, err := Get(root, MustParsePath("g.items"))
	require.NoError(t, err)
	assert.Equal(t, Sequence{}, value)
}

func TestGet(t *testing.T) {
	root := Mapping{"a": Mapping{"b": NewScalar("x")}, "s": NewScalar(1)}

	_, err := Get(root, MustParsePath("a.c"))
	assert.ErrorIs(t, err, ErrPathNotFound)

	_, err = Get(root, MustParsePath("s.deeper"))
	assert.ErrorIs(t, err, ErrPathNotFound)

	_, ok := Lookup(nil, MustParsePath("a"))
	assert.False(t, ok)
}

func TestPathTrimPrefix(t *testing.T) {
	path := MustParsePath("Patient.contact.name")
	assert.Equal(t, Path{"name"}, path.TrimPrefix(MustParsePath("Patient.contact")))
	assert.Equal(t, path, path.TrimPrefix(MustParsePath("Organization")))
	assert.Equal(t, path, path.TrimPrefix(path))
}

func TestDocumentJSON(t *testing.T) {
	var root Mapping
	require.NoError(t, json.Unmarshal([]byte(`{"a":{"b":"x"},"list":[{"n":1}],"flag":true}`), &root))

	b, ok := Lookup(root, MustParsePath("a.b"))
	require.True(t, ok)
	assert.Equal(t, NewScalar("x"), b)

	list, ok := root["list"].(Sequence)
	require.True(t, ok)
	assert.Len(t, list, 1)

	encoded, err := json.Marshal(root)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"b":"x"},"list":[{"n":1}],"flag":true}`, string(encoded))

	plain := ToInterface(root).(map[string]interface{})
	assert.Equal(t, true, plain["flag"])
}
