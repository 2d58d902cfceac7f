package tableio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"wide2long/internal/table"
)

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	tbl := table.New([]string{"school", "element", "pre", "pst"})
	require.NoError(t, tbl.AppendRow([]cty.Value{
		cty.StringVal("A"), cty.StringVal("i1"), cty.StringVal("1"), cty.StringVal("0"),
	}))
	require.NoError(t, tbl.AppendRow([]cty.Value{
		cty.StringVal("A"), cty.StringVal("l1"), table.Null(), table.Null(),
	}))

	path := filepath.Join(t.TempDir(), "long.sqlite")
	require.NoError(t, Save(tbl, path, "data"))

	back, err := Load(path, ',', "data")
	require.NoError(t, err)

	assert.Equal(t, []string{"school", "element", "pre", "pst"}, back.Columns())
	require.Equal(t, 2, back.NumRows())

	v, ok := back.Cell(0, "pre")
	require.True(t, ok)
	assert.Equal(t, "1", table.Render(v))

	// SQL NULL survives the round trip as null.
	v, ok = back.Cell(1, "pre")
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestSQLiteSaveReplacesTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.db")

	first := table.New([]string{"a"})
	require.NoError(t, first.AppendRow([]cty.Value{cty.StringVal("1")}))
	require.NoError(t, first.AppendRow([]cty.Value{cty.StringVal("2")}))
	require.NoError(t, Save(first, path, "data"))

	second := table.New([]string{"b"})
	require.NoError(t, second.AppendRow([]cty.Value{cty.StringVal("3")}))
	require.NoError(t, Save(second, path, "data"))

	back, err := Load(path, ',', "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, back.Columns())
	assert.Equal(t, 1, back.NumRows())
}

func TestSQLiteLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.sqlite"), ',', "data")
	require.Error(t, err)
}
