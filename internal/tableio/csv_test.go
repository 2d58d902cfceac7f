package tableio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"wide2long/internal/table"
)

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wide.csv")
	require.NoError(t, os.WriteFile(path, []byte("school;person;pre_i1\nA;1;\nB;2;7\n"), 0o600))

	tbl, err := Load(path, ';', DefaultSQLiteTable)
	require.NoError(t, err)

	assert.Equal(t, []string{"school", "person", "pre_i1"}, tbl.Columns())
	require.Equal(t, 2, tbl.NumRows())

	// Empty cells load as null, not as empty strings.
	v, ok := tbl.Cell(0, "pre_i1")
	require.True(t, ok)
	assert.True(t, v.IsNull())

	v, ok = tbl.Cell(1, "pre_i1")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("7"), v)
}

func TestSaveCSVRoundTrip(t *testing.T) {
	t.Parallel()

	tbl := table.New([]string{"school", "element", "pre"})
	require.NoError(t, tbl.AppendRow([]cty.Value{cty.StringVal("A"), cty.StringVal("i1"), cty.StringVal("1")}))
	require.NoError(t, tbl.AppendRow([]cty.Value{cty.StringVal("A"), cty.StringVal("l1"), table.Null()}))

	path := filepath.Join(t.TempDir(), "long.csv")
	require.NoError(t, Save(tbl, path, DefaultSQLiteTable))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "school,element,pre\nA,i1,1\nA,l1,\n", string(data))

	back, err := Load(path, ',', DefaultSQLiteTable)
	require.NoError(t, err)
	require.Equal(t, 2, back.NumRows())

	v, ok := back.Cell(1, "pre")
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestLoadUnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "wide.xlsx"), ',', DefaultSQLiteTable)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSaveUnsupportedExtension(t *testing.T) {
	t.Parallel()

	err := Save(table.New([]string{"a"}), filepath.Join(t.TempDir(), "out.parquet"), DefaultSQLiteTable)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
