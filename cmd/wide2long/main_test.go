package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "wide.csv",
		"school,person,pre_i1,pst_i1,l1_k1,l1_k2,l2_k1\nA,1,1,0,0,0,0\n")
	mapping := writeFile(t, dir, "mapping.csv",
		"source_col,element_id,variable_col\n"+
			"pre_i1,i1,pre\npst_i1,i1,pst\nl1_k1,l1,k1\nl1_k2,l1,k2\nl2_k1,l2,k1\n")
	output := filepath.Join(dir, "long.csv")

	out := &bytes.Buffer{}
	err := run([]string{
		"-input", input,
		"-output", output,
		"-mapping", mapping,
		"-id-cols", "school,person",
	}, out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Saved "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	want := "school,person,element,pre,pst,k1,k2\n" +
		"A,1,i1,1,0,,\n" +
		"A,1,l1,,,0,0\n" +
		"A,1,l2,,,0,\n"
	assert.Equal(t, want, string(data))
}

func TestRunJSONMappingAndRepeatedIDCols(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "wide.csv",
		"school,person,pre_i1,pst_i1,j1_k1,j2_k1\nA,1,10,20,5,7\n")
	mapping := writeFile(t, dir, "mapping.json", `{
		"block_a": [
			{"source_col": "pre_i1", "element_id": "i1", "variable_col": "pre"},
			{"source_col": "pst_i1", "element_id": "i1", "variable_col": "pst"}
		],
		"block_b": [
			{"source_col": "j1_k1", "element_id": "j1", "variable_col": "k1"},
			{"source_col": "j2_k1", "element_id": "j2", "variable_col": "k1"}
		]
	}`)
	output := filepath.Join(dir, "long.csv")

	err := run([]string{
		"-input", input,
		"-output", output,
		"-mapping", mapping,
		"-id-cols", "school",
		"-id-cols", "person",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	want := "school,person,element,pre,pst,k1\n" +
		"A,1,i1,10,20,\n" +
		"A,1,j1,,,5\n" +
		"A,1,j2,,,7\n"
	assert.Equal(t, want, string(data))
}

func TestRunNoValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "wide.csv", "school,pre_i1\nA,9\n")
	// The same source column mapped twice: rejected unless validation is off.
	mapping := writeFile(t, dir, "mapping.csv",
		"source_col,element_id,variable_col\npre_i1,i1,pre\npre_i1,i2,pre\n")
	output := filepath.Join(dir, "long.csv")

	baseArgs := []string{"-input", input, "-output", output, "-mapping", mapping, "-id-cols", "school"}

	err := run(baseArgs, &bytes.Buffer{})
	require.Error(t, err)

	err = run(append(baseArgs, "-no-validate"), &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "school,element,pre\nA,i2,9\n", string(data))
}

func TestRunCustomSeparator(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "wide.csv", "school;pre_i1\nA;1\n")
	mapping := writeFile(t, dir, "mapping.json", `{"pre_i1": ["i1", "pre"]}`)
	output := filepath.Join(dir, "long.csv")

	err := run([]string{
		"-input", input,
		"-output", output,
		"-mapping", mapping,
		"-id-cols", "school",
		"-csv-sep", ";",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "school,element,pre\nA,i1,1\n", string(data))
}

func TestRunMissingFlags(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"no input":   {"-output", "o.csv", "-mapping", "m.csv", "-id-cols", "id"},
		"no output":  {"-input", "i.csv", "-mapping", "m.csv", "-id-cols", "id"},
		"no mapping": {"-input", "i.csv", "-output", "o.csv", "-id-cols", "id"},
		"no id cols": {"-input", "i.csv", "-output", "o.csv", "-mapping", "m.csv"},
	}

	for name, args := range cases {
		args := args
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := run(args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing required flag")
		})
	}
}

func TestRunBadSeparator(t *testing.T) {
	t.Parallel()

	err := run([]string{
		"-input", "i.csv", "-output", "o.csv", "-mapping", "m.csv",
		"-id-cols", "id", "-csv-sep", "||",
	}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv-sep")
}
