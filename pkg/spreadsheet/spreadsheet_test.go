package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeysRowsByHeader(t *testing.T) {
	data, err := Build("Sheet1", []string{"Code", "Full Name"}, [][]interface{}{
		{"100", "Mina"},
		{"200"},
	})
	require.NoError(t, err)

	rows, headers, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, []string{"Code", "Full Name"}, headers)
	require.Len(t, rows, 2)

	require.Equal(t, "Mina", rows[0].Value("Full Name"))
	// short rows pad missing cells with the empty string
	require.Equal(t, "", rows[1].Value("Full Name"))
}

func TestRowValueMatchesHeadersCaseInsensitively(t *testing.T) {
	row := Row{" Code ": "  100  ", "Full Name": "Mina"}
	require.Equal(t, "100", row.Value("code"))
	require.Equal(t, "Mina", row.Value("fullName", "Full Name"))
	require.Equal(t, "", row.Value("Level"))

	require.True(t, row.Has("CODE"))
	require.False(t, row.Has("Level"))
}

func TestParseRejectsBodylessWorkbook(t *testing.T) {
	_, _, err := Parse(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}
