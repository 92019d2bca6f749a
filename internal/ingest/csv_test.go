package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBuildsColumnNamedRows(t *testing.T) {
	input := "id,firstname,country\n1,John,Germany\n2,Jane,France\n"

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0]["id"])
	assert.Equal(t, "John", rows[0]["firstname"])
	assert.Equal(t, "Germany", rows[0]["country"])
	assert.Equal(t, "Jane", rows[1]["firstname"])
}

func TestReadEmptyInput(t *testing.T) {
	rows, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadHeaderOnly(t *testing.T) {
	rows, err := Read(strings.NewReader("id,name\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRejectsRaggedRecords(t *testing.T) {
	_, err := Read(strings.NewReader("id,name\n1,John,extra\n"))
	assert.Error(t, err)
}
