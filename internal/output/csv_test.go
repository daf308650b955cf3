package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	tests := sampleDocument().Tests
	require.NoError(t, WriteCSV(path, tests))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"sd-2-1-g5xlarge-b1-s15-float32",
		"stabilityai/stable-diffusion-2-1 test: g5.xlarge, batch=1, steps=15, 1024x1024, float32",
		"stabilityai/stable-diffusion-2-1",
		"Standard SD",
		"g5.xlarge",
		"1", "15", "1024", "1024",
		"float32",
		"a <cat> & a dog, naïve 宇航员",
		"6Gi", "10Gi", "1800",
	}, rows[1])
}

func TestWriteCSVMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "plan.csv")
	assert.Error(t, WriteCSV(path, nil))
	assert.NoFileExists(t, path)
}
