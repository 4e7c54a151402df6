package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	InitMetrics()
	InitMetrics() // idempotent

	r := NewRecorder()

	before := testutil.ToFloat64(decryptTotal.WithLabelValues("native", ResultOK))
	r.RecordDecrypt("native", ResultOK, 0.2)
	assert.Equal(t, before+1, testutil.ToFloat64(decryptTotal.WithLabelValues("native", ResultOK)))

	beforeRetry := testutil.ToFloat64(decryptRetries.WithLabelValues("wsl"))
	r.RecordPromptRetry("wsl")
	assert.Equal(t, beforeRetry+1, testutil.ToFloat64(decryptRetries.WithLabelValues("wsl")))

	r.RecordCatalog(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(catalogEntries))

	beforePlaced := testutil.ToFloat64(clipboardPlaced)
	r.RecordPlacement()
	assert.Equal(t, beforePlaced+1, testutil.ToFloat64(clipboardPlaced))

	beforeClear := testutil.ToFloat64(clipboardClears.WithLabelValues(ClearSkipped))
	r.RecordClear(ClearSkipped)
	assert.Equal(t, beforeClear+1, testutil.ToFloat64(clipboardClears.WithLabelValues(ClearSkipped)))
}

func TestWriteTextfile(t *testing.T) {
	InitMetrics()
	NewRecorder().RecordCatalog(3)

	path := filepath.Join(t.TempDir(), "passlaunch.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "passlaunch_catalog_entries 3")
}
