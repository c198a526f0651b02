package aws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExportKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("CET", 3600))

	assert.Equal(t, "exports/2024/03/09/run-1.csv", ExportKey("run-1.csv", at))
	assert.Equal(t, "exports/2024/03/09/run-2.csv", ExportKey("../tmp/run-2.csv", at))
}
