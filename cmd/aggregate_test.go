package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/routekpi/core/model"
)

const exportCSV = `request_id,hub_code,vehicle_code,travel_distance_km,type
R1,HUB-A,V1,10,delivery
R1,HUB-A,V2,30,delivery
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	aggCurrent, aggFormat = "", "json"
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAggregateCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0o644))

	out, err := execute(t, "", "aggregate", path, "--current", "R1")
	require.NoError(t, err)
	var got []model.ScenarioMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "20.00", got[0].AvgDistanceDisplay)
	assert.True(t, got[0].IsCurrent)
}

func TestAggregateCommand_StdinCSV(t *testing.T) {
	out, err := execute(t, exportCSV, "aggregate", "-", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "R1,HUB-A,2,2,"))
}

func TestAggregateCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "aggregate", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = execute(t, exportCSV, "aggregate", "-", "--format", "xml")
	assert.Error(t, err)
}
