package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/MeshQuality/config"
	"github.com/notargets/MeshQuality/mesh"
	gocfdmesh "github.com/notargets/gocfd/DG3D/mesh"
	"github.com/notargets/gocfd/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tetNeutralFile = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
Single tet
PROGRAM:                  Test     VERSION:  1.0
Mon Jan  1 00:00:00 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         4         1         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
         1         6         4         1         2         3         4
ENDOFSECTION
`

const hexAndQuadSU2 = `NDIME= 3
NPOIN= 12
0.0 0.0 0.0
1.0 0.0 0.0
1.0 1.0 0.0
0.0 1.0 0.0
0.0 0.0 1.0
1.0 0.0 1.0
1.0 1.0 1.0
0.0 1.0 1.0
3.0 0.0 2.0
4.0 0.0 2.0
4.0 1.0 2.0
3.0 1.0 2.0
NELEM= 2
12 0 1 2 3 4 5 6 7
9 8 9 10 11
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "meshquality "+Version)
}

func TestEvaluateCmd_RequiresMeshFile(t *testing.T) {
	_, err := execute(t, "evaluate")
	assert.Error(t, err)
}

func TestEvaluateCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "evaluate", filepath.Join(t.TempDir(), "nope.neu"))
	assert.Error(t, err)
}

func TestEvaluateCmd_UncoloredMetric(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.su2")
	require.NoError(t, os.WriteFile(path, []byte(hexAndQuadSU2), 0o644))

	for _, code := range []string{"0", "7"} {
		reportPath := filepath.Join(dir, "report-"+code+".txt")
		_, err := execute(t, "evaluate", path, "--metric", code, "-o", reportPath)
		require.NoError(t, err, "metric %s", code)

		data, err := os.ReadFile(reportPath)
		require.NoError(t, err)
		text := string(data)
		assert.Contains(t, text, "Elements: 2")
		assert.Contains(t, text, "Colored by: none")
		assert.NotContains(t, text, "Color\n")
		assert.NotContains(t, text, "excellent")
	}
}

func TestEvaluateCmd_FailedRunKeepsReportFile(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(reportPath, []byte("previous report"), 0o644))

	_, err := execute(t, "evaluate", filepath.Join(dir, "missing.su2"), "-o", reportPath)
	require.Error(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, "previous report", string(data))
}

func TestWriteReportFile_Errors(t *testing.T) {
	err := writeReportFile(filepath.Join(t.TempDir(), "no", "such", "dir.txt"), []byte("x"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, writeReportFile(path, []byte("ok")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestEvaluateCmd_NoQuadOrHex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tet.neu")
	require.NoError(t, os.WriteFile(path, []byte(tetNeutralFile), 0o644))
	reportPath := filepath.Join(dir, "report.txt")

	_, err := execute(t, "evaluate", path, "-o", reportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Elements: 0")
	assert.Contains(t, string(data), "zero mesh inputs found")
}

func TestEvaluateInventory_JSON(t *testing.T) {
	m := gocfdmesh.NewMesh()
	coords := [][]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	for i, c := range coords {
		m.AddNode(i+1, c)
	}
	require.NoError(t, m.AddElement(1, utils.Hex, nil, []int{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, m.AddElement(2, utils.Quad, nil, []int{1, 2, 3, 4}))
	inv, err := mesh.FromMesh(m)
	require.NoError(t, err)
	inv.Source = "cube"

	cfg := config.NewDefaultConfig()
	cfg.Report.Format = "json"
	cfg.Report.Metric = 3
	cfg.Engine.Workers = 2
	cfg.Engine.PartitionSize = 1

	var out bytes.Buffer
	require.NoError(t, evaluateInventory(cfg, "run-7", inv, &out, zap.NewNop()))

	var decoded struct {
		RunID     string             `json:"run_id"`
		Source    string             `json:"source"`
		Count     int                `json:"count"`
		Aggregate map[string]float64 `json:"aggregate"`
		Elements  []struct {
			Geometry string `json:"geometry"`
			Band     string `json:"band"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "run-7", decoded.RunID)
	assert.Equal(t, "cube", decoded.Source)
	assert.Equal(t, 2, decoded.Count)
	assert.Equal(t, 1.0, decoded.Aggregate["aspect_ratio"])
	assert.Equal(t, 1.0, decoded.Aggregate["jacobian_ratio"])
	require.Len(t, decoded.Elements, 2)
	assert.Equal(t, "Hex", decoded.Elements[0].Geometry)
	assert.Equal(t, "excellent", decoded.Elements[1].Band)
}

func TestEvaluateInventory_BadStrategy(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Engine.Strategy = "metis"
	err := evaluateInventory(cfg, "run-8", &mesh.Inventory{}, &bytes.Buffer{}, zap.NewNop())
	assert.Error(t, err)
}
