package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigesalud/dashboard/internal/domain/roster"
	"github.com/sigesalud/dashboard/internal/store/dataset"
)

func writeDataset(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		dataset.FacilitiesFile + ".json": `{"facilities":[{"facility_id":"F1","name":"Centro de Salud Ela Nguema","region":"INSULAR"}]}`,
		dataset.PatientsFile + ".json":   `{"patients":[{"patient_id":"P001","full_name":"Ana Mba Ela","sex":"F","facility_id":"F1"},{"patient_id":"P002","full_name":"Pedro Obiang","sex":"M","facility_id":"F1"}]}`,
		dataset.QuotasFile + ".json":     `{"records":[{"facility_id":"F1","doctors":1,"nurses":2}]}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
}

func setEnv(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("DATA_ROOT", dir)
	t.Setenv("HR_ROOT", filepath.Join(dir, "hr"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(dir, "sigesalud.db")+"?_foreign_keys=on")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "populate", "roster", "call"} {
		assert.Contains(t, names, want)
	}
}

func TestCall_PrintsOperationResult(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	setEnv(t, dir)

	out, err := run(t, "call", "patients.list", `{"limit":1}`)
	require.NoError(t, err)

	var page struct {
		Total int64             `json:"total"`
		Rows  []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Rows, 1)
}

func TestCall_UnknownOperation(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	setEnv(t, dir)

	_, err := run(t, "call", "nope.missing")
	assert.Error(t, err)
}

func TestCall_RequiresOperation(t *testing.T) {
	_, err := run(t, "call")
	assert.Error(t, err)
}

func TestRoster_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	setEnv(t, dir)

	out, err := run(t, "roster")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	body, err := os.ReadFile(filepath.Join(dir, "hr", roster.WorkersFile))
	require.NoError(t, err)
	var doc struct {
		Workers []json.RawMessage `json:"workers"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.NotEmpty(t, doc.Workers)
}

func TestRoster_NoQuotas(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, dir)

	_, err := run(t, "roster")
	assert.Error(t, err)
}

func TestMigrateAndPopulate(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	setEnv(t, dir)

	out, err := run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied")

	out, err = run(t, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "applied")
	assert.NotContains(t, out, "pending")

	out, err = run(t, "populate")
	require.NoError(t, err)
	assert.Contains(t, out, "patients")

	t.Setenv("DATA_BACKEND", "sql")
	out, err = run(t, "call", "patients.list")
	require.NoError(t, err)
	assert.Contains(t, out, `"total":2`)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, dir)
	t.Setenv("DATA_BACKEND", "mongo")

	_, err := run(t, "call", "patients.list")
	assert.Error(t, err)
}
