package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("database:\n  driver: sqlite\n  dsn: %q\nauth:\n  jwt_secret: test\n", filepath.Join(dir, "inventory.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLabctl_ImportExport(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	doc := filepath.Join(dir, "DSE.txt")
	require.NoError(t, os.WriteFile(doc, []byte("1\nNetworking Lab\nEquipment: Switch\n24\n"), 0o644))

	out, err := run(t, "--config", cfg, "import", "--layout", "dse", doc)
	require.NoError(t, err)
	assert.Equal(t, "Import completed: 1 labs, 1 assets\n", out)

	xlsx := filepath.Join(dir, "out.xlsx")
	out, err = run(t, "--config", cfg, "export", "--out", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Assets")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "DSE-NETWORKING-LAB-1", rows[1][0])

	out, err = run(t, "--config", cfg, "import", "--layout", "workbook", xlsx)
	require.NoError(t, err)
	assert.Equal(t, "Import completed: 1 labs, 1 assets\n", out)
}

func TestLabctl_Errors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := run(t, "--config", cfg, "import", "--layout", "pdf", "x.pdf")
	assert.Error(t, err)

	_, err = run(t, "--config", cfg, "import", "--layout", "doc", filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = run(t, "--config", filepath.Join(dir, "nope.yaml"), "export")
	assert.Error(t, err)
}

func TestLabctl_UsersAdd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := run(t, "--config", cfg, "users", "add", "--email", "Admin@Lab.test", "--name", "Admin", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Created user 1 (admin@lab.test)\n", out)

	_, err = run(t, "--config", cfg, "users", "add", "--email", "admin@lab.test", "--name", "Admin", "--password", "pw")
	assert.EqualError(t, err, "user admin@lab.test already exists")

	_, err = run(t, "--config", cfg, "users", "add", "--email", "x@lab.test")
	assert.Error(t, err)
}
