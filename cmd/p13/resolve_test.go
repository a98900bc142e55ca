package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docRoot(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/www/shop/public", 0o755))
	require.NoError(t, fs.MkdirAll("/srv/www/shop/app/modules/admin", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/srv/www/shop/public/index.php", nil, 0o644))
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(fs)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolve_JSONKeepsInputOrder(t *testing.T) {
	urls := []string{
		"http://localhost/shop/products/show/42?color=red",
		"/shop/public/index.php/admin/users/edit/3",
		"/elsewhere",
		"",
	}

	out, _, err := execute(t, docRoot(t), append([]string{
		"resolve", "--json",
		"--document-root", "/srv/www",
		"--modules-dir", "app/modules",
	}, urls...)...)
	require.NoError(t, err)

	var results []resolved
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, len(urls))

	for i, u := range urls {
		assert.Equal(t, u, results[i].URL)
	}

	assert.Equal(t, "shop", results[0].InstallSubdirectory)
	assert.Equal(t, "products", results[0].Controller)
	assert.Equal(t, "show", results[0].Method)
	assert.Equal(t, []string{"42"}, results[0].Args)
	assert.Equal(t, map[string]string{"color": "red"}, results[0].Query)

	assert.Equal(t, "admin", results[1].Module)
	assert.Equal(t, "users", results[1].Controller)
	assert.Equal(t, []string{"3"}, results[1].Args)

	assert.Empty(t, results[2].InstallSubdirectory)
	assert.Equal(t, "elsewhere", results[2].Controller)

	assert.Empty(t, results[3].Controller)
	assert.Equal(t, []string{}, results[3].Args)
}

func TestResolve_ModuleList(t *testing.T) {
	out, _, err := execute(t, docRoot(t),
		"resolve", "--json", "--document-root", "/srv/www", "--module", "blog",
		"/shop/blog/posts/view/7",
	)
	require.NoError(t, err)

	var results []resolved
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "blog", results[0].Module)
	assert.Equal(t, "posts", results[0].Controller)
}

// cells splits a rendered table into trimmed cells, dropping separator rows.
func cells(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if !strings.Contains(line, "│") {
			continue
		}
		var row []string
		for _, cell := range strings.Split(line, "│") {
			row = append(row, strings.TrimSpace(cell))
		}
		rows = append(rows, row)
	}
	return rows
}

func TestResolve_Table(t *testing.T) {
	out, _, err := execute(t, docRoot(t),
		"resolve", "--document-root", "/srv/www", "--modules-dir", "app/modules",
		"/shop/products", "/shop/", "/shop/admin/users/edit/3/x",
	)
	require.NoError(t, err)

	rows := cells(out)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"URL", "SUBDIRECTORY", "MODULE", "CONTROLLER", "METHOD", "ARGS"}, rows[0])
	assert.Equal(t, []string{"/shop/products", "shop", "-", "products", "-", "-"}, rows[1])
	assert.Equal(t, []string{"/shop/", "shop", "-", "-", "-", "-"}, rows[2])
	assert.Equal(t, []string{"/shop/admin/users/edit/3/x", "shop", "admin", "users", "edit", "3/x"}, rows[3])
}

func TestResolve_VerboseTracesProbes(t *testing.T) {
	_, stderr, err := execute(t, docRoot(t),
		"resolve", "-v", "--document-root", "/srv/www", "/shop/products",
	)
	require.NoError(t, err)
	assert.NotEmpty(t, stderr)
}

func TestResolve_RequiresURL(t *testing.T) {
	_, _, err := execute(t, docRoot(t), "resolve")
	assert.Error(t, err)
}
