package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemakit "github.com/qubit-energy/schemakit"
	"github.com/qubit-energy/schemakit/internal/log"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

const siteSchema = `{"type":"object","required":["id"],"properties":{"id":{"type":"string"}}}`

func TestValidateCmd_CollectsIssuesAcrossBatch(t *testing.T) {
	schemas := writeFiles(t, map[string]string{"site.json": siteSchema})
	data := writeFiles(t, map[string]string{
		"site.json":  `{"name":"HQ"}`,
		"sites.json": `{"id":`,
	})

	cmd := &ValidateCmd{Target: data}
	err := cmd.Run(log.Setup("error"), &CLI{SchemaDir: schemas})
	require.Error(t, err)

	issues, ok := schemakit.AsIssues(err)
	require.True(t, ok, "batch failure should carry the collected issues: %v", err)
	require.Len(t, issues, 2)
	assert.Equal(t, schemakit.CodeRequired, issues[0].Code)
	assert.Equal(t, schemakit.CodeParseError, issues[1].Code)
	assert.Equal(t, "sites.json", issues[1].Params["file"])
	assert.Contains(t, err.Error(), "required at root")
}

func TestValidateCmd_StrictStopsAtFirstFailure(t *testing.T) {
	schemas := writeFiles(t, map[string]string{"site.json": siteSchema})
	data := writeFiles(t, map[string]string{
		"site.json":  `{}`,
		"sites.json": `{}`,
	})

	cmd := &ValidateCmd{Target: data, Strict: true}
	err := cmd.Run(log.Setup("error"), &CLI{SchemaDir: schemas})
	require.Error(t, err)

	issues, ok := schemakit.AsIssues(err)
	require.True(t, ok)
	assert.Len(t, issues, 1, "strict mode stops after the first failing file")
}

func TestValidateCmd_PassingBatch(t *testing.T) {
	schemas := writeFiles(t, map[string]string{"site.json": siteSchema})
	data := writeFiles(t, map[string]string{"site.json": `{"id":"site-1"}`})

	cmd := &ValidateCmd{Target: data}
	require.NoError(t, cmd.Run(log.Setup("error"), &CLI{SchemaDir: schemas}))
}
