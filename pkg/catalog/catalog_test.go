package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoRecord = `
key: shop
name: Web Shop
summary: storefront and backing services
tags: [web, demo]
favorite: true
defaultProfile: default
profiles:
  default:
    components:
      - name: api
        command: ./bin/api --port 8080
        stopSignal: TERM
        checks:
          - label: api-http
            kind: http
            target: http://127.0.0.1:8080/healthz
            interval: 10s
            timeout: 2s
      - name: worker
        command: "sh -lc 'exec ./bin/worker'"
  minimal:
    components:
      - name: api
        command: ./bin/api --port 8080
quickLinks:
  - label: Storefront
    url: http://127.0.0.1:8080
folders:
  - label: Source
    path: /srv/shop
`

func writeRecord(t *testing.T, dir, name, body string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644)
	require.NoError(t, err)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "shop.yml", demoRecord)
	writeRecord(t, dir, "notes.txt", "not a project record")

	cat, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	record, ok := cat.Get("shop")
	require.True(t, ok)
	assert.Equal(t, "Web Shop", record.Name)
	assert.Equal(t, "default", record.DefaultProfile)
	assert.True(t, record.Favorite)
	require.Len(t, record.Profiles["default"].Components, 2)
	assert.Len(t, record.QuickLinks, 1)
	assert.Len(t, record.Folders, 1)

	check := record.Profiles["default"].Components[0].Checks[0]
	assert.Equal(t, Duration(10*time.Second), check.Interval)
	assert.Equal(t, Duration(2*time.Second), check.Timeout)
}

func TestLoadCatalogSortedByName(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a.yml", `
key: zeta
name: zeta service
profiles:
  default:
    components:
      - name: main
        command: sleep 60
`)
	writeRecord(t, dir, "b.yml", `
key: alpha
name: Alpha Service
profiles:
  default:
    components:
      - name: main
        command: sleep 60
`)

	cat, err := Load(dir)
	require.NoError(t, err)

	var keys []string
	cat.Each(func(record *ProjectRecord) {
		keys = append(keys, record.Key)
	})
	assert.Equal(t, []string{"alpha", "zeta"}, keys)
}

func TestLoadCatalogDuplicateKey(t *testing.T) {
	dir := t.TempDir()
	body := `
key: shop
name: Shop
profiles:
  default:
    components:
      - name: main
        command: sleep 60
`
	writeRecord(t, dir, "one.yml", body)
	writeRecord(t, dir, "two.yml", body)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate project key")
}

func TestValidateRejectsBadNames(t *testing.T) {
	record := &ProjectRecord{
		Key: "9bad",
		Profiles: map[string]*Profile{
			"default": {Components: []*ComponentDefinition{{Name: "main", Command: "sleep 1"}}},
		},
	}
	require.Error(t, record.Validate())

	record.Key = "good"
	record.Profiles["default"].Components[0].Name = "has space"
	require.Error(t, record.Validate())
}

func TestValidateFillsDefaults(t *testing.T) {
	record := &ProjectRecord{
		Key: "svc",
		Profiles: map[string]*Profile{
			"default": {Components: []*ComponentDefinition{{Name: "main", Command: "sleep 1"}}},
		},
	}
	require.NoError(t, record.Validate())
	assert.Equal(t, "svc", record.Name)
	assert.Equal(t, "default", record.DefaultProfile)
	assert.Equal(t, "TERM", record.Profiles["default"].Components[0].StopSignal)
}

func TestValidateCheckDefinitions(t *testing.T) {
	record := &ProjectRecord{
		Key: "svc",
		Profiles: map[string]*Profile{
			"default": {Components: []*ComponentDefinition{{
				Name:    "main",
				Command: "sleep 1",
				Checks:  []*CheckDefinition{{Label: "ping", Kind: "gopher", Target: "x"}},
			}}},
		},
	}
	err := record.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestArgvSplitting(t *testing.T) {
	plain := &ComponentDefinition{Command: "./bin/api --port 8080"}
	assert.Equal(t, []string{"./bin/api", "--port", "8080"}, plain.Argv())

	quoted := &ComponentDefinition{Command: `sh -lc 'exec ./bin/worker'`}
	assert.Equal(t, []string{"sh", "-c", `sh -lc 'exec ./bin/worker'`}, quoted.Argv())

	// 多余的空白不该变成空参数
	ragged := &ComponentDefinition{Command: "  ./bin/api   --port  8080 "}
	assert.Equal(t, []string{"./bin/api", "--port", "8080"}, ragged.Argv())

	check := &CheckDefinition{Command: "curl  -sf   http://localhost:8080/healthz"}
	assert.Equal(t, []string{"curl", "-sf", "http://localhost:8080/healthz"}, check.CommandArgv())
}
