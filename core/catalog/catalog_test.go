package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheet-sync/core/reconcile"
	"sheet-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func names(specs []QuerySpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

var sqlFiles = map[string]string{
	"queries/members.sql": "SELECT Name, Email FROM members\n",
	"queries/claims.sql":  "SELECT ClaimID, Status FROM claims",
	"queries/auths.sql":   "SELECT AuthID FROM auths",
}

func withFiles(extra map[string]string) map[string]string {
	files := map[string]string{}
	for k, v := range sqlFiles {
		files[k] = v
	}
	for k, v := range extra {
		files[k] = v
	}
	return files
}

func TestLoad_JSONKeepsOrder(t *testing.T) {
	root := writeFiles(t, withFiles(map[string]string{
		"queries/queries.json": `{
	"zeta_members": {"database": "dw", "sql": "members.sql", "id": 1234567890123456, "primary_column": "Name"},
	"alpha_claims": {"database": "qnxt", "sql": "claims.sql", "id": "42", "primary_column": "ClaimID"},
	"mid_auths":    {"database": "qnxt", "sql": "auths.sql", "id": 7, "primary_column": "AuthID"}
}`,
	}))

	cfg := Config{Path: "queries/queries.json", SQLDir: "queries"}
	specs, err := Load(context.Background(), DirSource{Root: root}, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta_members", "alpha_claims", "mid_auths"}, names(specs))
	assert.Equal(t, QuerySpec{
		Name:          "zeta_members",
		Database:      "dw",
		SQL:           "members.sql",
		Text:          "SELECT Name, Email FROM members",
		TableID:       "1234567890123456",
		PrimaryColumn: "Name",
	}, specs[0])
	assert.Equal(t, "42", specs[1].TableID)
}

func TestLoad_YAMLKeepsOrder(t *testing.T) {
	root := writeFiles(t, withFiles(map[string]string{
		"catalog.yaml": `
members:
  database: dw
  sql: members.sql
  id: 100
  primary_column: Name
claims:
  database: qnxt
  sql: claims.sql
  id: "200"
  primary_column: ClaimID
`,
	}))

	specs, err := Load(context.Background(), DirSource{Root: root}, Config{Path: "catalog.yaml", SQLDir: "queries"})
	require.NoError(t, err)
	assert.Equal(t, []string{"members", "claims"}, names(specs))
	assert.Equal(t, "100", specs[0].TableID)
	assert.Equal(t, "200", specs[1].TableID)
}

func TestLoad_TOMLKeepsOrder(t *testing.T) {
	root := writeFiles(t, withFiles(map[string]string{
		"catalog.toml": `
[claims]
database = "qnxt"
sql = "claims.sql"
id = 200
primary_column = "ClaimID"

[members]
database = "dw"
sql = "members.sql"
id = "100"
primary_column = "Name"
`,
	}))

	specs, err := Load(context.Background(), DirSource{Root: root}, Config{Path: "catalog.toml", SQLDir: "queries"})
	require.NoError(t, err)
	assert.Equal(t, []string{"claims", "members"}, names(specs))
	assert.Equal(t, "200", specs[0].TableID)
}

func TestLoad_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		expect  string
	}{
		{"Malformed", `{"members": {`, "parse catalog"},
		{"Not An Object", `["members"]`, "parse catalog"},
		{"Missing Fields", `{"members": {"database": "dw", "sql": "members.sql"}}`, "missing id, primary_column"},
		{"Missing SQL File", `{"members": {"database": "dw", "sql": "nope.sql", "id": 1, "primary_column": "Name"}}`, "nope.sql"},
		{"Duplicate", `{"a": {"database": "dw", "sql": "members.sql", "id": 1, "primary_column": "Name"}, "a": {"database": "dw", "sql": "members.sql", "id": 2, "primary_column": "Name"}}`, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeFiles(t, withFiles(map[string]string{"queries/queries.json": tt.catalog}))

			_, err := Load(context.Background(), DirSource{Root: root}, Config{Path: "queries/queries.json", SQLDir: "queries"})
			require.Error(t, err)
			assert.ErrorIs(t, err, reconcile.ErrConfig)
			assert.Contains(t, err.Error(), tt.expect)
		})
	}
}

func TestLoad_MissingCatalog(t *testing.T) {
	_, err := Load(context.Background(), DirSource{Root: t.TempDir()}, Config{Path: "queries/queries.json"})
	assert.ErrorIs(t, err, reconcile.ErrConfig)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	root := writeFiles(t, map[string]string{"queries.ini": "[x]"})
	_, err := Load(context.Background(), DirSource{Root: root}, Config{Path: "queries.ini"})
	assert.ErrorIs(t, err, reconcile.ErrConfig)
}

func TestLoad_Bucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "config", "queries/queries.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`{"members": {"database": "dw", "sql": "members.sql", "id": 5, "primary_column": "Name"}}`)), nil)
	client.On("GetObject", mock.Anything, "config", "queries/members.sql", mock.Anything).
		Return(io.NopCloser(strings.NewReader(sqlFiles["queries/members.sql"])), nil)

	cfg := Config{Path: "queries/queries.json", SQLDir: "queries", Bucket: "config"}
	src := NewSource(cfg, client)
	assert.IsType(t, BucketSource{}, src)

	specs, err := Load(context.Background(), src, cfg)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "SELECT Name, Email FROM members", specs[0].Text)
	client.AssertExpectations(t)
}

func TestLoad_BucketMissingObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "config", "queries/queries.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})

	cfg := Config{Path: "queries/queries.json", Bucket: "config"}
	_, err := Load(context.Background(), NewSource(cfg, client), cfg)
	assert.ErrorIs(t, err, reconcile.ErrConfig)
}

func TestNewSource_Dir(t *testing.T) {
	src := NewSource(Config{Bucket: "config"}, nil)
	assert.Equal(t, DirSource{Root: "."}, src)
}

func TestBucketSource_Check(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "config").Return(true, nil).Once()
	client.On("BucketExists", mock.Anything, "missing").Return(false, nil).Once()
	client.On("BucketExists", mock.Anything, "down").Return(false, errors.New("connection refused")).Once()

	ctx := context.Background()
	assert.NoError(t, BucketSource{Client: client, Bucket: "config"}.Check(ctx))

	err := BucketSource{Client: client, Bucket: "missing"}.Check(ctx)
	assert.ErrorIs(t, err, reconcile.ErrConfig)
	assert.Contains(t, err.Error(), "missing")

	err = BucketSource{Client: client, Bucket: "down"}.Check(ctx)
	assert.ErrorIs(t, err, reconcile.ErrConfig)
	assert.Contains(t, err.Error(), "connection refused")
	client.AssertExpectations(t)
}
