package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"sheet-sync/core/reconcile"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// QuerySpec is one catalog entry with its SQL text loaded.
type QuerySpec struct {
	// Name is the unique catalog key.
	Name string `json:"name"`
	// Database is the source database identifier.
	Database string `json:"database"`
	// SQL is the reference of the SQL resource.
	SQL string `json:"sql"`
	// Text is the SQL statement read from the resource.
	Text string `json:"-"`
	// TableID is the target remote table.
	TableID string `json:"id"`
	// PrimaryColumn is the column rows are matched on.
	PrimaryColumn string `json:"primary_column"`
}

type entry struct {
	Database      string `json:"database" yaml:"database" toml:"database"`
	SQL           string `json:"sql" yaml:"sql" toml:"sql"`
	ID            any    `json:"id" yaml:"id" toml:"id"`
	PrimaryColumn string `json:"primary_column" yaml:"primary_column" toml:"primary_column"`
}

type namedEntry struct {
	name string
	entry
}

// Load reads the catalog and every SQL resource it references, in on-disk order.
// Any missing or malformed resource is reported as reconcile.ErrConfig.
func Load(ctx context.Context, src Source, cfg Config) ([]QuerySpec, error) {
	data, err := src.ReadFile(ctx, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog %s: %v", reconcile.ErrConfig, cfg.Path, err)
	}

	entries, err := parse(cfg.Path, data)
	if err != nil {
		return nil, err
	}

	specs := make([]QuerySpec, 0, len(entries))
	for _, e := range entries {
		spec, err := e.spec()
		if err != nil {
			return nil, err
		}

		ref := path.Join(cfg.SQLDir, spec.SQL)
		text, err := src.ReadFile(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("%w: query %s: read %s: %v", reconcile.ErrConfig, spec.Name, ref, err)
		}
		spec.Text = strings.TrimSpace(string(text))
		if spec.Text == "" {
			return nil, fmt.Errorf("%w: query %s: %s is empty", reconcile.ErrConfig, spec.Name, ref)
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// parse decodes catalog entries, keeping their order. The format follows the file extension.
func parse(name string, data []byte) ([]namedEntry, error) {
	var (
		entries []namedEntry
		err     error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		entries, err = parseJSON(data)
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	case ".toml":
		entries, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q", reconcile.ErrConfig, path.Ext(name))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse catalog %s: %v", reconcile.ErrConfig, name, err)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.name]; dup {
			return nil, fmt.Errorf("%w: duplicate query %q", reconcile.ErrConfig, e.name)
		}
		seen[e.name] = struct{}{}
	}
	return entries, nil
}

func parseJSON(data []byte) ([]namedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object of queries")
	}

	var entries []namedEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		e := namedEntry{name: tok.(string)}
		if err := dec.Decode(&e.entry); err != nil {
			return nil, fmt.Errorf("query %s: %w", e.name, err)
		}
		entries = append(entries, e)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseYAML(data []byte) ([]namedEntry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of queries")
	}

	entries := make([]namedEntry, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		e := namedEntry{name: doc.Content[i].Value}
		if err := doc.Content[i+1].Decode(&e.entry); err != nil {
			return nil, fmt.Errorf("query %s: %w", e.name, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseTOML(data []byte) ([]namedEntry, error) {
	var raw map[string]entry
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	// Keys() lists keys in document order; top-level tables are the queries
	var entries []namedEntry
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		entries = append(entries, namedEntry{name: key[0], entry: raw[key[0]]})
	}
	return entries, nil
}

func (e namedEntry) spec() (QuerySpec, error) {
	spec := QuerySpec{
		Name:          e.name,
		Database:      strings.TrimSpace(e.Database),
		SQL:           strings.TrimSpace(e.SQL),
		TableID:       tableID(e.ID),
		PrimaryColumn: e.PrimaryColumn,
	}

	var missing []string
	if spec.Database == "" {
		missing = append(missing, "database")
	}
	if spec.SQL == "" {
		missing = append(missing, "sql")
	}
	if spec.TableID == "" {
		missing = append(missing, "id")
	}
	if spec.PrimaryColumn == "" {
		missing = append(missing, "primary_column")
	}
	if len(missing) > 0 {
		return QuerySpec{}, fmt.Errorf("%w: query %s: missing %s", reconcile.ErrConfig, e.name, strings.Join(missing, ", "))
	}
	return spec, nil
}

// tableID normalizes ids written as numbers or strings.
func tableID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
