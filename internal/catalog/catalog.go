package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/jcdickinson/pywtf/internal/docs"
	"github.com/jcdickinson/pywtf/internal/search"
)

// Catalog records which projects are indexed together with their search
// descriptors, so that queries can span every project at once.
type Catalog struct {
	conn *sql.DB
}

// Open opens or creates the catalog database at dbPath. An empty path opens
// an in-memory database.
func Open(dbPath string) (*Catalog, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Catalog{conn: conn}
	if err := c.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) initSchema() error {
	if err := c.dropUnkeyedSchema(); err != nil {
		return err
	}

	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_project_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_symbol_id START 1;`,

		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY,
			norm_name TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			modules INTEGER NOT NULL DEFAULT 0,
			symbols INTEGER NOT NULL DEFAULT 0,
			indexed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS symbols (
			id INTEGER PRIMARY KEY,
			project_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			fqname TEXT NOT NULL,
			kind TEXT NOT NULL,
			module TEXT NOT NULL,
			url TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_project ON symbols (project_id)`,
	}

	for _, q := range queries {
		if _, err := c.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// dropUnkeyedSchema removes tables created before projects carried a
// normalized key. The catalog only holds derived data; the next sync
// refills it.
func (c *Catalog) dropUnkeyedSchema() error {
	var tables, keyed int
	err := c.conn.QueryRow(`SELECT
			(SELECT count(*) FROM information_schema.tables WHERE table_name = 'projects'),
			(SELECT count(*) FROM information_schema.columns WHERE table_name = 'projects' AND column_name = 'norm_name')`,
	).Scan(&tables, &keyed)
	if err != nil {
		return fmt.Errorf("inspecting schema: %w", err)
	}
	if tables == 0 || keyed > 0 {
		return nil
	}
	for _, q := range []string{`DROP TABLE IF EXISTS symbols`, `DROP TABLE projects`} {
		if _, err := c.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// --- Project operations ---

// Project is a recorded project. Key is the normalized project name used
// for every lookup; Name is the name as written in the index document.
type Project struct {
	ID        int
	Key       string
	Name      string
	Version   string
	Summary   string
	Modules   int
	Symbols   int
	IndexedAt time.Time
}

const projectColumns = `id, norm_name, name, version, summary, modules, symbols, indexed_at`

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	var p Project
	if err := row.Scan(&p.ID, &p.Key, &p.Name, &p.Version, &p.Summary, &p.Modules, &p.Symbols, &p.IndexedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProject records p and replaces its descriptors in one transaction.
func (c *Catalog) UpsertProject(ctx context.Context, p *docs.Project, descriptors []search.Descriptor) (*Project, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	key := docs.NormalizeProjectName(p.Name)
	var id int
	err = tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE norm_name = ?`, key).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx,
			`INSERT INTO projects (id, norm_name, name, version, summary, modules, symbols)
			 VALUES (nextval('seq_project_id'), ?, ?, ?, ?, ?, ?) RETURNING id`,
			key, p.Name, p.Metadata.Version, p.Metadata.Summary, len(p.Modules), len(descriptors),
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("inserting project: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("checking project: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE projects SET name = ?, version = ?, summary = ?, modules = ?, symbols = ?, indexed_at = CURRENT_TIMESTAMP WHERE id = ?`,
			p.Name, p.Metadata.Version, p.Metadata.Summary, len(p.Modules), len(descriptors), id,
		)
		if err != nil {
			return nil, fmt.Errorf("updating project: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM symbols WHERE project_id = ?`, id); err != nil {
			return nil, fmt.Errorf("deleting symbols: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO symbols (id, project_id, name, fqname, kind, module, url, summary)
		 VALUES (nextval('seq_symbol_id'), ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing symbol insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range descriptors {
		if _, err := stmt.ExecContext(ctx, id, d.Name, d.FQName, string(d.Kind), d.Module, d.URL, d.Summary); err != nil {
			return nil, fmt.Errorf("inserting symbol %s: %w", d.FQName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}
	return c.GetProject(ctx, key)
}

// GetProject returns nil without error when the project is not recorded.
// Names are matched after normalization.
func (c *Catalog) GetProject(ctx context.Context, name string) (*Project, error) {
	p, err := scanProject(c.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE norm_name = ?`, docs.NormalizeProjectName(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", name, err)
	}
	return p, nil
}

func (c *Catalog) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := c.conn.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY norm_name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// RemoveProject deletes a project and its descriptors. Removing an unknown
// project is not an error.
func (c *Catalog) RemoveProject(ctx context.Context, name string) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	key := docs.NormalizeProjectName(name)
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM symbols WHERE project_id IN (SELECT id FROM projects WHERE norm_name = ?)`, key); err != nil {
		return fmt.Errorf("deleting symbols: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE norm_name = ?`, key); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return tx.Commit()
}

// --- Symbol operations ---

// Descriptors returns stored descriptors whose names contain the runes of
// query in order, in project then build order. An empty query returns every
// descriptor. When projects is non-empty only those projects are read.
func (c *Catalog) Descriptors(ctx context.Context, query string, projects []string) ([]search.Descriptor, error) {
	var where []string
	var params []interface{}

	if pattern := subsequencePattern(query); pattern != "" {
		where = append(where, `s.name ILIKE ? ESCAPE '\'`)
		params = append(params, pattern)
	}
	if len(projects) > 0 {
		placeholders := make([]string, len(projects))
		for i, name := range projects {
			placeholders[i] = "?"
			params = append(params, docs.NormalizeProjectName(name))
		}
		where = append(where, fmt.Sprintf(`p.norm_name IN (%s)`, strings.Join(placeholders, ",")))
	}

	q := `SELECT s.name, s.fqname, s.kind, s.module, s.url, s.summary, p.name
		FROM symbols s JOIN projects p ON p.id = s.project_id`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY p.norm_name, s.id`

	rows, err := c.conn.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer rows.Close()

	descriptors := []search.Descriptor{}
	for rows.Next() {
		var d search.Descriptor
		var kind string
		if err := rows.Scan(&d.Name, &d.FQName, &kind, &d.Module, &d.URL, &d.Summary, &d.Project); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		d.Kind = docs.Kind(kind)
		descriptors = append(descriptors, d)
	}
	return descriptors, rows.Err()
}

// Search ranks descriptors across projects the same way a single project
// index does.
func (c *Catalog) Search(ctx context.Context, query string, projects []string, limit int) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return []search.Result{}, nil
	}
	candidates, err := c.Descriptors(ctx, strings.TrimSpace(query), projects)
	if err != nil {
		return nil, err
	}
	return search.Rank(query, candidates, limit), nil
}

// subsequencePattern turns "bar" into "%b%a%r%" with LIKE metacharacters
// escaped.
func subsequencePattern(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('%')
	for _, r := range query {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
		b.WriteByte('%')
	}
	return b.String()
}
