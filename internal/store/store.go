// Package store keeps decoded TextGrid documents in a SQLite corpus.
//
// Documents are identified by a random UUID and deduplicated by the
// SHA-256 fingerprint of their verbose rendering, so saving the same
// annotation twice returns the first ID.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/textgrid/core/cas"
	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/praat"
	"github.com/FocuswithJustin/textgrid/core/sqlite"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/FocuswithJustin/textgrid/internal/logging"
	"github.com/FocuswithJustin/textgrid/internal/validation"
)

// MemoryPath opens a private in-memory corpus.
const MemoryPath = ":memory:"

// minPrefix is the shortest ID prefix Load and Delete resolve.
const minPrefix = 4

// timeFormat has a fixed width so created_at sorts chronologically as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Injectable functions for testing
var (
	timeNow       = time.Now
	newID         = uuid.NewString
	sqliteOpen    = sqlite.OpenFile
	sqliteOpenRO  = sqlite.OpenReadOnly
	osMkdirAllDB  = os.MkdirAll
	osOpenDBCheck = os.Open
	osStatDB      = os.Stat
)

// Record describes a stored document without its tiers.
type Record struct {
	ID        string
	Name      string
	XMin      float64
	XMax      float64
	Tiers     int
	SHA256    string
	BLAKE3    string
	CreatedAt time.Time
}

// Fingerprint returns the stored hashes of the document.
func (r Record) Fingerprint() cas.HashResult {
	return cas.HashResult{SHA256: r.SHA256, BLAKE3: r.BLAKE3}
}

// Match is one interval or point whose label matched a search.
type Match struct {
	DocumentID string
	Document   string
	Tier       string
	Kind       textgrid.TierKind
	XMin       float64
	XMax       float64
	Label      string
}

// Store is a corpus backed by one SQLite database.
type Store struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// Open opens or creates the corpus at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if path != MemoryPath {
		if err := checkDatabaseFile(path); err != nil {
			return nil, err
		}
		if err := osMkdirAllDB(filepath.Dir(path), 0755); err != nil {
			return nil, errors.NewIO("create directory", filepath.Dir(path), err)
		}
	}

	db, err := sqliteOpen(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	// SQLite allows one writer; a single connection also keeps a
	// :memory: database alive for the lifetime of the Store.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewIO("initialize", path, err)
	}
	logging.DebugContext(ctx, "store opened", "path", path, "driver", sqlite.DriverType())
	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens an existing corpus for List, Load and Search. Save
// and Delete fail on the returned Store.
func OpenReadOnly(ctx context.Context, path string) (*Store, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if path == MemoryPath {
		return nil, errors.NewValidation("path", "an in-memory corpus cannot be opened read-only")
	}
	if _, err := osStatDB(path); os.IsNotExist(err) {
		return nil, errors.NewNotFound("corpus", path)
	}
	if err := checkDatabaseFile(path); err != nil {
		return nil, err
	}

	db, err := sqliteOpenRO(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	db.SetMaxOpenConns(1)

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		db.Close()
		return nil, errors.NewIO("open", path, err)
	}
	logging.DebugContext(ctx, "store opened", "path", path, "driver", sqlite.DriverType(), "read_only", true, "documents", n)
	return &Store{db: db, path: path, readOnly: true}, nil
}

func (s *Store) checkWritable(op string) error {
	if s.readOnly {
		return errors.NewUnsupported(op, "corpus is open read-only")
	}
	return nil
}

// checkDatabaseFile refuses to open an existing file that is not SQLite.
func checkDatabaseFile(path string) error {
	f, err := osOpenDBCheck(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer f.Close()

	if _, err := validation.ValidateFileType(f, filepath.Base(path)+".db"); err != nil {
		return &errors.ValidationError{Field: "database", Value: path, Message: "not a SQLite database", Err: errors.ErrInvalidInput}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Save stores doc and returns its ID. When a document with the same
// fingerprint already exists, its ID is returned and created is false.
func (s *Store) Save(ctx context.Context, doc *textgrid.Document) (id string, created bool, err error) {
	if err := s.checkWritable("save"); err != nil {
		return "", false, err
	}
	start := timeNow()
	fp := praat.Fingerprint(doc)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, errors.NewIO("begin", s.path, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `SELECT id FROM documents WHERE sha256 = ?`, fp.SHA256).Scan(&id)
	switch {
	case err == nil:
		if err = tx.Commit(); err != nil {
			return "", false, errors.NewIO("commit", s.path, err)
		}
		logging.StoreOperation(ctx, "save", id, timeNow().Sub(start), "created", false)
		return id, false, nil
	case err != sql.ErrNoRows:
		return "", false, errors.NewIO("query", s.path, err)
	}

	id = newID()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, name, xmin, xmax, sha256, blake3, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, doc.Name, doc.XMin, doc.XMax, fp.SHA256, fp.BLAKE3, timeNow().UTC().Format(timeFormat),
	); err != nil {
		return "", false, errors.NewIO("insert document", s.path, err)
	}
	for pos, tier := range doc.Tiers() {
		if err = insertTier(ctx, tx, id, pos, tier); err != nil {
			return "", false, errors.NewIO("insert tier", s.path, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return "", false, errors.NewIO("commit", s.path, err)
	}
	logging.StoreOperation(ctx, "save", id, timeNow().Sub(start), "created", true, "tiers", doc.Size())
	return id, true, nil
}

func insertTier(ctx context.Context, tx *sql.Tx, id string, pos int, tier textgrid.Tier) error {
	xmin, xmax := tier.Bounds()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tiers (document_id, position, kind, name, xmin, xmax) VALUES (?, ?, ?, ?, ?, ?)`,
		id, pos, tier.Kind.String(), tier.Name(), xmin, xmax,
	); err != nil {
		return err
	}
	switch tier.Kind {
	case textgrid.KindInterval:
		for i, iv := range tier.IntervalTier.Intervals {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO intervals (document_id, tier_position, position, xmin, xmax, text) VALUES (?, ?, ?, ?, ?, ?)`,
				id, pos, i, iv.XMin, iv.XMax, iv.Text,
			); err != nil {
				return err
			}
		}
	case textgrid.KindPoint:
		for i, p := range tier.PointTier.Points {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO points (document_id, tier_position, position, number, mark) VALUES (?, ?, ?, ?, ?)`,
				id, pos, i, p.Number, p.Mark,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load rebuilds the document stored under id, which may be a unique prefix,
// and checks its rendering against the stored fingerprint.
func (s *Store) Load(ctx context.Context, id string) (*textgrid.Document, error) {
	start := timeNow()
	id, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	var name string
	var xmin, xmax float64
	var stored cas.HashResult
	if err := s.db.QueryRowContext(ctx,
		`SELECT name, xmin, xmax, sha256, blake3 FROM documents WHERE id = ?`, id,
	).Scan(&name, &xmin, &xmax, &stored.SHA256, &stored.BLAKE3); err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	doc := textgrid.NewDocument(name, xmin, xmax)

	tiers, err := s.loadTiers(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, tier := range tiers {
		if err := doc.PushTier(tier, nil); err != nil {
			return nil, err
		}
	}
	if err := stored.Verify([]byte(praat.Render(doc, praat.Verbose))); err != nil {
		return nil, errors.NewIO("verify", s.path, fmt.Errorf("document %s: %w", id, err))
	}
	logging.StoreOperation(ctx, "load", id, timeNow().Sub(start))
	return doc, nil
}

func (s *Store) loadTiers(ctx context.Context, id string) ([]textgrid.Tier, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, kind, name, xmin, xmax FROM tiers WHERE document_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	type tierRow struct {
		pos  int
		tier textgrid.Tier
	}
	var loaded []tierRow
	for rows.Next() {
		var pos int
		var class, name string
		var xmin, xmax float64
		if err := rows.Scan(&pos, &class, &name, &xmin, &xmax); err != nil {
			rows.Close()
			return nil, errors.NewIO("scan", s.path, err)
		}
		kind, ok := textgrid.ParseTierKind(class)
		if !ok {
			rows.Close()
			return nil, errors.NewUnsupported("tier kind", class)
		}
		var tier textgrid.Tier
		if kind == textgrid.KindInterval {
			tier = textgrid.NewIntervalTier(name, xmin, xmax).Tier()
		} else {
			tier = textgrid.NewPointTier(name, xmin, xmax).Tier()
		}
		loaded = append(loaded, tierRow{pos: pos, tier: tier})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.NewIO("query", s.path, err)
	}
	rows.Close()

	tiers := make([]textgrid.Tier, 0, len(loaded))
	for _, tr := range loaded {
		var err error
		switch tr.tier.Kind {
		case textgrid.KindInterval:
			tr.tier.IntervalTier.Intervals, err = s.loadIntervals(ctx, id, tr.pos)
		case textgrid.KindPoint:
			tr.tier.PointTier.Points, err = s.loadPoints(ctx, id, tr.pos)
		}
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tr.tier)
	}
	return tiers, nil
}

func (s *Store) loadIntervals(ctx context.Context, id string, tierPos int) ([]textgrid.Interval, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT xmin, xmax, text FROM intervals WHERE document_id = ? AND tier_position = ? ORDER BY position`,
		id, tierPos)
	if err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	defer rows.Close()

	var intervals []textgrid.Interval
	for rows.Next() {
		var iv textgrid.Interval
		if err := rows.Scan(&iv.XMin, &iv.XMax, &iv.Text); err != nil {
			return nil, errors.NewIO("scan", s.path, err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	return intervals, nil
}

func (s *Store) loadPoints(ctx context.Context, id string, tierPos int) ([]textgrid.Point, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, mark FROM points WHERE document_id = ? AND tier_position = ? ORDER BY position`,
		id, tierPos)
	if err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	defer rows.Close()

	var points []textgrid.Point
	for rows.Next() {
		var p textgrid.Point
		if err := rows.Scan(&p.Number, &p.Mark); err != nil {
			return nil, errors.NewIO("scan", s.path, err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	return points, nil
}

// List returns every stored document, oldest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.xmin, d.xmax, d.sha256, d.blake3, d.created_at,
		       (SELECT COUNT(*) FROM tiers t WHERE t.document_id = d.id)
		FROM documents d
		ORDER BY d.created_at, d.id`)
	if err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created string
		if err := rows.Scan(&r.ID, &r.Name, &r.XMin, &r.XMax, &r.SHA256, &r.BLAKE3, &created, &r.Tiers); err != nil {
			return nil, errors.NewIO("scan", s.path, err)
		}
		if r.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, errors.NewIO("scan", s.path, fmt.Errorf("created_at %q: %w", created, err))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	return records, nil
}

// Delete removes the document stored under id, which may be a unique prefix.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.checkWritable("delete"); err != nil {
		return err
	}
	start := timeNow()
	id, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return errors.NewIO("delete", s.path, err)
	}
	logging.StoreOperation(ctx, "delete", id, timeNow().Sub(start))
	return nil
}

// Search returns every interval or point whose label contains query,
// ordered by document, tier and time.
func (s *Store) Search(ctx context.Context, query string) ([]Match, error) {
	if query == "" {
		return nil, errors.NewValidation("query", "search text cannot be empty")
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, t.name, t.kind, i.xmin, i.xmax, i.text, t.position
		FROM intervals i
		JOIN tiers t ON t.document_id = i.document_id AND t.position = i.tier_position
		JOIN documents d ON d.id = i.document_id
		WHERE i.text LIKE ? ESCAPE '\'
		UNION ALL
		SELECT d.id, d.name, t.name, t.kind, p.number, p.number, p.mark, t.position
		FROM points p
		JOIN tiers t ON t.document_id = p.document_id AND t.position = p.tier_position
		JOIN documents d ON d.id = p.document_id
		WHERE p.mark LIKE ? ESCAPE '\'
		ORDER BY 2, 1, 8, 5`, pattern, pattern)
	if err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var class string
		var tierPos int
		if err := rows.Scan(&m.DocumentID, &m.Document, &m.Tier, &class, &m.XMin, &m.XMax, &m.Label, &tierPos); err != nil {
			return nil, errors.NewIO("scan", s.path, err)
		}
		m.Kind, _ = textgrid.ParseTierKind(class)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", s.path, err)
	}
	return matches, nil
}

// resolveID expands a unique ID prefix to the full ID.
func (s *Store) resolveID(ctx context.Context, id string) (string, error) {
	if len(id) < minPrefix {
		return "", errors.NewValidation("id", fmt.Sprintf("need at least %d characters", minPrefix))
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM documents WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		id, escapeLike(id)+"%")
	if err != nil {
		return "", errors.NewIO("query", s.path, err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var full string
		if err := rows.Scan(&full); err != nil {
			return "", errors.NewIO("scan", s.path, err)
		}
		if full == id {
			return full, nil
		}
		found = append(found, full)
	}
	if err := rows.Err(); err != nil {
		return "", errors.NewIO("query", s.path, err)
	}
	switch len(found) {
	case 0:
		return "", errors.NewNotFound("document", id)
	case 1:
		return found[0], nil
	default:
		return "", errors.NewValidation("id", fmt.Sprintf("prefix %q is ambiguous", id))
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
