package fixture

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists fixture records in sqlite. Records are schemaless JSON
// documents keyed by (collection, id); the fixture backend doesn't care about
// entity shape any more than the console does.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the fixture database. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open fixture db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			doc        TEXT NOT NULL,
			seq        INTEGER,
			PRIMARY KEY (collection, id)
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create fixture schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert stores a new document, assigning an id when the caller didn't.
func (s *Store) Insert(collection string, doc map[string]any) (map[string]any, error) {
	out := cloneDoc(doc)
	id, _ := out["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
		out["id"] = id
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode doc: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO records (collection, id, doc, seq)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq),0)+1 FROM records WHERE collection = ?))`,
		collection, id, string(b), collection)
	if err != nil {
		return nil, fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return out, nil
}

// Update merges the given fields into an existing document.
func (s *Store) Update(collection, id string, doc map[string]any) (map[string]any, bool, error) {
	cur, ok, err := s.Get(collection, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	for k, v := range doc {
		if k == "id" {
			continue
		}
		cur[k] = v
	}
	b, err := json.Marshal(cur)
	if err != nil {
		return nil, false, fmt.Errorf("encode doc: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE records SET doc = ? WHERE collection = ? AND id = ?`,
		string(b), collection, id); err != nil {
		return nil, false, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return cur, true, nil
}

func (s *Store) Delete(collection, id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) Get(collection, id string) (map[string]any, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT doc FROM records WHERE collection = ? AND id = ?`,
		collection, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, true, nil
}

// ListQuery mirrors the request parameters the console sends.
type ListQuery struct {
	Page    int
	Limit   int
	Sort    string // "field" or "field:desc"
	Filters map[string]string
}

// List returns one page of a collection plus the total match count.
// Filtering and sorting run in memory; fixture collections are small by
// construction.
func (s *Store) List(collection string, q ListQuery) ([]map[string]any, int, error) {
	rows, err := s.db.Query(`SELECT doc FROM records WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", collection, err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		if matches(doc, q.Filters) {
			docs = append(docs, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", collection, err)
	}

	sortDocs(docs, q.Sort)

	total := len(docs)
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return []map[string]any{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return docs[start:end], total, nil
}

// matches applies filters: "q" searches all string fields, any other key
// must equal the field's string rendering.
func matches(doc map[string]any, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		if key == "q" {
			if !searchDoc(doc, want) {
				return false
			}
			continue
		}
		if fieldString(doc[key]) != want {
			return false
		}
	}
	return true
}

func searchDoc(doc map[string]any, needle string) bool {
	needle = strings.ToLower(needle)
	for _, v := range doc {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func fieldString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%.2f", s), ".00")
	default:
		return fmt.Sprintf("%v", s)
	}
}

func sortDocs(docs []map[string]any, spec string) {
	field, rest, _ := strings.Cut(strings.TrimSpace(spec), ":")
	if field == "" {
		return
	}
	desc := strings.EqualFold(rest, "desc")
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i][field], docs[j][field]
		// Numeric fields compare numerically, everything else as strings.
		af, aok := a.(float64)
		bf, bok := b.(float64)
		var less bool
		if aok && bok {
			less = af < bf
		} else {
			less = fieldString(a) < fieldString(b)
		}
		if desc {
			return !less
		}
		return less
	})
}

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
