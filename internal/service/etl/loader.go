package etl

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/care-services/api-bi/internal/models"
)

type TableKind string

const (
	KindDimension TableKind = "dimension"
	KindFact      TableKind = "fact"
)

// ColumnMapping fills one warehouse column, either copied from Source or
// produced by Derive.
type ColumnMapping struct {
	Target string
	Source string
	Derive func(Row, *Generator) any
}

// TableMapping describes how one warehouse table is rebuilt from the source.
type TableMapping struct {
	Name      string
	Kind      TableKind
	Model     models.Tabler
	Source    models.Tabler
	Query     string
	KeyColumn string
	KeyLabel  string
	Columns   []ColumnMapping
}

func (m TableMapping) Table() string {
	return m.Model.TableName()
}

func (m TableMapping) insertSQL() string {
	targets := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		targets[i] = c.Target
	}
	return insertStatement(m.Table(), targets)
}

func (m TableMapping) values(row Row, gen *Generator) []any {
	out := make([]any, len(m.Columns))
	for i, c := range m.Columns {
		if c.Derive != nil {
			out[i] = c.Derive(row, gen)
			continue
		}
		out[i] = row[c.Source]
	}
	return out
}

// Generator supplies the values the loaders fabricate.
type Generator struct {
	Now func() time.Time

	mu   sync.Mutex
	rand *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{Now: time.Now, rand: rand.New(rand.NewSource(seed))}
}

// BaseSalary draws uniformly from {100, 200, ..., 1000}.
func (g *Generator) BaseSalary() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return (g.rand.Intn(10) + 1) * 100
}

// load copies every row of m.Query into m's table, one INSERT per row.
func load(ctx context.Context, src SourceReader, wh WarehouseWriter, m TableMapping, gen *Generator, log *RunLog) (int, error) {
	log.Linef("Loading %s...", m.Name)

	rows, err := src.Query(ctx, m.Query)
	if err != nil {
		return 0, errors.Wrapf(err, "leer origen de %s", m.Name)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, errors.Wrapf(err, "columnas de %s", m.Name)
	}

	stmt := m.insertSQL()
	n := 0
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return n, errors.Wrapf(err, "leer fila de %s", m.Name)
		}
		if err := wh.Exec(ctx, stmt, m.values(row, gen)...); err != nil {
			return n, errors.Wrapf(err, "insertar en %s (%s %v)", m.Name, m.KeyLabel, row[m.KeyColumn])
		}
		n++
		log.Linef("Inserted %s %v", m.KeyLabel, row[m.KeyColumn])
	}
	if err := rows.Err(); err != nil {
		return n, errors.Wrapf(err, "recorrer origen de %s", m.Name)
	}

	log.Linef("%s loaded successfully (%d rows).", m.Name, n)
	return n, nil
}
