package etl

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// WarehouseWriter issues per-row statements against the star schema.
type WarehouseWriter struct {
	db *gorm.DB
}

func NewWarehouseWriter(db *gorm.DB) WarehouseWriter {
	return WarehouseWriter{db: db}
}

func (w WarehouseWriter) Exec(ctx context.Context, stmt string, values ...any) error {
	return w.db.WithContext(ctx).Exec(stmt, values...).Error
}

// DeleteAll empties table and returns the number of rows removed.
func (w WarehouseWriter) DeleteAll(ctx context.Context, table string) (int64, error) {
	res := w.db.WithContext(ctx).Exec("DELETE FROM " + table)
	return res.RowsAffected, res.Error
}

func (w WarehouseWriter) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := w.db.WithContext(ctx).Table(table).Count(&n).Error
	return n, err
}

func insertStatement(table string, columns []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), marks)
}
