package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key holding the active *gorm.DB transaction
const txKey ctxKey = "gorm_tx"

// withTx stores tx in the context so repositories join it
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// conn returns the transaction carried by ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// InTransaction reports whether ctx carries an open transaction
func InTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	return ok && tx != nil
}

// ActiveScope filters soft-deleted rows out of a query on table
func ActiveScope(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".is_active = ?", true)
	}
}

// likeClause is a case-insensitive substring predicate for column
func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
}

// anyLike ORs likeClause over columns; bind the pattern once per column
func anyLike(columns ...string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = likeClause(c)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
