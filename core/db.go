package core

import (
	"context"
	"database/sql"
)

type (
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		Begin() (*sql.Tx, error)
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Pagination carries the standard `pagina`/`limite` query params.
// All bypasses pagination entirely.
type Pagination struct {
	Page  int  `query:"pagina"`
	Limit int  `query:"limite"`
	All   bool `query:"all"`
}

func (p *Pagination) Clean() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the page count for a given total row count.
func (p Pagination) TotalPages(total int) int {
	if p.All || p.Limit < 1 {
		return 1
	}
	pages := total / p.Limit
	if total%p.Limit != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}
