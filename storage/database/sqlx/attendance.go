package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

type recordRow struct {
	ID              int         `db:"id"`
	ClassID         int         `db:"clase_id"`
	StudentDocument string      `db:"estudiante_id"`
	Date            string      `db:"fecha"`
	Present         bool        `db:"presente"`
	StudentName     null.String `db:"estudiante"`
}

func (r recordRow) toModel() attendance.Record {
	return attendance.Record{
		ID:              r.ID,
		ClassID:         r.ClassID,
		StudentDocument: r.StudentDocument,
		Date:            formatDate(r.Date),
		Present:         r.Present,
		StudentName:     r.StudentName.String,
	}
}

// formatDate truncates driver date values ("2006-01-02T00:00:00Z") to
// the wire layout.
func formatDate(date string) string {
	if len(date) > len(attendance.DateLayout) {
		return date[:len(attendance.DateLayout)]
	}
	return date
}

const recordSelect = `
	SELECT a.id, a.clase_id, a.estudiante_id, to_char(a.fecha, 'YYYY-MM-DD') AS fecha, a.presente,
	       trim(concat(e.nombre, ' ', e.apellido)) AS estudiante
	FROM asistencia a
	LEFT JOIN estudiante e ON e.documento = a.estudiante_id`

func (repo *attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	err := repo.db.QueryRowxContext(ctx,
		`INSERT INTO asistencia (clase_id, estudiante_id, fecha, presente)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (clase_id, estudiante_id, fecha) DO UPDATE SET presente = EXCLUDED.presente
		 RETURNING id`,
		rec.ClassID, rec.StudentDocument, rec.Date, rec.Present,
	).Scan(&rec.ID)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}
	return repo.GetRecordByID(ctx, rec.ID)
}

func (repo *attendanceRepository) FilterRecords(ctx context.Context, filter attendance.QueryFilter, page core.Pagination) ([]attendance.Record, int, error) {
	where, args := "", []interface{}{}
	addCond := func(cond string, arg interface{}) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
		args = append(args, arg)
	}
	if filter.ClassID != 0 {
		addCond("a.clase_id = ?", filter.ClassID)
	}
	if filter.StudentDocument != "" {
		addCond("a.estudiante_id = ?", filter.StudentDocument)
	}
	if filter.Date != "" {
		addCond("a.fecha = ?", filter.Date)
	}

	var total int
	if err := repo.db.GetContext(ctx, &total,
		repo.db.Rebind("SELECT COUNT(*) FROM asistencia a"+where), args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting attendance records")
	}

	query := recordSelect + where + " ORDER BY a.id"
	if !page.All {
		page.Clean()
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset())
	}

	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying attendance records")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records, total, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, id int) (attendance.Record, error) {
	var row recordRow
	if err := repo.db.GetContext(ctx, &row, recordSelect+" WHERE a.id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "getting attendance record")
	}
	return row.toModel(), nil
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	res, err := repo.db.ExecContext(ctx, "UPDATE asistencia SET presente = $1 WHERE id = $2", rec.Present, rec.ID)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return repo.GetRecordByID(ctx, rec.ID)
}

func (repo *attendanceRepository) DeleteRecord(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM asistencia WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

func (repo *attendanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records, nil
}

func (repo *attendanceRepository) QueryByClassAndDate(ctx context.Context, classID int, date string) ([]attendance.Record, error) {
	return repo.queryRecords(ctx, recordSelect+" WHERE a.clase_id = $1 AND a.fecha = $2 ORDER BY a.id", classID, date)
}

func (repo *attendanceRepository) QueryByStudent(ctx context.Context, document string) ([]attendance.Record, error) {
	return repo.queryRecords(ctx, recordSelect+" WHERE a.estudiante_id = $1 ORDER BY a.fecha DESC, a.id", document)
}

func (repo *attendanceRepository) DailyCounts(ctx context.Context, days int) ([]attendance.DailyCount, error) {
	var counts []attendance.DailyCount
	rows, err := repo.db.QueryxContext(ctx,
		`SELECT to_char(fecha, 'YYYY-MM-DD') AS fecha,
		        COUNT(*) FILTER (WHERE presente) AS presentes,
		        COUNT(*) FILTER (WHERE NOT presente) AS ausentes,
		        COUNT(*) AS total
		 FROM asistencia
		 WHERE fecha >= CURRENT_DATE - $1::int
		 GROUP BY fecha
		 ORDER BY fecha DESC`, days)
	if err != nil {
		return nil, errors.Wrap(err, "querying daily counts")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var dc attendance.DailyCount
		if err = rows.Scan(&dc.Date, &dc.Present, &dc.Absent, &dc.Total); err != nil {
			return nil, errors.Wrap(err, "scanning daily count")
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}
