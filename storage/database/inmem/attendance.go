package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) resolveName(rec attendance.Record) attendance.Record {
	if std, ok := repo.db.students[rec.StudentDocument]; ok {
		rec.StudentName = std.FullName()
	}
	return rec
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.records {
		if existing.ClassID == rec.ClassID && existing.StudentDocument == rec.StudentDocument && existing.Date == rec.Date {
			existing.Present = rec.Present
			return repo.resolveName(*existing), nil
		}
	}

	repo.db.recordSeq++
	rec.ID = repo.db.recordSeq
	repo.db.records[rec.ID] = &rec
	repo.db.recordOrder = append(repo.db.recordOrder, rec.ID)
	return repo.resolveName(rec), nil
}

func (repo *attendanceRepository) FilterRecords(_ context.Context, filter attendance.QueryFilter, page core.Pagination) ([]attendance.Record, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var records []attendance.Record
	for _, id := range repo.db.recordOrder {
		rec, ok := repo.db.records[id]
		if !ok {
			continue
		}
		if filter.ClassID != 0 && rec.ClassID != filter.ClassID {
			continue
		}
		if filter.StudentDocument != "" && rec.StudentDocument != filter.StudentDocument {
			continue
		}
		if filter.Date != "" && rec.Date != filter.Date {
			continue
		}
		records = append(records, repo.resolveName(*rec))
	}

	total := len(records)
	lo, hi := paginate(total, page)
	return records[lo:hi], total, nil
}

func (repo *attendanceRepository) GetRecordByID(_ context.Context, id int) (attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.records[id]; ok {
		return repo.resolveName(*rec), nil
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (repo *attendanceRepository) UpdateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.records[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	orig.Present = rec.Present
	return repo.resolveName(*orig), nil
}

func (repo *attendanceRepository) DeleteRecord(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.records[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	delete(repo.db.records, id)
	return nil
}

func (repo *attendanceRepository) QueryByClassAndDate(_ context.Context, classID int, date string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var records []attendance.Record
	for _, id := range repo.db.recordOrder {
		rec, ok := repo.db.records[id]
		if !ok {
			continue
		}
		if rec.ClassID == classID && rec.Date == date {
			records = append(records, repo.resolveName(*rec))
		}
	}
	return records, nil
}

func (repo *attendanceRepository) QueryByStudent(_ context.Context, document string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var records []attendance.Record
	for _, id := range repo.db.recordOrder {
		rec, ok := repo.db.records[id]
		if !ok {
			continue
		}
		if rec.StudentDocument == document {
			records = append(records, repo.resolveName(*rec))
		}
	}
	return records, nil
}

func (repo *attendanceRepository) DailyCounts(_ context.Context, days int) ([]attendance.DailyCount, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -days).Format(attendance.DateLayout)
	byDate := make(map[string]*attendance.DailyCount)
	for _, rec := range repo.db.records {
		if rec.Date < cutoff {
			continue
		}
		count, ok := byDate[rec.Date]
		if !ok {
			count = &attendance.DailyCount{Date: rec.Date}
			byDate[rec.Date] = count
		}
		count.Total++
		if rec.Present {
			count.Present++
		} else {
			count.Absent++
		}
	}

	out := make([]attendance.DailyCount, 0, len(byDate))
	for _, count := range byDate {
		out = append(out, *count)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}
