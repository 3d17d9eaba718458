package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/user"
)

var (
	// errors
	ErrRecordNotFound        = errors.New("registro de asistencia no encontrado")
	ErrForbidden             = errors.New("no autorizado para tomar asistencia")
	ErrTeacherNotProvisioned = errors.New("el usuario no tiene un perfil de profesor")
)

type (
	Repository interface {
		// UpsertRecord inserts the record, or updates the present flag
		// in place when a row already exists for the same
		// (class, student, date) key.
		UpsertRecord(ctx context.Context, rec Record) (Record, error)
		FilterRecords(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Record, int, error)
		GetRecordByID(ctx context.Context, id int) (Record, error)
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
		DeleteRecord(ctx context.Context, id int) error
		// QueryByClassAndDate returns records in insertion order, with
		// StudentName resolved where the student row still exists.
		QueryByClassAndDate(ctx context.Context, classID int, date string) ([]Record, error)
		QueryByStudent(ctx context.Context, document string) ([]Record, error)
		// DailyCounts aggregates per-date totals for the most recent
		// days, newest first.
		DailyCounts(ctx context.Context, days int) ([]DailyCount, error)
	}

	ServiceInterface interface {
		Upsert(ctx context.Context, nr NewRecord) (Record, error)
		Filter(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Record, int, error)
		Get(ctx context.Context, id int) (Record, error)
		Update(ctx context.Context, id int, ur UpdateRecord) (Record, error)
		Delete(ctx context.Context, id int) error
		ClassRecords(ctx context.Context, classID int, date string) ([]Record, error)
		StudentHistory(ctx context.Context, document string) ([]Record, error)
		ClassSummary(ctx context.Context, classID int, date string) (Summary, error)
		EligibleClasses(ctx context.Context, ident user.Identity, now time.Time) ([]ClassEligibility, error)
		DailyCounts(ctx context.Context, days int) ([]DailyCount, error)
	}

	Service struct {
		repo    Repository
		acaRepo academics.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, acaRepo academics.Repository) *Service {
	return &Service{repo: repo, acaRepo: acaRepo}
}

// Upsert records a student's presence for a class on a date. Posting
// the same (class, student, date) again overwrites the present flag
// instead of failing on the unique key.
func (svc *Service) Upsert(ctx context.Context, nr NewRecord) (Record, error) {
	if _, err := svc.acaRepo.GetClassByID(ctx, nr.ClassID); err != nil {
		return Record{}, err
	}
	if _, err := svc.acaRepo.GetStudentByDocument(ctx, nr.StudentDocument); err != nil {
		return Record{}, err
	}
	rec := Record{
		ClassID:         nr.ClassID,
		StudentDocument: nr.StudentDocument,
		Date:            nr.Date,
	}
	if nr.Present != nil {
		rec.Present = *nr.Present
	}
	return svc.repo.UpsertRecord(ctx, rec)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Record, int, error) {
	filter.Clean()
	return svc.repo.FilterRecords(ctx, filter, page)
}

func (svc *Service) Get(ctx context.Context, id int) (Record, error) {
	return svc.repo.GetRecordByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ur UpdateRecord) (Record, error) {
	rec, err := svc.repo.GetRecordByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if ur.Present != nil {
		rec.Present = *ur.Present
	}
	return svc.repo.UpdateRecord(ctx, rec)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteRecord(ctx, id)
}

func (svc *Service) ClassRecords(ctx context.Context, classID int, date string) ([]Record, error) {
	if _, err := svc.acaRepo.GetClassByID(ctx, classID); err != nil {
		return nil, err
	}
	return svc.repo.QueryByClassAndDate(ctx, classID, date)
}

func (svc *Service) StudentHistory(ctx context.Context, document string) ([]Record, error) {
	if _, err := svc.acaRepo.GetStudentByDocument(ctx, document); err != nil {
		return nil, err
	}
	return svc.repo.QueryByStudent(ctx, document)
}

// ClassSummary aggregates a class-date's records, collapsing any
// duplicate rows for the same student before counting.
func (svc *Service) ClassSummary(ctx context.Context, classID int, date string) (Summary, error) {
	records, err := svc.ClassRecords(ctx, classID, date)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(DedupeByStudent(records)), nil
}

func (svc *Service) DailyCounts(ctx context.Context, days int) ([]DailyCount, error) {
	if days <= 0 {
		days = 7
	}
	return svc.repo.DailyCounts(ctx, days)
}
