package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
)

// DateLayout is the wire and storage format for attendance dates.
const DateLayout = "2006-01-02"

// Record marks a student present or absent for one class on one date.
// At most one row exists per (class, student, date).
type Record struct {
	ID              int    `json:"id"`
	ClassID         int    `json:"clase_id"`
	StudentDocument string `json:"estudiante_id"`
	Date            string `json:"fecha"`
	Present         bool   `json:"presente"`
	// StudentName is resolved from the student relation when queried;
	// empty when the student row no longer exists.
	StudentName string `json:"estudiante,omitempty"`
}

// ClassEligibility tells whether a class can have attendance taken
// right now. Window bounds are "HH:MM"; both empty when the class has
// no complete schedule.
type ClassEligibility struct {
	Class       academics.Class `json:"clase"`
	EligibleNow bool            `json:"elegible"`
	WindowStart string          `json:"ventana_inicio,omitempty"`
	WindowEnd   string          `json:"ventana_fin,omitempty"`
}

type StudentSummary struct {
	Document string `json:"documento"`
	Name     string `json:"nombre"`
	Present  bool   `json:"presente"`
}

// Summary aggregates one class-date's records; Present+Absent == Total.
type Summary struct {
	Total      int              `json:"total"`
	Present    int              `json:"presentes"`
	Absent     int              `json:"ausentes"`
	PerStudent []StudentSummary `json:"estudiantes"`
}

// DailyCount is a dashboard aggregate of records per date.
type DailyCount struct {
	Date    string `json:"fecha"`
	Present int    `json:"presentes"`
	Absent  int    `json:"ausentes"`
	Total   int    `json:"total"`
}

// Inputs

type NewRecord struct {
	ClassID         int    `json:"clase_id" validate:"required"`
	StudentDocument string `json:"estudiante_id" validate:"required"`
	Date            string `json:"fecha" validate:"required"`
	Present         *bool  `json:"presente"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.StudentDocument = core.CleanString(nr.StudentDocument)
	nr.Date = core.CleanString(nr.Date)
	if err := validate.Struct(nr); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, nr.Date); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "fecha", Error: "fecha inválida, formato esperado AAAA-MM-DD"})
	}
	return nil
}

type UpdateRecord struct {
	Present *bool `json:"presente" validate:"required"`
}

func (ur *UpdateRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(ur)
}

type QueryFilter struct {
	ClassID         int    `query:"clase_id"`
	StudentDocument string `query:"estudiante_id"`
	Date            string `query:"fecha"`
}

func (qf *QueryFilter) Clean() {
	qf.StudentDocument = core.CleanString(qf.StudentDocument)
	qf.Date = core.CleanString(qf.Date)
}
