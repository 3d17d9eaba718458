package academics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classlog/core"
)

// Weekday names as stored on Class records (lowercase Spanish).
var (
	weekdayNames = [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

	// accept unaccented input for the accented day names
	weekdayAliases = map[string]string{
		"miercoles": "miércoles",
		"sabado":    "sábado",
	}
)

// WeekdayName returns the canonical day name for t's weekday.
func WeekdayName(t time.Time) string {
	return weekdayNames[int(t.Weekday())]
}

// NormalizeWeekday lowers s and maps unaccented variants to the
// canonical names. The empty string is returned for unknown days.
func NormalizeWeekday(s string) string {
	s = core.CleanString(s, true /* lower */)
	if canonical, ok := weekdayAliases[s]; ok {
		s = canonical
	}
	for _, name := range weekdayNames {
		if s == name {
			return s
		}
	}
	return ""
}

// ParseClockMinutes converts a wall-clock time ("HH:MM" or "HH:MM:SS")
// to minutes since midnight.
func ParseClockMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 3)
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	return h*60 + m, nil
}

// FormatClock truncates a stored time value to "HH:MM".
func FormatClock(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}

type Program struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
}

type Group struct {
	ID        int    `json:"id"`
	Name      string `json:"nombre"`
	ProgramID *int   `json:"programa_id"`
}

type Room struct {
	ID       int    `json:"id"`
	Name     string `json:"nombre"`
	Capacity int    `json:"capacidad"`
	Location string `json:"ubicacion,omitempty"`
}

type Teacher struct {
	ID         int    `json:"id"`
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Document   string `json:"documento"`
	Email      string `json:"email"`
	UserID     *int   `json:"usuario_id"`
	Specialty  string `json:"especialidad,omitempty"`
	Department string `json:"departamento,omitempty"`
	Phone      string `json:"telefono,omitempty"`
	Address    string `json:"direccion,omitempty"`
}

func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Student is keyed by its document number.
type Student struct {
	Document   string `json:"documento"`
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"email"`
	IsActive   *bool  `json:"estado"`
	GroupIDs   []int  `json:"grupos,omitempty"`
	ProgramIDs []int  `json:"programas,omitempty"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Class is a weekly schedule slot owned by a teacher and a group.
// StartTime/EndTime are wall-clock "HH:MM" values; either may be absent,
// in which case no attendance window can be computed for the class.
type Class struct {
	ID        int     `json:"id"`
	Name      string  `json:"nombre"`
	Semester  string  `json:"semestre,omitempty"`
	GroupID   *int    `json:"grupo_id"`
	TeacherID *int    `json:"profesor_id"`
	RoomID    *int    `json:"salon_id"`
	Weekday   string  `json:"dia_semana"`
	StartTime *string `json:"hora_inicio"`
	EndTime   *string `json:"hora_fin"`
}

// Inputs

type NewStudent struct {
	Document  string `json:"documento" validate:"required"`
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Document = core.CleanString(ns.Document)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}

type UpdateStudent struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email" validate:"omitempty,email"`
	IsActive  *bool  `json:"estado"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.FirstName = core.CleanString(us.FirstName)
	us.LastName = core.CleanString(us.LastName)
	us.Email = core.CleanString(us.Email, true /* lower */)
	return validate.Struct(us)
}

type NewTeacher struct {
	Document   string `json:"documento" validate:"required"`
	FirstName  string `json:"nombre" validate:"required"`
	LastName   string `json:"apellido" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Specialty  string `json:"especialidad"`
	Department string `json:"departamento"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Document = core.CleanString(nt.Document)
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	return validate.Struct(nt)
}

type UpdateTeacher struct {
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"email" validate:"omitempty,email"`
	Specialty  string `json:"especialidad"`
	Department string `json:"departamento"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate) error {
	ut.FirstName = core.CleanString(ut.FirstName)
	ut.LastName = core.CleanString(ut.LastName)
	ut.Email = core.CleanString(ut.Email, true /* lower */)
	return validate.Struct(ut)
}

type NewClass struct {
	Name      string  `json:"nombre" validate:"required"`
	Semester  string  `json:"semestre"`
	GroupID   *int    `json:"grupo_id"`
	TeacherID *int    `json:"profesor_id"`
	RoomID    *int    `json:"salon_id"`
	Weekday   string  `json:"dia_semana" validate:"required"`
	StartTime *string `json:"hora_inicio" validate:"omitempty,timehhmm"`
	EndTime   *string `json:"hora_fin" validate:"omitempty,timehhmm"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Weekday = NormalizeWeekday(nc.Weekday)
	if nc.Weekday == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "dia_semana", Error: "día de la semana inválido"})
	}
	if err := validate.Struct(nc); err != nil {
		return err
	}
	return validateTimeRange(nc.StartTime, nc.EndTime)
}

type UpdateClass struct {
	Name      string  `json:"nombre"`
	Semester  string  `json:"semestre"`
	GroupID   *int    `json:"grupo_id"`
	TeacherID *int    `json:"profesor_id"`
	RoomID    *int    `json:"salon_id"`
	Weekday   string  `json:"dia_semana"`
	StartTime *string `json:"hora_inicio" validate:"omitempty,timehhmm"`
	EndTime   *string `json:"hora_fin" validate:"omitempty,timehhmm"`
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	if uc.Weekday != "" {
		uc.Weekday = NormalizeWeekday(uc.Weekday)
		if uc.Weekday == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "dia_semana", Error: "día de la semana inválido"})
		}
	}
	if err := validate.Struct(uc); err != nil {
		return err
	}
	return validateTimeRange(uc.StartTime, uc.EndTime)
}

// validateTimeRange rejects inverted windows when both ends are provided.
func validateTimeRange(start, end *string) error {
	if start == nil || end == nil {
		return nil
	}
	startMin, err := ParseClockMinutes(*start)
	if err != nil {
		return nil // caught by the timehhmm tag
	}
	endMin, err := ParseClockMinutes(*end)
	if err != nil {
		return nil
	}
	if startMin >= endMin {
		return core.NewValidationError(ErrInvalidTimeRange,
			core.FieldError{Field: "hora_fin", Error: ErrInvalidTimeRange.Error()})
	}
	return nil
}

type NewGroup struct {
	Name      string `json:"nombre" validate:"required"`
	ProgramID *int   `json:"programa_id"`
}

func (ng *NewGroup) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	return validate.Struct(ng)
}

type NewProgram struct {
	Name        string `json:"nombre" validate:"required"`
	Description string `json:"descripcion"`
}

func (np *NewProgram) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Description = core.CleanString(np.Description)
	return validate.Struct(np)
}

type NewRoom struct {
	Name     string `json:"nombre" validate:"required"`
	Capacity int    `json:"capacidad" validate:"omitempty,min=1"`
	Location string `json:"ubicacion"`
}

func (nr *NewRoom) Validate(validate *validator.Validate) error {
	nr.Name = core.CleanString(nr.Name)
	nr.Location = core.CleanString(nr.Location)
	return validate.Struct(nr)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
