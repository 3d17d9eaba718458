package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
)

type academicsRepository struct {
	db *sqlx.DB
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *sqlx.DB) academics.Repository {
	return &academicsRepository{db: db}
}

func nullIntPtr(n null.Int) *int {
	if !n.Valid {
		return nil
	}
	id := n.Int
	return &id
}

func intPtrNull(p *int) null.Int {
	if p == nil {
		return null.Int{}
	}
	return null.IntFrom(*p)
}

// students

type studentRow struct {
	Document  string `db:"documento"`
	FirstName string `db:"nombre"`
	LastName  string `db:"apellido"`
	Email     string `db:"email"`
	IsActive  bool   `db:"activo"`
}

func (r studentRow) toModel() academics.Student {
	active := r.IsActive
	return academics.Student{
		Document:  r.Document,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		IsActive:  &active,
	}
}

const studentColumns = "documento, nombre, apellido, email, activo"

func (repo *academicsRepository) CheckStudentUniqueness(ctx context.Context, document, email string, excluded ...academics.Student) error {
	exclDocs := make([]string, 0, len(excluded))
	for _, std := range excluded {
		exclDocs = append(exclDocs, std.Document)
	}
	if len(exclDocs) == 0 {
		exclDocs = append(exclDocs, "")
	}

	query, args, err := sqlx.In(
		"SELECT documento, email FROM estudiante WHERE (documento = ? OR lower(email) = lower(?)) AND documento NOT IN (?)",
		document, email, exclDocs,
	)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var rows []struct {
		Document string `db:"documento"`
		Email    string `db:"email"`
	}
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	for _, row := range rows {
		if document != "" && row.Document == document {
			return academics.ErrStudentDocExists
		}
		if email != "" && strings.EqualFold(row.Email, email) {
			return academics.ErrStudentEmailExists
		}
	}
	return nil
}

func (repo *academicsRepository) CreateStudent(ctx context.Context, std academics.Student) (academics.Student, error) {
	active := std.IsActive == nil || *std.IsActive
	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO estudiante (documento, nombre, apellido, email, activo) VALUES ($1, $2, $3, $4, $5)",
		std.Document, std.FirstName, std.LastName, std.Email, active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return academics.Student{}, academics.ErrStudentDocExists
		}
		return academics.Student{}, errors.Wrap(err, "creating student")
	}
	std.IsActive = &active
	return std, nil
}

func (repo *academicsRepository) FilterStudents(ctx context.Context, filter academics.QueryFilter, page core.Pagination) ([]academics.Student, int, error) {
	where, args := "", []interface{}{}
	if filter.Search != "" {
		where = " WHERE (nombre ILIKE ? OR apellido ILIKE ? OR documento LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, repo.db.Rebind("SELECT COUNT(*) FROM estudiante"+where), args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}

	query := "SELECT " + studentColumns + " FROM estudiante" + where + " ORDER BY documento"
	if !page.All {
		page.Clean()
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset())
	}

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying students")
	}
	students := make([]academics.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toModel())
	}
	return students, total, nil
}

func (repo *academicsRepository) GetStudentByDocument(ctx context.Context, document string) (academics.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+studentColumns+" FROM estudiante WHERE documento = $1", document); err != nil {
		if err == sql.ErrNoRows {
			return academics.Student{}, academics.ErrStudentNotFound
		}
		return academics.Student{}, errors.Wrap(err, "getting student")
	}
	std := row.toModel()

	if err := repo.db.SelectContext(ctx, &std.GroupIDs,
		"SELECT grupo_id FROM estudiante_grupo WHERE estudiante_id = $1 ORDER BY grupo_id", document); err != nil {
		return academics.Student{}, errors.Wrap(err, "loading student groups")
	}
	if err := repo.db.SelectContext(ctx, &std.ProgramIDs,
		"SELECT programa_id FROM estudiante_programa WHERE estudiante_id = $1 ORDER BY programa_id", document); err != nil {
		return academics.Student{}, errors.Wrap(err, "loading student programs")
	}
	return std, nil
}

func (repo *academicsRepository) UpdateStudent(ctx context.Context, std academics.Student, isActive *bool) (academics.Student, error) {
	orig, err := repo.GetStudentByDocument(ctx, std.Document)
	if err != nil {
		return academics.Student{}, err
	}
	if std.FirstName == "" {
		std.FirstName = orig.FirstName
	}
	if std.LastName == "" {
		std.LastName = orig.LastName
	}
	if std.Email == "" {
		std.Email = orig.Email
	}
	if isActive == nil {
		isActive = orig.IsActive
	}
	if _, err = repo.db.ExecContext(ctx,
		"UPDATE estudiante SET nombre = $1, apellido = $2, email = $3, activo = $4 WHERE documento = $5",
		std.FirstName, std.LastName, std.Email, isActive, std.Document,
	); err != nil {
		if isUniqueViolation(err) {
			return academics.Student{}, academics.ErrStudentEmailExists
		}
		return academics.Student{}, errors.Wrap(err, "updating student")
	}
	return repo.GetStudentByDocument(ctx, std.Document)
}

func (repo *academicsRepository) DeleteStudent(ctx context.Context, document string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM estudiante WHERE documento = $1", document)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrStudentNotFound
	}
	return nil
}

func (repo *academicsRepository) CountActiveStudents(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM estudiante WHERE activo"); err != nil {
		return 0, errors.Wrap(err, "counting students")
	}
	return count, nil
}

func (repo *academicsRepository) AddStudentGroup(ctx context.Context, document string, groupID int) error {
	if _, err := repo.db.ExecContext(ctx,
		"INSERT INTO estudiante_grupo (estudiante_id, grupo_id) VALUES ($1, $2)", document, groupID,
	); err != nil {
		if isUniqueViolation(err) {
			return academics.ErrMembershipExists
		}
		return errors.Wrap(err, "adding group membership")
	}
	return nil
}

func (repo *academicsRepository) RemoveStudentGroup(ctx context.Context, document string, groupID int) error {
	res, err := repo.db.ExecContext(ctx,
		"DELETE FROM estudiante_grupo WHERE estudiante_id = $1 AND grupo_id = $2", document, groupID)
	if err != nil {
		return errors.Wrap(err, "removing group membership")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrMembershipNotFound
	}
	return nil
}

func (repo *academicsRepository) AddStudentProgram(ctx context.Context, document string, programID int) error {
	if _, err := repo.db.ExecContext(ctx,
		"INSERT INTO estudiante_programa (estudiante_id, programa_id) VALUES ($1, $2)", document, programID,
	); err != nil {
		if isUniqueViolation(err) {
			return academics.ErrMembershipExists
		}
		return errors.Wrap(err, "adding program membership")
	}
	return nil
}

func (repo *academicsRepository) RemoveStudentProgram(ctx context.Context, document string, programID int) error {
	res, err := repo.db.ExecContext(ctx,
		"DELETE FROM estudiante_programa WHERE estudiante_id = $1 AND programa_id = $2", document, programID)
	if err != nil {
		return errors.Wrap(err, "removing program membership")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrMembershipNotFound
	}
	return nil
}

func (repo *academicsRepository) QueryStudentsByGroup(ctx context.Context, groupID int) ([]academics.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT e.documento, e.nombre, e.apellido, e.email, e.activo
		 FROM estudiante e JOIN estudiante_grupo eg ON eg.estudiante_id = e.documento
		 WHERE eg.grupo_id = $1 ORDER BY e.documento`, groupID,
	); err != nil {
		return nil, errors.Wrap(err, "querying group students")
	}
	students := make([]academics.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toModel())
	}
	return students, nil
}

// teachers

type teacherRow struct {
	ID         int      `db:"id"`
	Document   string   `db:"documento"`
	FirstName  string   `db:"nombre"`
	LastName   string   `db:"apellido"`
	Email      string   `db:"email"`
	UserID     null.Int `db:"usuario_id"`
	Specialty  string   `db:"especialidad"`
	Department string   `db:"departamento"`
	Phone      string   `db:"telefono"`
	Address    string   `db:"direccion"`
}

func (r teacherRow) toModel() academics.Teacher {
	return academics.Teacher{
		ID:         r.ID,
		Document:   r.Document,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		UserID:     nullIntPtr(r.UserID),
		Specialty:  r.Specialty,
		Department: r.Department,
		Phone:      r.Phone,
		Address:    r.Address,
	}
}

const teacherColumns = "id, documento, nombre, apellido, email, usuario_id, especialidad, departamento, telefono, direccion"

func (repo *academicsRepository) CheckTeacherUniqueness(ctx context.Context, document, email string, excluded ...academics.Teacher) error {
	exclIDs := make([]int, 0, len(excluded))
	for _, tch := range excluded {
		exclIDs = append(exclIDs, tch.ID)
	}
	if len(exclIDs) == 0 {
		exclIDs = append(exclIDs, 0)
	}

	query, args, err := sqlx.In(
		"SELECT documento, email FROM profesor WHERE (documento = ? OR lower(email) = lower(?)) AND id NOT IN (?)",
		document, email, exclIDs,
	)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var rows []struct {
		Document string `db:"documento"`
		Email    string `db:"email"`
	}
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking teacher uniqueness")
	}
	for _, row := range rows {
		if document != "" && row.Document == document {
			return academics.ErrTeacherDocExists
		}
		if email != "" && strings.EqualFold(row.Email, email) {
			return academics.ErrTeacherEmailExists
		}
	}
	return nil
}

func (repo *academicsRepository) CreateTeacher(ctx context.Context, tch academics.Teacher) (academics.Teacher, error) {
	err := repo.db.QueryRowxContext(ctx,
		`INSERT INTO profesor (documento, nombre, apellido, email, usuario_id, especialidad, departamento, telefono, direccion)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		tch.Document, tch.FirstName, tch.LastName, tch.Email, intPtrNull(tch.UserID),
		tch.Specialty, tch.Department, tch.Phone, tch.Address,
	).Scan(&tch.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return academics.Teacher{}, academics.ErrTeacherDocExists
		}
		return academics.Teacher{}, errors.Wrap(err, "creating teacher")
	}
	return tch, nil
}

func (repo *academicsRepository) FilterTeachers(ctx context.Context, filter academics.QueryFilter, page core.Pagination) ([]academics.Teacher, int, error) {
	where, args := "", []interface{}{}
	if filter.Search != "" {
		where = " WHERE (nombre ILIKE ? OR apellido ILIKE ? OR documento LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, repo.db.Rebind("SELECT COUNT(*) FROM profesor"+where), args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting teachers")
	}

	query := "SELECT " + teacherColumns + " FROM profesor" + where + " ORDER BY id"
	if !page.All {
		page.Clean()
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset())
	}

	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]academics.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toModel())
	}
	return teachers, total, nil
}

func (repo *academicsRepository) GetTeacherByID(ctx context.Context, id int) (academics.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+teacherColumns+" FROM profesor WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Teacher{}, academics.ErrTeacherNotFound
		}
		return academics.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return row.toModel(), nil
}

func (repo *academicsRepository) GetTeacherByUserID(ctx context.Context, userID int) (academics.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+teacherColumns+" FROM profesor WHERE usuario_id = $1", userID); err != nil {
		if err == sql.ErrNoRows {
			return academics.Teacher{}, academics.ErrTeacherNotFound
		}
		return academics.Teacher{}, errors.Wrap(err, "getting teacher by user")
	}
	return row.toModel(), nil
}

func (repo *academicsRepository) UpdateTeacher(ctx context.Context, tch academics.Teacher) (academics.Teacher, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE profesor SET nombre = $1, apellido = $2, email = $3, especialidad = $4,
		 departamento = $5, telefono = $6, direccion = $7 WHERE id = $8`,
		tch.FirstName, tch.LastName, tch.Email, tch.Specialty, tch.Department, tch.Phone, tch.Address, tch.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return academics.Teacher{}, academics.ErrTeacherEmailExists
		}
		return academics.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.Teacher{}, academics.ErrTeacherNotFound
	}
	return tch, nil
}

func (repo *academicsRepository) DeleteTeacher(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM profesor WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrTeacherNotFound
	}
	return nil
}

func (repo *academicsRepository) CountTeachers(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM profesor"); err != nil {
		return 0, errors.Wrap(err, "counting teachers")
	}
	return count, nil
}

// groups

type groupRow struct {
	ID        int      `db:"id"`
	Name      string   `db:"nombre"`
	ProgramID null.Int `db:"programa_id"`
}

func (r groupRow) toModel() academics.Group {
	return academics.Group{ID: r.ID, Name: r.Name, ProgramID: nullIntPtr(r.ProgramID)}
}

func (repo *academicsRepository) CreateGroup(ctx context.Context, grp academics.Group) (academics.Group, error) {
	err := repo.db.QueryRowxContext(ctx,
		"INSERT INTO grupo (nombre, programa_id) VALUES ($1, $2) RETURNING id",
		grp.Name, intPtrNull(grp.ProgramID),
	).Scan(&grp.ID)
	if err != nil {
		return academics.Group{}, errors.Wrap(err, "creating group")
	}
	return grp, nil
}

func (repo *academicsRepository) QueryAllGroups(ctx context.Context) ([]academics.Group, error) {
	var rows []groupRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT id, nombre, programa_id FROM grupo ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	groups := make([]academics.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.toModel())
	}
	return groups, nil
}

func (repo *academicsRepository) GetGroupByID(ctx context.Context, id int) (academics.Group, error) {
	var row groupRow
	if err := repo.db.GetContext(ctx, &row, "SELECT id, nombre, programa_id FROM grupo WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Group{}, academics.ErrGroupNotFound
		}
		return academics.Group{}, errors.Wrap(err, "getting group")
	}
	return row.toModel(), nil
}

func (repo *academicsRepository) UpdateGroup(ctx context.Context, grp academics.Group) (academics.Group, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE grupo SET nombre = $1, programa_id = $2 WHERE id = $3",
		grp.Name, intPtrNull(grp.ProgramID), grp.ID,
	)
	if err != nil {
		return academics.Group{}, errors.Wrap(err, "updating group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.Group{}, academics.ErrGroupNotFound
	}
	return grp, nil
}

func (repo *academicsRepository) DeleteGroup(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM grupo WHERE id = $1", id)
	if err != nil {
		if isFKViolation(err) {
			return academics.ErrEntityInUse
		}
		return errors.Wrap(err, "deleting group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrGroupNotFound
	}
	return nil
}

func (repo *academicsRepository) CountGroups(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM grupo"); err != nil {
		return 0, errors.Wrap(err, "counting groups")
	}
	return count, nil
}

// programs

func (repo *academicsRepository) CreateProgram(ctx context.Context, prg academics.Program) (academics.Program, error) {
	err := repo.db.QueryRowxContext(ctx,
		"INSERT INTO programa (nombre, descripcion) VALUES ($1, $2) RETURNING id",
		prg.Name, prg.Description,
	).Scan(&prg.ID)
	if err != nil {
		return academics.Program{}, errors.Wrap(err, "creating program")
	}
	return prg, nil
}

func (repo *academicsRepository) QueryAllPrograms(ctx context.Context) ([]academics.Program, error) {
	var programs []academics.Program
	rows, err := repo.db.QueryxContext(ctx, "SELECT id, nombre, descripcion FROM programa ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var prg academics.Program
		if err = rows.Scan(&prg.ID, &prg.Name, &prg.Description); err != nil {
			return nil, errors.Wrap(err, "scanning program")
		}
		programs = append(programs, prg)
	}
	return programs, rows.Err()
}

func (repo *academicsRepository) GetProgramByID(ctx context.Context, id int) (academics.Program, error) {
	var prg academics.Program
	err := repo.db.QueryRowxContext(ctx,
		"SELECT id, nombre, descripcion FROM programa WHERE id = $1", id,
	).Scan(&prg.ID, &prg.Name, &prg.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return academics.Program{}, academics.ErrProgramNotFound
		}
		return academics.Program{}, errors.Wrap(err, "getting program")
	}
	return prg, nil
}

func (repo *academicsRepository) UpdateProgram(ctx context.Context, prg academics.Program) (academics.Program, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE programa SET nombre = $1, descripcion = $2 WHERE id = $3",
		prg.Name, prg.Description, prg.ID,
	)
	if err != nil {
		return academics.Program{}, errors.Wrap(err, "updating program")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.Program{}, academics.ErrProgramNotFound
	}
	return prg, nil
}

func (repo *academicsRepository) DeleteProgram(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM programa WHERE id = $1", id)
	if err != nil {
		if isFKViolation(err) {
			return academics.ErrEntityInUse
		}
		return errors.Wrap(err, "deleting program")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrProgramNotFound
	}
	return nil
}

func (repo *academicsRepository) StudentsPerProgram(ctx context.Context) ([]academics.ProgramCount, error) {
	var counts []academics.ProgramCount
	rows, err := repo.db.QueryxContext(ctx,
		`SELECT p.id, p.nombre, COUNT(ep.estudiante_id) AS estudiantes
		 FROM programa p
		 LEFT JOIN estudiante_programa ep ON ep.programa_id = p.id
		 LEFT JOIN estudiante e ON e.documento = ep.estudiante_id AND e.activo
		 GROUP BY p.id, p.nombre
		 ORDER BY estudiantes DESC, p.id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students per program")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var pc academics.ProgramCount
		if err = rows.Scan(&pc.ProgramID, &pc.ProgramName, &pc.Students); err != nil {
			return nil, errors.Wrap(err, "scanning program count")
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

// rooms

func (repo *academicsRepository) CreateRoom(ctx context.Context, rm academics.Room) (academics.Room, error) {
	err := repo.db.QueryRowxContext(ctx,
		"INSERT INTO salon (nombre, capacidad, ubicacion) VALUES ($1, $2, $3) RETURNING id",
		rm.Name, rm.Capacity, rm.Location,
	).Scan(&rm.ID)
	if err != nil {
		return academics.Room{}, errors.Wrap(err, "creating room")
	}
	return rm, nil
}

func (repo *academicsRepository) QueryAllRooms(ctx context.Context) ([]academics.Room, error) {
	var rooms []academics.Room
	rows, err := repo.db.QueryxContext(ctx, "SELECT id, nombre, capacidad, ubicacion FROM salon ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var rm academics.Room
		if err = rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.Location); err != nil {
			return nil, errors.Wrap(err, "scanning room")
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

func (repo *academicsRepository) GetRoomByID(ctx context.Context, id int) (academics.Room, error) {
	var rm academics.Room
	err := repo.db.QueryRowxContext(ctx,
		"SELECT id, nombre, capacidad, ubicacion FROM salon WHERE id = $1", id,
	).Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.Location)
	if err != nil {
		if err == sql.ErrNoRows {
			return academics.Room{}, academics.ErrRoomNotFound
		}
		return academics.Room{}, errors.Wrap(err, "getting room")
	}
	return rm, nil
}

func (repo *academicsRepository) UpdateRoom(ctx context.Context, rm academics.Room) (academics.Room, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE salon SET nombre = $1, capacidad = $2, ubicacion = $3 WHERE id = $4",
		rm.Name, rm.Capacity, rm.Location, rm.ID,
	)
	if err != nil {
		return academics.Room{}, errors.Wrap(err, "updating room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.Room{}, academics.ErrRoomNotFound
	}
	return rm, nil
}

func (repo *academicsRepository) DeleteRoom(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM salon WHERE id = $1", id)
	if err != nil {
		if isFKViolation(err) {
			return academics.ErrEntityInUse
		}
		return errors.Wrap(err, "deleting room")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrRoomNotFound
	}
	return nil
}

// classes

type classRow struct {
	ID        int         `db:"id"`
	Name      string      `db:"nombre"`
	Semester  string      `db:"semestre"`
	GroupID   null.Int    `db:"grupo_id"`
	TeacherID null.Int    `db:"profesor_id"`
	RoomID    null.Int    `db:"salon_id"`
	Weekday   string      `db:"dia_semana"`
	StartTime null.String `db:"hora_inicio"`
	EndTime   null.String `db:"hora_fin"`
}

func (r classRow) toModel() academics.Class {
	cls := academics.Class{
		ID:        r.ID,
		Name:      r.Name,
		Semester:  r.Semester,
		GroupID:   nullIntPtr(r.GroupID),
		TeacherID: nullIntPtr(r.TeacherID),
		RoomID:    nullIntPtr(r.RoomID),
		Weekday:   r.Weekday,
	}
	if r.StartTime.Valid {
		start := academics.FormatClock(r.StartTime.String)
		cls.StartTime = &start
	}
	if r.EndTime.Valid {
		end := academics.FormatClock(r.EndTime.String)
		cls.EndTime = &end
	}
	return cls
}

const classColumns = "id, nombre, semestre, grupo_id, profesor_id, salon_id, dia_semana, hora_inicio, hora_fin"

func (repo *academicsRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	err := repo.db.QueryRowxContext(ctx,
		`INSERT INTO clase (nombre, semestre, grupo_id, profesor_id, salon_id, dia_semana, hora_inicio, hora_fin)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		cls.Name, cls.Semester, intPtrNull(cls.GroupID), intPtrNull(cls.TeacherID), intPtrNull(cls.RoomID),
		cls.Weekday, null.StringFromPtr(cls.StartTime), null.StringFromPtr(cls.EndTime),
	).Scan(&cls.ID)
	if err != nil {
		return academics.Class{}, errors.Wrap(err, "creating class")
	}
	return cls, nil
}

func (repo *academicsRepository) FilterClasses(ctx context.Context, filter academics.QueryFilter, page core.Pagination) ([]academics.Class, int, error) {
	where, args := "", []interface{}{}
	if filter.Search != "" {
		where = " WHERE nombre ILIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, repo.db.Rebind("SELECT COUNT(*) FROM clase"+where), args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting classes")
	}

	query := "SELECT " + classColumns + " FROM clase" + where + " ORDER BY id"
	if !page.All {
		page.Clean()
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset())
	}

	var rows []classRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying classes")
	}
	classes := make([]academics.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toModel())
	}
	return classes, total, nil
}

func (repo *academicsRepository) GetClassByID(ctx context.Context, id int) (academics.Class, error) {
	var row classRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+classColumns+" FROM clase WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Class{}, academics.ErrClassNotFound
		}
		return academics.Class{}, errors.Wrap(err, "getting class")
	}
	return row.toModel(), nil
}

func (repo *academicsRepository) UpdateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE clase SET nombre = $1, semestre = $2, grupo_id = $3, profesor_id = $4, salon_id = $5,
		 dia_semana = $6, hora_inicio = $7, hora_fin = $8 WHERE id = $9`,
		cls.Name, cls.Semester, intPtrNull(cls.GroupID), intPtrNull(cls.TeacherID), intPtrNull(cls.RoomID),
		cls.Weekday, null.StringFromPtr(cls.StartTime), null.StringFromPtr(cls.EndTime), cls.ID,
	)
	if err != nil {
		return academics.Class{}, errors.Wrap(err, "updating class")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.Class{}, academics.ErrClassNotFound
	}
	return cls, nil
}

func (repo *academicsRepository) DeleteClass(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM clase WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academics.ErrClassNotFound
	}
	return nil
}

func (repo *academicsRepository) queryClasses(ctx context.Context, query string, args ...interface{}) ([]academics.Class, error) {
	var rows []classRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]academics.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toModel())
	}
	return classes, nil
}

func (repo *academicsRepository) QueryClassesByGroup(ctx context.Context, groupID int) ([]academics.Class, error) {
	return repo.queryClasses(ctx, "SELECT "+classColumns+" FROM clase WHERE grupo_id = $1 ORDER BY id", groupID)
}

func (repo *academicsRepository) QueryClassesByTeacher(ctx context.Context, teacherID int) ([]academics.Class, error) {
	return repo.queryClasses(ctx, "SELECT "+classColumns+" FROM clase WHERE profesor_id = $1 ORDER BY id", teacherID)
}

func (repo *academicsRepository) QueryClassesByWeekday(ctx context.Context, weekday string) ([]academics.Class, error) {
	return repo.queryClasses(ctx, "SELECT "+classColumns+" FROM clase WHERE dia_semana = $1 ORDER BY id", weekday)
}

func (repo *academicsRepository) QueryClassesByTeacherAndWeekday(ctx context.Context, teacherID int, weekday string) ([]academics.Class, error) {
	return repo.queryClasses(ctx,
		"SELECT "+classColumns+" FROM clase WHERE profesor_id = $1 AND dia_semana = $2 ORDER BY id",
		teacherID, weekday)
}

func (repo *academicsRepository) CountClasses(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM clase"); err != nil {
		return 0, errors.Wrap(err, "counting classes")
	}
	return count, nil
}
