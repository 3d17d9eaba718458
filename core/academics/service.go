package academics

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
)

var (
	// errors
	ErrStudentNotFound    = errors.New("estudiante no encontrado")
	ErrStudentDocExists   = errors.New("ya existe un estudiante con ese documento")
	ErrStudentEmailExists = errors.New("ya existe un estudiante con ese email")
	ErrTeacherNotFound    = errors.New("profesor no encontrado")
	ErrTeacherDocExists   = errors.New("ya existe un profesor con ese documento")
	ErrTeacherEmailExists = errors.New("ya existe un profesor con ese email")
	ErrGroupNotFound      = errors.New("grupo no encontrado")
	ErrProgramNotFound    = errors.New("programa no encontrado")
	ErrRoomNotFound       = errors.New("salón no encontrado")
	ErrClassNotFound      = errors.New("clase no encontrada")
	ErrMembershipExists   = errors.New("el estudiante ya pertenece a ese grupo o programa")
	ErrMembershipNotFound = errors.New("el estudiante no pertenece a ese grupo o programa")
	ErrEntityInUse        = errors.New("no se puede eliminar porque tiene registros asociados")
	ErrInvalidTimeRange   = errors.New("la hora de inicio debe ser anterior a la hora de fin")
)

// ProgramCount is a dashboard aggregate: how many active students are
// enrolled in a program.
type ProgramCount struct {
	ProgramID   int    `json:"programa_id"`
	ProgramName string `json:"programa"`
	Students    int    `json:"estudiantes"`
}

type (
	Repository interface {
		// students
		CheckStudentUniqueness(ctx context.Context, document, email string, excluded ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		FilterStudents(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Student, int, error)
		// GetStudentByDocument returns the Student loaded with its group
		// and program memberships.
		GetStudentByDocument(ctx context.Context, document string) (Student, error)
		UpdateStudent(ctx context.Context, std Student, isActive *bool) (Student, error)
		DeleteStudent(ctx context.Context, document string) error
		CountActiveStudents(ctx context.Context) (int, error)
		AddStudentGroup(ctx context.Context, document string, groupID int) error
		RemoveStudentGroup(ctx context.Context, document string, groupID int) error
		AddStudentProgram(ctx context.Context, document string, programID int) error
		RemoveStudentProgram(ctx context.Context, document string, programID int) error
		QueryStudentsByGroup(ctx context.Context, groupID int) ([]Student, error)

		// teachers
		CheckTeacherUniqueness(ctx context.Context, document, email string, excluded ...Teacher) error
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		FilterTeachers(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Teacher, int, error)
		GetTeacherByID(ctx context.Context, id int) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID int) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id int) error
		CountTeachers(ctx context.Context) (int, error)

		// groups
		CreateGroup(ctx context.Context, grp Group) (Group, error)
		QueryAllGroups(ctx context.Context) ([]Group, error)
		GetGroupByID(ctx context.Context, id int) (Group, error)
		UpdateGroup(ctx context.Context, grp Group) (Group, error)
		DeleteGroup(ctx context.Context, id int) error
		CountGroups(ctx context.Context) (int, error)

		// programs
		CreateProgram(ctx context.Context, prg Program) (Program, error)
		QueryAllPrograms(ctx context.Context) ([]Program, error)
		GetProgramByID(ctx context.Context, id int) (Program, error)
		UpdateProgram(ctx context.Context, prg Program) (Program, error)
		DeleteProgram(ctx context.Context, id int) error
		StudentsPerProgram(ctx context.Context) ([]ProgramCount, error)

		// rooms
		CreateRoom(ctx context.Context, rm Room) (Room, error)
		QueryAllRooms(ctx context.Context) ([]Room, error)
		GetRoomByID(ctx context.Context, id int) (Room, error)
		UpdateRoom(ctx context.Context, rm Room) (Room, error)
		DeleteRoom(ctx context.Context, id int) error

		// classes
		CreateClass(ctx context.Context, cls Class) (Class, error)
		FilterClasses(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Class, int, error)
		GetClassByID(ctx context.Context, id int) (Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		DeleteClass(ctx context.Context, id int) error
		QueryClassesByGroup(ctx context.Context, groupID int) ([]Class, error)
		QueryClassesByTeacher(ctx context.Context, teacherID int) ([]Class, error)
		QueryClassesByWeekday(ctx context.Context, weekday string) ([]Class, error)
		// QueryClassesByTeacherAndWeekday feeds the attendance window
		// computation; weekday is a canonical day name.
		QueryClassesByTeacherAndWeekday(ctx context.Context, teacherID int, weekday string) ([]Class, error)
		CountClasses(ctx context.Context) (int, error)
	}

	ServiceInterface interface {
		// students
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		FilterStudents(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Student, int, error)
		GetStudent(ctx context.Context, document string) (Student, error)
		UpdateStudent(ctx context.Context, document string, us UpdateStudent) (Student, error)
		DeleteStudent(ctx context.Context, document string) error
		EnrollStudentInGroup(ctx context.Context, document string, groupID int) error
		WithdrawStudentFromGroup(ctx context.Context, document string, groupID int) error
		EnrollStudentInProgram(ctx context.Context, document string, programID int) error
		WithdrawStudentFromProgram(ctx context.Context, document string, programID int) error
		StudentsByGroup(ctx context.Context, groupID int) ([]Student, error)

		// teachers
		CreateTeacher(ctx context.Context, nt NewTeacher) (Teacher, error)
		FilterTeachers(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Teacher, int, error)
		GetTeacher(ctx context.Context, id int) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID int) (Teacher, error)
		UpdateTeacher(ctx context.Context, id int, ut UpdateTeacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id int) error

		// groups, programs, rooms
		CreateGroup(ctx context.Context, ng NewGroup) (Group, error)
		QueryAllGroups(ctx context.Context) ([]Group, error)
		GetGroup(ctx context.Context, id int) (Group, error)
		UpdateGroup(ctx context.Context, id int, ng NewGroup) (Group, error)
		DeleteGroup(ctx context.Context, id int) error
		CreateProgram(ctx context.Context, np NewProgram) (Program, error)
		QueryAllPrograms(ctx context.Context) ([]Program, error)
		GetProgram(ctx context.Context, id int) (Program, error)
		UpdateProgram(ctx context.Context, id int, np NewProgram) (Program, error)
		DeleteProgram(ctx context.Context, id int) error
		CreateRoom(ctx context.Context, nr NewRoom) (Room, error)
		QueryAllRooms(ctx context.Context) ([]Room, error)
		GetRoom(ctx context.Context, id int) (Room, error)
		UpdateRoom(ctx context.Context, id int, nr NewRoom) (Room, error)
		DeleteRoom(ctx context.Context, id int) error

		// classes
		CreateClass(ctx context.Context, nc NewClass) (Class, error)
		FilterClasses(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Class, int, error)
		GetClass(ctx context.Context, id int) (Class, error)
		UpdateClass(ctx context.Context, id int, uc UpdateClass) (Class, error)
		DeleteClass(ctx context.Context, id int) error
		ClassesByGroup(ctx context.Context, groupID int) ([]Class, error)
		ClassesByTeacher(ctx context.Context, teacherID int) ([]Class, error)
		ClassesByWeekday(ctx context.Context, weekday string) ([]Class, error)

		// dashboard
		CountActiveStudents(ctx context.Context) (int, error)
		CountTeachers(ctx context.Context) (int, error)
		CountGroups(ctx context.Context) (int, error)
		CountClasses(ctx context.Context) (int, error)
		StudentsPerProgram(ctx context.Context) ([]ProgramCount, error)
	}

	Service struct {
		repo    Repository
		usrSvc  user.ServiceInterface
		mailSvc core.EmailService
		log     core.Logger
		conf    *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, usrSvc user.ServiceInterface, mailSvc core.EmailService, log core.Logger, conf *core.Config) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, mailSvc: mailSvc, log: log, conf: conf}
}

// students

func (svc *Service) CheckStudentUniqueness(document, email string, excluded ...Student) error {
	if err := svc.repo.CheckStudentUniqueness(context.Background(), document, email, excluded...); err != nil {
		var field string
		switch err {
		case ErrStudentDocExists:
			field = "documento"
		case ErrStudentEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if err := svc.CheckStudentUniqueness(ns.Document, ns.Email); err != nil {
		return Student{}, err
	}
	active := true
	std := Student{
		Document:  ns.Document,
		FirstName: ns.FirstName,
		LastName:  ns.LastName,
		Email:     ns.Email,
		IsActive:  &active,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) FilterStudents(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Student, int, error) {
	filter.Clean()
	return svc.repo.FilterStudents(ctx, filter, page)
}

func (svc *Service) GetStudent(ctx context.Context, document string) (Student, error) {
	return svc.repo.GetStudentByDocument(ctx, document)
}

func (svc *Service) UpdateStudent(ctx context.Context, document string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByDocument(ctx, document)
	if err != nil {
		return Student{}, err
	}
	if us.Email != "" && us.Email != std.Email {
		if err = svc.CheckStudentUniqueness("", us.Email, std); err != nil {
			return Student{}, err
		}
	}
	std.Document = document
	if us.FirstName != "" {
		std.FirstName = us.FirstName
	}
	if us.LastName != "" {
		std.LastName = us.LastName
	}
	if us.Email != "" {
		std.Email = us.Email
	}
	return svc.repo.UpdateStudent(ctx, std, us.IsActive)
}

func (svc *Service) DeleteStudent(ctx context.Context, document string) error {
	return svc.repo.DeleteStudent(ctx, document)
}

func (svc *Service) EnrollStudentInGroup(ctx context.Context, document string, groupID int) error {
	if _, err := svc.repo.GetStudentByDocument(ctx, document); err != nil {
		return err
	}
	if _, err := svc.repo.GetGroupByID(ctx, groupID); err != nil {
		return err
	}
	return svc.repo.AddStudentGroup(ctx, document, groupID)
}

func (svc *Service) WithdrawStudentFromGroup(ctx context.Context, document string, groupID int) error {
	return svc.repo.RemoveStudentGroup(ctx, document, groupID)
}

func (svc *Service) EnrollStudentInProgram(ctx context.Context, document string, programID int) error {
	if _, err := svc.repo.GetStudentByDocument(ctx, document); err != nil {
		return err
	}
	if _, err := svc.repo.GetProgramByID(ctx, programID); err != nil {
		return err
	}
	return svc.repo.AddStudentProgram(ctx, document, programID)
}

func (svc *Service) WithdrawStudentFromProgram(ctx context.Context, document string, programID int) error {
	return svc.repo.RemoveStudentProgram(ctx, document, programID)
}

func (svc *Service) StudentsByGroup(ctx context.Context, groupID int) ([]Student, error) {
	if _, err := svc.repo.GetGroupByID(ctx, groupID); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudentsByGroup(ctx, groupID)
}

// teachers

func (svc *Service) CheckTeacherUniqueness(document, email string, excluded ...Teacher) error {
	if err := svc.repo.CheckTeacherUniqueness(context.Background(), document, email, excluded...); err != nil {
		var field string
		switch err {
		case ErrTeacherDocExists:
			field = "documento"
		case ErrTeacherEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// CreateTeacher registers a teacher and provisions its backing login
// account in one step: a user with the Profesor role and a temporary
// password, notified by email. Mail delivery failures never fail the
// registration; they are only logged.
func (svc *Service) CreateTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := svc.CheckTeacherUniqueness(nt.Document, nt.Email); err != nil {
		return Teacher{}, err
	}
	if err := svc.usrSvc.CheckUniqueness(nt.Document, nt.Email); err != nil {
		return Teacher{}, err
	}

	role, err := svc.usrSvc.GetRoleByName(ctx, user.RoleTeacher)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "resolving teacher role")
	}

	tempPwd := uuid.New().String()
	usr, err := svc.usrSvc.Create(ctx, user.NewUser{
		FirstName: nt.FirstName,
		LastName:  nt.LastName,
		Document:  nt.Document,
		Email:     nt.Email,
		Password:  tempPwd,
		RoleID:    &role.ID,
	})
	if err != nil {
		return Teacher{}, errors.Wrap(err, "provisioning teacher account")
	}

	tch := Teacher{
		FirstName:  nt.FirstName,
		LastName:   nt.LastName,
		Document:   nt.Document,
		Email:      nt.Email,
		UserID:     &usr.ID,
		Specialty:  nt.Specialty,
		Department: nt.Department,
		Phone:      nt.Phone,
		Address:    nt.Address,
	}
	if tch, err = svc.repo.CreateTeacher(ctx, tch); err != nil {
		return Teacher{}, err
	}

	svc.sendWelcomeEmail(tch, tempPwd)
	return tch, nil
}

func (svc *Service) sendWelcomeEmail(tch Teacher, tempPwd string) {
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: tch.FullName(), Address: tch.Email}},
		Subject: fmt.Sprintf("Bienvenido a %s", svc.conf.AppName),
		TextContent: fmt.Sprintf(
			"Hola %s,\n\nSu cuenta de profesor ha sido creada.\n\n"+
				"Usuario: %s\nContraseña temporal: %s\n\n"+
				"Por favor inicie sesión en %s y cambie su contraseña.\n",
			tch.FullName(), tch.Email, tempPwd, svc.conf.FrontendBaseURL,
		),
	}
	svc.mailSvc.SendMessages(msg)
}

func (svc *Service) FilterTeachers(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Teacher, int, error) {
	filter.Clean()
	return svc.repo.FilterTeachers(ctx, filter, page)
}

func (svc *Service) GetTeacher(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) GetTeacherByUserID(ctx context.Context, userID int) (Teacher, error) {
	return svc.repo.GetTeacherByUserID(ctx, userID)
}

func (svc *Service) UpdateTeacher(ctx context.Context, id int, ut UpdateTeacher) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if ut.Email != "" && ut.Email != tch.Email {
		if err = svc.CheckTeacherUniqueness("", ut.Email, tch); err != nil {
			return Teacher{}, err
		}
	}
	if ut.FirstName != "" {
		tch.FirstName = ut.FirstName
	}
	if ut.LastName != "" {
		tch.LastName = ut.LastName
	}
	if ut.Email != "" {
		tch.Email = ut.Email
	}
	tch.Specialty = ut.Specialty
	tch.Department = ut.Department
	tch.Phone = ut.Phone
	tch.Address = ut.Address
	return svc.repo.UpdateTeacher(ctx, tch)
}

// DeleteTeacher removes the teacher record and its backing user account.
func (svc *Service) DeleteTeacher(ctx context.Context, id int) error {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	if tch.UserID != nil {
		if err = svc.usrSvc.Delete(ctx, *tch.UserID); err != nil {
			svc.log.Error("deleting teacher account", "userID", *tch.UserID, "error", err)
		}
	}
	return nil
}

// groups

func (svc *Service) CreateGroup(ctx context.Context, ng NewGroup) (Group, error) {
	if ng.ProgramID != nil {
		if _, err := svc.repo.GetProgramByID(ctx, *ng.ProgramID); err != nil {
			return Group{}, err
		}
	}
	return svc.repo.CreateGroup(ctx, Group{Name: ng.Name, ProgramID: ng.ProgramID})
}

func (svc *Service) QueryAllGroups(ctx context.Context) ([]Group, error) {
	return svc.repo.QueryAllGroups(ctx)
}

func (svc *Service) GetGroup(ctx context.Context, id int) (Group, error) {
	return svc.repo.GetGroupByID(ctx, id)
}

func (svc *Service) UpdateGroup(ctx context.Context, id int, ng NewGroup) (Group, error) {
	grp, err := svc.repo.GetGroupByID(ctx, id)
	if err != nil {
		return Group{}, err
	}
	grp.Name = ng.Name
	if ng.ProgramID != nil {
		if _, err = svc.repo.GetProgramByID(ctx, *ng.ProgramID); err != nil {
			return Group{}, err
		}
		grp.ProgramID = ng.ProgramID
	}
	return svc.repo.UpdateGroup(ctx, grp)
}

func (svc *Service) DeleteGroup(ctx context.Context, id int) error {
	return svc.repo.DeleteGroup(ctx, id)
}

// programs

func (svc *Service) CreateProgram(ctx context.Context, np NewProgram) (Program, error) {
	return svc.repo.CreateProgram(ctx, Program{Name: np.Name, Description: np.Description})
}

func (svc *Service) QueryAllPrograms(ctx context.Context) ([]Program, error) {
	return svc.repo.QueryAllPrograms(ctx)
}

func (svc *Service) GetProgram(ctx context.Context, id int) (Program, error) {
	return svc.repo.GetProgramByID(ctx, id)
}

func (svc *Service) UpdateProgram(ctx context.Context, id int, np NewProgram) (Program, error) {
	prg, err := svc.repo.GetProgramByID(ctx, id)
	if err != nil {
		return Program{}, err
	}
	prg.Name = np.Name
	prg.Description = np.Description
	return svc.repo.UpdateProgram(ctx, prg)
}

func (svc *Service) DeleteProgram(ctx context.Context, id int) error {
	return svc.repo.DeleteProgram(ctx, id)
}

// rooms

func (svc *Service) CreateRoom(ctx context.Context, nr NewRoom) (Room, error) {
	return svc.repo.CreateRoom(ctx, Room{Name: nr.Name, Capacity: nr.Capacity, Location: nr.Location})
}

func (svc *Service) QueryAllRooms(ctx context.Context) ([]Room, error) {
	return svc.repo.QueryAllRooms(ctx)
}

func (svc *Service) GetRoom(ctx context.Context, id int) (Room, error) {
	return svc.repo.GetRoomByID(ctx, id)
}

func (svc *Service) UpdateRoom(ctx context.Context, id int, nr NewRoom) (Room, error) {
	rm, err := svc.repo.GetRoomByID(ctx, id)
	if err != nil {
		return Room{}, err
	}
	rm.Name = nr.Name
	rm.Capacity = nr.Capacity
	rm.Location = nr.Location
	return svc.repo.UpdateRoom(ctx, rm)
}

func (svc *Service) DeleteRoom(ctx context.Context, id int) error {
	return svc.repo.DeleteRoom(ctx, id)
}

// classes

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if err := svc.checkClassRefs(ctx, nc.GroupID, nc.TeacherID, nc.RoomID); err != nil {
		return Class{}, err
	}
	cls := Class{
		Name:      nc.Name,
		Semester:  nc.Semester,
		GroupID:   nc.GroupID,
		TeacherID: nc.TeacherID,
		RoomID:    nc.RoomID,
		Weekday:   nc.Weekday,
		StartTime: nc.StartTime,
		EndTime:   nc.EndTime,
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) checkClassRefs(ctx context.Context, groupID, teacherID, roomID *int) error {
	if groupID != nil {
		if _, err := svc.repo.GetGroupByID(ctx, *groupID); err != nil {
			return err
		}
	}
	if teacherID != nil {
		if _, err := svc.repo.GetTeacherByID(ctx, *teacherID); err != nil {
			return err
		}
	}
	if roomID != nil {
		if _, err := svc.repo.GetRoomByID(ctx, *roomID); err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) FilterClasses(ctx context.Context, filter QueryFilter, page core.Pagination) ([]Class, int, error) {
	filter.Clean()
	return svc.repo.FilterClasses(ctx, filter, page)
}

func (svc *Service) GetClass(ctx context.Context, id int) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) UpdateClass(ctx context.Context, id int, uc UpdateClass) (Class, error) {
	cls, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	if err = svc.checkClassRefs(ctx, uc.GroupID, uc.TeacherID, uc.RoomID); err != nil {
		return Class{}, err
	}
	if uc.Name != "" {
		cls.Name = uc.Name
	}
	if uc.Semester != "" {
		cls.Semester = uc.Semester
	}
	if uc.GroupID != nil {
		cls.GroupID = uc.GroupID
	}
	if uc.TeacherID != nil {
		cls.TeacherID = uc.TeacherID
	}
	if uc.RoomID != nil {
		cls.RoomID = uc.RoomID
	}
	if uc.Weekday != "" {
		cls.Weekday = uc.Weekday
	}
	if uc.StartTime != nil {
		cls.StartTime = uc.StartTime
	}
	if uc.EndTime != nil {
		cls.EndTime = uc.EndTime
	}
	if err = validateTimeRange(cls.StartTime, cls.EndTime); err != nil {
		return Class{}, err
	}
	return svc.repo.UpdateClass(ctx, cls)
}

func (svc *Service) DeleteClass(ctx context.Context, id int) error {
	return svc.repo.DeleteClass(ctx, id)
}

func (svc *Service) ClassesByGroup(ctx context.Context, groupID int) ([]Class, error) {
	if _, err := svc.repo.GetGroupByID(ctx, groupID); err != nil {
		return nil, err
	}
	return svc.repo.QueryClassesByGroup(ctx, groupID)
}

func (svc *Service) ClassesByTeacher(ctx context.Context, teacherID int) ([]Class, error) {
	if _, err := svc.repo.GetTeacherByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return svc.repo.QueryClassesByTeacher(ctx, teacherID)
}

// ClassesByWeekday lists the classes scheduled on a given weekday.
// The name is normalized so accent-less variants are accepted.
func (svc *Service) ClassesByWeekday(ctx context.Context, weekday string) ([]Class, error) {
	day := NormalizeWeekday(weekday)
	if day == "" {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "dia_semana", Error: "día de la semana inválido"})
	}
	return svc.repo.QueryClassesByWeekday(ctx, day)
}

// dashboard

func (svc *Service) CountActiveStudents(ctx context.Context) (int, error) {
	return svc.repo.CountActiveStudents(ctx)
}

func (svc *Service) CountTeachers(ctx context.Context) (int, error) {
	return svc.repo.CountTeachers(ctx)
}

func (svc *Service) CountGroups(ctx context.Context) (int, error) {
	return svc.repo.CountGroups(ctx)
}

func (svc *Service) CountClasses(ctx context.Context) (int, error) {
	return svc.repo.CountClasses(ctx)
}

func (svc *Service) StudentsPerProgram(ctx context.Context) ([]ProgramCount, error) {
	return svc.repo.StudentsPerProgram(ctx)
}
