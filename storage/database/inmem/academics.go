package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
)

type academicsRepository struct {
	db *DB
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *DB) academics.Repository {
	return &academicsRepository{db: db}
}

// students

func (repo *academicsRepository) loadStudent(std academics.Student) academics.Student {
	std.GroupIDs = sortedKeys(repo.db.studentGroups[std.Document])
	std.ProgramIDs = sortedKeys(repo.db.studentPrograms[std.Document])
	return std
}

func (repo *academicsRepository) CheckStudentUniqueness(_ context.Context, document, email string, excluded ...academics.Student) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, std := range repo.db.students {
		if isExcludedStudent(*std, excluded) {
			continue
		}
		if document != "" && std.Document == document {
			return academics.ErrStudentDocExists
		}
		if email != "" && strings.EqualFold(std.Email, email) {
			return academics.ErrStudentEmailExists
		}
	}
	return nil
}

func (repo *academicsRepository) CreateStudent(_ context.Context, std academics.Student) (academics.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.students[std.Document] = &std
	return std, nil
}

func (repo *academicsRepository) FilterStudents(_ context.Context, filter academics.QueryFilter, page core.Pagination) ([]academics.Student, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]academics.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		if filter.Search != "" && !matchesStudent(*std, filter.Search) {
			continue
		}
		students = append(students, repo.loadStudent(*std))
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Document < students[j].Document })

	total := len(students)
	lo, hi := paginate(total, page)
	return students[lo:hi], total, nil
}

func (repo *academicsRepository) GetStudentByDocument(_ context.Context, document string) (academics.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[document]; ok {
		return repo.loadStudent(*std), nil
	}
	return academics.Student{}, academics.ErrStudentNotFound
}

func (repo *academicsRepository) UpdateStudent(_ context.Context, std academics.Student, isActive *bool) (academics.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.students[std.Document]
	if !ok {
		return academics.Student{}, academics.ErrStudentNotFound
	}
	if std.FirstName != "" {
		orig.FirstName = std.FirstName
	}
	if std.LastName != "" {
		orig.LastName = std.LastName
	}
	if std.Email != "" {
		orig.Email = std.Email
	}
	if isActive != nil {
		orig.IsActive = isActive
	}
	return repo.loadStudent(*orig), nil
}

func (repo *academicsRepository) DeleteStudent(_ context.Context, document string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[document]; !ok {
		return academics.ErrStudentNotFound
	}
	delete(repo.db.students, document)
	delete(repo.db.studentGroups, document)
	delete(repo.db.studentPrograms, document)
	return nil
}

func (repo *academicsRepository) CountActiveStudents(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, std := range repo.db.students {
		if std.IsActive == nil || *std.IsActive {
			count++
		}
	}
	return count, nil
}

func (repo *academicsRepository) AddStudentGroup(_ context.Context, document string, groupID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	memberships, ok := repo.db.studentGroups[document]
	if !ok {
		memberships = make(map[int]struct{})
		repo.db.studentGroups[document] = memberships
	}
	if _, exists := memberships[groupID]; exists {
		return academics.ErrMembershipExists
	}
	memberships[groupID] = struct{}{}
	return nil
}

func (repo *academicsRepository) RemoveStudentGroup(_ context.Context, document string, groupID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	memberships := repo.db.studentGroups[document]
	if _, exists := memberships[groupID]; !exists {
		return academics.ErrMembershipNotFound
	}
	delete(memberships, groupID)
	return nil
}

func (repo *academicsRepository) AddStudentProgram(_ context.Context, document string, programID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	memberships, ok := repo.db.studentPrograms[document]
	if !ok {
		memberships = make(map[int]struct{})
		repo.db.studentPrograms[document] = memberships
	}
	if _, exists := memberships[programID]; exists {
		return academics.ErrMembershipExists
	}
	memberships[programID] = struct{}{}
	return nil
}

func (repo *academicsRepository) RemoveStudentProgram(_ context.Context, document string, programID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	memberships := repo.db.studentPrograms[document]
	if _, exists := memberships[programID]; !exists {
		return academics.ErrMembershipNotFound
	}
	delete(memberships, programID)
	return nil
}

func (repo *academicsRepository) QueryStudentsByGroup(_ context.Context, groupID int) ([]academics.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var students []academics.Student
	for doc, memberships := range repo.db.studentGroups {
		if _, ok := memberships[groupID]; !ok {
			continue
		}
		if std, ok := repo.db.students[doc]; ok {
			students = append(students, repo.loadStudent(*std))
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Document < students[j].Document })
	return students, nil
}

// teachers

func (repo *academicsRepository) CheckTeacherUniqueness(_ context.Context, document, email string, excluded ...academics.Teacher) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tch := range repo.db.teachers {
		if isExcludedTeacher(*tch, excluded) {
			continue
		}
		if document != "" && tch.Document == document {
			return academics.ErrTeacherDocExists
		}
		if email != "" && strings.EqualFold(tch.Email, email) {
			return academics.ErrTeacherEmailExists
		}
	}
	return nil
}

func (repo *academicsRepository) CreateTeacher(_ context.Context, tch academics.Teacher) (academics.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.teacherSeq++
	tch.ID = repo.db.teacherSeq
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *academicsRepository) FilterTeachers(_ context.Context, filter academics.QueryFilter, page core.Pagination) ([]academics.Teacher, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]academics.Teacher, 0, len(repo.db.teachers))
	for _, tch := range repo.db.teachers {
		if filter.Search != "" && !matchesTeacher(*tch, filter.Search) {
			continue
		}
		teachers = append(teachers, *tch)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })

	total := len(teachers)
	lo, hi := paginate(total, page)
	return teachers[lo:hi], total, nil
}

func (repo *academicsRepository) GetTeacherByID(_ context.Context, id int) (academics.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return academics.Teacher{}, academics.ErrTeacherNotFound
}

func (repo *academicsRepository) GetTeacherByUserID(_ context.Context, userID int) (academics.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.UserID != nil && *tch.UserID == userID {
			return *tch, nil
		}
	}
	return academics.Teacher{}, academics.ErrTeacherNotFound
}

func (repo *academicsRepository) UpdateTeacher(_ context.Context, tch academics.Teacher) (academics.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[tch.ID]; !ok {
		return academics.Teacher{}, academics.ErrTeacherNotFound
	}
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *academicsRepository) DeleteTeacher(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return academics.ErrTeacherNotFound
	}
	delete(repo.db.teachers, id)
	return nil
}

func (repo *academicsRepository) CountTeachers(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.teachers), nil
}

// groups

func (repo *academicsRepository) CreateGroup(_ context.Context, grp academics.Group) (academics.Group, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.groupSeq++
	grp.ID = repo.db.groupSeq
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *academicsRepository) QueryAllGroups(_ context.Context) ([]academics.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	groups := make([]academics.Group, 0, len(repo.db.groups))
	for _, grp := range repo.db.groups {
		groups = append(groups, *grp)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (repo *academicsRepository) GetGroupByID(_ context.Context, id int) (academics.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if grp, ok := repo.db.groups[id]; ok {
		return *grp, nil
	}
	return academics.Group{}, academics.ErrGroupNotFound
}

func (repo *academicsRepository) UpdateGroup(_ context.Context, grp academics.Group) (academics.Group, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.groups[grp.ID]; !ok {
		return academics.Group{}, academics.ErrGroupNotFound
	}
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *academicsRepository) DeleteGroup(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.groups[id]; !ok {
		return academics.ErrGroupNotFound
	}
	for _, cls := range repo.db.classes {
		if cls.GroupID != nil && *cls.GroupID == id {
			return academics.ErrEntityInUse
		}
	}
	for _, memberships := range repo.db.studentGroups {
		if _, ok := memberships[id]; ok {
			return academics.ErrEntityInUse
		}
	}
	delete(repo.db.groups, id)
	return nil
}

func (repo *academicsRepository) CountGroups(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.groups), nil
}

// programs

func (repo *academicsRepository) CreateProgram(_ context.Context, prg academics.Program) (academics.Program, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.programSeq++
	prg.ID = repo.db.programSeq
	repo.db.programs[prg.ID] = &prg
	return prg, nil
}

func (repo *academicsRepository) QueryAllPrograms(_ context.Context) ([]academics.Program, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	programs := make([]academics.Program, 0, len(repo.db.programs))
	for _, prg := range repo.db.programs {
		programs = append(programs, *prg)
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].ID < programs[j].ID })
	return programs, nil
}

func (repo *academicsRepository) GetProgramByID(_ context.Context, id int) (academics.Program, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prg, ok := repo.db.programs[id]; ok {
		return *prg, nil
	}
	return academics.Program{}, academics.ErrProgramNotFound
}

func (repo *academicsRepository) UpdateProgram(_ context.Context, prg academics.Program) (academics.Program, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.programs[prg.ID]; !ok {
		return academics.Program{}, academics.ErrProgramNotFound
	}
	repo.db.programs[prg.ID] = &prg
	return prg, nil
}

func (repo *academicsRepository) DeleteProgram(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.programs[id]; !ok {
		return academics.ErrProgramNotFound
	}
	for _, grp := range repo.db.groups {
		if grp.ProgramID != nil && *grp.ProgramID == id {
			return academics.ErrEntityInUse
		}
	}
	for _, memberships := range repo.db.studentPrograms {
		if _, ok := memberships[id]; ok {
			return academics.ErrEntityInUse
		}
	}
	delete(repo.db.programs, id)
	return nil
}

func (repo *academicsRepository) StudentsPerProgram(_ context.Context) ([]academics.ProgramCount, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	counts := make(map[int]int)
	for doc, memberships := range repo.db.studentPrograms {
		std, ok := repo.db.students[doc]
		if !ok || (std.IsActive != nil && !*std.IsActive) {
			continue
		}
		for prgID := range memberships {
			counts[prgID]++
		}
	}

	out := make([]academics.ProgramCount, 0, len(repo.db.programs))
	for id, prg := range repo.db.programs {
		out = append(out, academics.ProgramCount{ProgramID: id, ProgramName: prg.Name, Students: counts[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Students != out[j].Students {
			return out[i].Students > out[j].Students
		}
		return out[i].ProgramID < out[j].ProgramID
	})
	return out, nil
}

// rooms

func (repo *academicsRepository) CreateRoom(_ context.Context, rm academics.Room) (academics.Room, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.roomSeq++
	rm.ID = repo.db.roomSeq
	repo.db.rooms[rm.ID] = &rm
	return rm, nil
}

func (repo *academicsRepository) QueryAllRooms(_ context.Context) ([]academics.Room, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rooms := make([]academics.Room, 0, len(repo.db.rooms))
	for _, rm := range repo.db.rooms {
		rooms = append(rooms, *rm)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (repo *academicsRepository) GetRoomByID(_ context.Context, id int) (academics.Room, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rm, ok := repo.db.rooms[id]; ok {
		return *rm, nil
	}
	return academics.Room{}, academics.ErrRoomNotFound
}

func (repo *academicsRepository) UpdateRoom(_ context.Context, rm academics.Room) (academics.Room, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rooms[rm.ID]; !ok {
		return academics.Room{}, academics.ErrRoomNotFound
	}
	repo.db.rooms[rm.ID] = &rm
	return rm, nil
}

func (repo *academicsRepository) DeleteRoom(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rooms[id]; !ok {
		return academics.ErrRoomNotFound
	}
	for _, cls := range repo.db.classes {
		if cls.RoomID != nil && *cls.RoomID == id {
			return academics.ErrEntityInUse
		}
	}
	delete(repo.db.rooms, id)
	return nil
}

// classes

func (repo *academicsRepository) CreateClass(_ context.Context, cls academics.Class) (academics.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.classSeq++
	cls.ID = repo.db.classSeq
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *academicsRepository) FilterClasses(_ context.Context, filter academics.QueryFilter, page core.Pagination) ([]academics.Class, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]academics.Class, 0, len(repo.db.classes))
	for _, cls := range repo.db.classes {
		if filter.Search != "" && !strings.Contains(strings.ToLower(cls.Name), strings.ToLower(filter.Search)) {
			continue
		}
		classes = append(classes, *cls)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })

	total := len(classes)
	lo, hi := paginate(total, page)
	return classes[lo:hi], total, nil
}

func (repo *academicsRepository) GetClassByID(_ context.Context, id int) (academics.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return *cls, nil
	}
	return academics.Class{}, academics.ErrClassNotFound
}

func (repo *academicsRepository) UpdateClass(_ context.Context, cls academics.Class) (academics.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[cls.ID]; !ok {
		return academics.Class{}, academics.ErrClassNotFound
	}
	repo.db.classes[cls.ID] = &cls
	return cls, nil
}

func (repo *academicsRepository) DeleteClass(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return academics.ErrClassNotFound
	}
	delete(repo.db.classes, id)
	return nil
}

func (repo *academicsRepository) QueryClassesByGroup(_ context.Context, groupID int) ([]academics.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var classes []academics.Class
	for _, cls := range repo.db.classes {
		if cls.GroupID != nil && *cls.GroupID == groupID {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (repo *academicsRepository) QueryClassesByTeacher(_ context.Context, teacherID int) ([]academics.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var classes []academics.Class
	for _, cls := range repo.db.classes {
		if cls.TeacherID != nil && *cls.TeacherID == teacherID {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (repo *academicsRepository) QueryClassesByWeekday(_ context.Context, weekday string) ([]academics.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var classes []academics.Class
	for _, cls := range repo.db.classes {
		if cls.Weekday == weekday {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (repo *academicsRepository) QueryClassesByTeacherAndWeekday(_ context.Context, teacherID int, weekday string) ([]academics.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var classes []academics.Class
	for _, cls := range repo.db.classes {
		if cls.TeacherID != nil && *cls.TeacherID == teacherID && cls.Weekday == weekday {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (repo *academicsRepository) CountClasses(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.classes), nil
}

// helpers

func sortedKeys(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func matchesStudent(std academics.Student, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(std.FirstName), search) ||
		strings.Contains(strings.ToLower(std.LastName), search) ||
		strings.Contains(std.Document, search)
}

func matchesTeacher(tch academics.Teacher, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(tch.FirstName), search) ||
		strings.Contains(strings.ToLower(tch.LastName), search) ||
		strings.Contains(tch.Document, search)
}

func isExcludedStudent(std academics.Student, excluded []academics.Student) bool {
	for _, ex := range excluded {
		if ex.Document == std.Document {
			return true
		}
	}
	return false
}

func isExcludedTeacher(tch academics.Teacher, excluded []academics.Teacher) bool {
	for _, ex := range excluded {
		if ex.ID == tch.ID {
			return true
		}
	}
	return false
}
