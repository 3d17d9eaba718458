// Package inmemdb provides map-backed repositories used by tests and
// local development. Semantics mirror the sqlx repositories, including
// the seeded reference data (permissions and the bootstrap roles).
package inmemdb

import (
	"sync"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
)

type DB struct {
	mutex sync.RWMutex

	userSeq, roleSeq, teacherSeq int
	groupSeq, programSeq         int
	roomSeq, classSeq, recordSeq int

	users       map[int]*user.User
	roles       map[int]*user.Role
	rolePerms   map[int][]int
	permissions map[int]user.Permission

	students        map[string]*academics.Student
	studentGroups   map[string]map[int]struct{}
	studentPrograms map[string]map[int]struct{}
	teachers        map[int]*academics.Teacher
	groups          map[int]*academics.Group
	programs        map[int]*academics.Program
	rooms           map[int]*academics.Room
	classes         map[int]*academics.Class

	records map[int]*attendance.Record
	// recordOrder preserves insertion order for class-date queries
	recordOrder []int
}

// Open returns a fresh DB seeded with the permission catalog and the
// two bootstrap roles, matching the SQL migrations.
func Open() (*DB, error) {
	db := &DB{
		users:           make(map[int]*user.User),
		roles:           make(map[int]*user.Role),
		rolePerms:       make(map[int][]int),
		permissions:     make(map[int]user.Permission),
		students:        make(map[string]*academics.Student),
		studentGroups:   make(map[string]map[int]struct{}),
		studentPrograms: make(map[string]map[int]struct{}),
		teachers:        make(map[int]*academics.Teacher),
		groups:          make(map[int]*academics.Group),
		programs:        make(map[int]*academics.Program),
		rooms:           make(map[int]*academics.Room),
		classes:         make(map[int]*academics.Class),
		records:         make(map[int]*attendance.Record),
	}
	db.seed()
	return db, nil
}

func (db *DB) seed() {
	allIDs := make([]int, 0, len(user.AllPerms))
	for i, perm := range user.AllPerms {
		id := i + 1
		db.permissions[id] = user.Permission{ID: id, Name: perm}
		allIDs = append(allIDs, id)
	}

	active := true
	db.roles[user.AdminRoleID] = &user.Role{ID: user.AdminRoleID, Name: user.RoleAdmin, IsActive: &active}
	db.rolePerms[user.AdminRoleID] = allIDs

	teacherPermIDs := make([]int, 0, 3)
	for id, p := range db.permissions {
		switch p.Name {
		case user.PermClasses, user.PermAttendance, user.PermDashboard:
			teacherPermIDs = append(teacherPermIDs, id)
		}
	}
	teacherActive := true
	db.roles[2] = &user.Role{ID: 2, Name: user.RoleTeacher, IsActive: &teacherActive}
	db.rolePerms[2] = teacherPermIDs
	db.roleSeq = 2
}

// paginate slices rows according to page; total is len(rows).
func paginate(n int, page core.Pagination) (lo, hi int) {
	page.Clean()
	if page.All {
		return 0, n
	}
	lo = page.Offset()
	if lo > n {
		lo = n
	}
	hi = lo + page.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}
