package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) queryUsers() []user.User {
	users := make([]user.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (repo *userRepository) CheckUserUniqueness(_ context.Context, document, email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	exclLen := len(excludedUsers)
	if exclLen > 1 {
		sort.Slice(excludedUsers, func(i, j int) bool { return excludedUsers[i].ID < excludedUsers[j].ID })
	}

	for _, usr := range repo.queryUsers() {
		if isExcludedUser(usr, excludedUsers, exclLen) {
			continue
		}
		if document != "" && usr.Document == document {
			return user.ErrDocumentExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.userSeq++
	usr.ID = repo.db.userSeq
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryUsers(), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if strings.EqualFold(usr.Email, email) {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User, isActive *bool) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.users[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.FirstName != "" {
		orig.FirstName = usr.FirstName
	}
	if usr.LastName != "" {
		orig.LastName = usr.LastName
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if usr.RoleID != nil {
		orig.RoleID = usr.RoleID
	}
	if isActive != nil {
		orig.IsActive = isActive
	}
	return *orig, nil
}

func (repo *userRepository) DeleteUser(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(repo.db.users, id)
	return nil
}

func (repo *userRepository) CountUsers(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.users), nil
}

func (repo *userRepository) CountUsersByRole(_ context.Context, roleID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, usr := range repo.db.users {
		if usr.RoleID != nil && *usr.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

// roles

func (repo *userRepository) loadRole(role user.Role) user.Role {
	permIDs := repo.db.rolePerms[role.ID]
	role.Permissions = make([]user.Permission, 0, len(permIDs))
	for _, pid := range permIDs {
		if perm, ok := repo.db.permissions[pid]; ok {
			role.Permissions = append(role.Permissions, perm)
		}
	}
	sort.Slice(role.Permissions, func(i, j int) bool { return role.Permissions[i].ID < role.Permissions[j].ID })
	return role
}

func (repo *userRepository) CreateRole(_ context.Context, role user.Role, permissionIDs []int) (user.Role, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, r := range repo.db.roles {
		if strings.EqualFold(r.Name, role.Name) {
			return user.Role{}, user.ErrRoleNameExists
		}
	}
	for _, pid := range permissionIDs {
		if _, ok := repo.db.permissions[pid]; !ok {
			return user.Role{}, user.ErrPermNotFound
		}
	}

	repo.db.roleSeq++
	role.ID = repo.db.roleSeq
	repo.db.roles[role.ID] = &role
	repo.db.rolePerms[role.ID] = append([]int(nil), permissionIDs...)
	return repo.loadRole(role), nil
}

func (repo *userRepository) FilterRoles(_ context.Context, filter user.RoleQueryFilter, page core.Pagination) ([]user.Role, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	roles := make([]user.Role, 0, len(repo.db.roles))
	for _, role := range repo.db.roles {
		if filter.Search != "" && !strings.Contains(strings.ToLower(role.Name), strings.ToLower(filter.Search)) {
			continue
		}
		roles = append(roles, repo.loadRole(*role))
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })

	total := len(roles)
	lo, hi := paginate(total, page)
	return roles[lo:hi], total, nil
}

func (repo *userRepository) GetRoleByID(_ context.Context, id int) (user.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if role, ok := repo.db.roles[id]; ok {
		return repo.loadRole(*role), nil
	}
	return user.Role{}, user.ErrRoleNotFound
}

func (repo *userRepository) GetRoleByName(_ context.Context, name string) (user.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, role := range repo.db.roles {
		if strings.EqualFold(role.Name, name) {
			return repo.loadRole(*role), nil
		}
	}
	return user.Role{}, user.ErrRoleNotFound
}

func (repo *userRepository) UpdateRole(_ context.Context, role user.Role, isActive *bool) (user.Role, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.roles[role.ID]
	if !ok {
		return user.Role{}, user.ErrRoleNotFound
	}
	if role.Name != "" && !strings.EqualFold(role.Name, orig.Name) {
		for _, r := range repo.db.roles {
			if strings.EqualFold(r.Name, role.Name) {
				return user.Role{}, user.ErrRoleNameExists
			}
		}
		orig.Name = role.Name
	}
	if isActive != nil {
		orig.IsActive = isActive
	}
	return repo.loadRole(*orig), nil
}

func (repo *userRepository) SetRolePermissions(_ context.Context, roleID int, permissionIDs []int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.roles[roleID]; !ok {
		return user.ErrRoleNotFound
	}
	for _, pid := range permissionIDs {
		if _, ok := repo.db.permissions[pid]; !ok {
			return user.ErrPermNotFound
		}
	}
	repo.db.rolePerms[roleID] = append([]int(nil), permissionIDs...)
	return nil
}

func (repo *userRepository) DeleteRole(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.roles[id]; !ok {
		return user.ErrRoleNotFound
	}
	delete(repo.db.roles, id)
	delete(repo.db.rolePerms, id)
	return nil
}

func (repo *userRepository) QueryAllPermissions(_ context.Context) ([]user.Permission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	perms := make([]user.Permission, 0, len(repo.db.permissions))
	for _, perm := range repo.db.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	return perms, nil
}

func isExcludedUser(usr user.User, excluded []user.User, n int) bool {
	if n <= 0 {
		return false
	}
	idx := sort.Search(n, func(i int) bool { return excluded[i].ID >= usr.ID })
	return idx < n && excluded[idx].ID == usr.ID
}
