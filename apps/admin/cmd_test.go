package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core/user"
	inmemdb "github.com/trezcool/classlog/storage/database/inmem"
)

func setup(t *testing.T) (*commandLine, user.Repository) {
	t.Helper()
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)

	db, err := inmemdb.Open()
	require.NoError(t, err)
	usrRepo := inmemdb.NewUserRepository(db)

	return &commandLine{usrRepo: usrRepo}, usrRepo
}

func createUser(t *testing.T, repo user.Repository, email, pwd string) user.User {
	t.Helper()
	active := true
	usr := user.User{
		FirstName: "Ana",
		LastName:  "Prueba",
		Document:  "100" + email,
		Email:     email,
		IsActive:  &active,
	}
	require.NoError(t, usr.SetPassword(pwd))
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func Test_commandLine_run_help(t *testing.T) {
	cli, _ := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: []string{"admin"}},
		{name: "unknown command", args: []string{"admin", "lol"}},
		{name: "resetpassword: no args", args: []string{"admin", "resetpassword"}},
		{name: "createsuperuser: no args", args: []string{"admin", "createsuperuser"}},
		{name: "createsuperuser: missing email", args: []string{"admin", "createsuperuser", "-nombre", "Ana", "-apellido", "Prueba", "-documento", "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, errHelp, cli.run(tt.args))
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, repo := setup(t)

	usr := createUser(t, repo, "awe@test.cd", "mdr")

	t.Run("empty password", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }
		err := cli.run([]string{"admin", "resetpassword", "-email", usr.Email})
		assert.Equal(t, errHelp, err)
	})

	t.Run("user not found", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("lol"), nil }
		err := cli.run([]string{"admin", "resetpassword", "-email", "nope@test.cd"})
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("password reset", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("nueva"), nil }
		err := cli.run([]string{"admin", "resetpassword", "-email", usr.Email})
		require.NoError(t, err)

		refreshed, err := repo.GetUserByID(context.Background(), usr.ID)
		require.NoError(t, err)
		assert.False(t, bytes.Equal(refreshed.PasswordHash, usr.PasswordHash))
		assert.NoError(t, refreshed.CheckPassword("nueva"))
	})
}

func Test_commandLine_createSuperuser(t *testing.T) {
	cli, repo := setup(t)
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("secreta"), nil }

	args := []string{
		"admin", "createsuperuser",
		"-nombre", "Admin", "-apellido", "Root",
		"-documento", "999", "-email", "Admin@Test.cd",
	}
	require.NoError(t, cli.run(args))

	usr, err := repo.GetUserByEmail(context.Background(), "admin@test.cd")
	require.NoError(t, err)
	require.NotNil(t, usr.RoleID)
	assert.Equal(t, user.AdminRoleID, *usr.RoleID)
	assert.NoError(t, usr.CheckPassword("secreta"))
	require.NotNil(t, usr.IsActive)
	assert.True(t, *usr.IsActive)

	// running again updates the same account
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("otra"), nil }
	require.NoError(t, cli.run(args))

	refreshed, err := repo.GetUserByEmail(context.Background(), "admin@test.cd")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, refreshed.ID)
	assert.NoError(t, refreshed.CheckPassword("otra"))
}
