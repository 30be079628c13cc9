// Package cli implements campusctl, the operator tool for CampusLink.
package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/buildinfo"
	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

var (
	errUsage            = errors.New("usage error")
	errPasswordMismatch = errors.New("passwords do not match")
)

// UserCreator is the slice of the user service campusctl needs.
type UserCreator interface {
	CreateUser(ctx context.Context, name, email, password string, role models.Role) (*models.User, error)
}

// Connector opens the backing store on demand, so that usage errors never
// touch the database.
type Connector func(ctx context.Context) (UserCreator, io.Closer, error)

type App struct {
	out     io.Writer
	connect Connector
}

func NewApp(out io.Writer, connect Connector) *App {
	return &App{out: out, connect: connect}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: campusctl <command> [flags]")
	fmt.Fprintln(a.out, "")
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  create-user -email E [-name N] [-role student|staff|admin] [-c config.json] [-d dsn]")
	fmt.Fprintln(a.out, "  version")
	fmt.Fprintln(a.out, "  help")
}

// Run executes the command in args and returns the process exit code:
// 0 on success, 1 on failure and 2 on a usage error.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}

	var err error
	switch args[0] {
	case "help", "-h", "-help", "--help":
		a.usage()
		return 0
	case "version":
		buildinfo.PrintBuildData(a.out)
		return 0
	case "create-user":
		err = a.createUser(ctx, args[1:])
	default:
		fmt.Fprintf(a.out, "Unknown command %q\n", args[0])
		a.usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		if msg := common.Message(err); msg != "" {
			fmt.Fprintf(a.out, "Error: %s\n", msg)
		} else {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
		return 1
	}
}

type createUserOptions struct {
	email string
	name  string
	role  string
}

func (a *App) parseCreateUser(args []string) (*createUserOptions, error) {
	o := &createUserOptions{}

	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&o.email, "email", "", "email address (required)")
	fs.StringVar(&o.name, "name", "", "display name (defaults to the email local part)")
	fs.StringVar(&o.role, "role", string(models.RoleStudent), "role: student, staff or admin")
	// Consumed by the configuration layers.
	fs.String("c", "", "path to JSON config file")
	fs.String("config", "", "path to JSON config file")
	fs.String("d", "", "database DSN")
	fs.String("env", "", "path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if strings.TrimSpace(o.email) == "" {
		fmt.Fprintln(a.out, "-email is required")
		fs.Usage()
		return nil, errUsage
	}
	if !models.Role(o.role).Valid() {
		fmt.Fprintf(a.out, "Invalid role %q\n", o.role)
		return nil, errUsage
	}
	return o, nil
}

func (a *App) readNewPassword() ([]byte, error) {
	pw, err := GetPassword(a.out, "Enter password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := GetPassword(a.out, "Confirm password: ")
	defer common.WipeByteArray(confirm)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	o, err := a.parseCreateUser(args)
	if err != nil {
		return err
	}

	pw, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	users, closer, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	u, err := users.CreateUser(ctx, o.name, o.email, string(pw), models.Role(o.role))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created %s %s (%s) with id %s\n", u.Role, u.DisplayName(), u.Email, u.ID)
	return nil
}
