// Package shell implements the interactive menu used to administer
// directory users.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thand-io/usermanager/internal/common"
	"github.com/thand-io/usermanager/internal/models"
)

// Directory is the set of operations the shell drives.
type Directory interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, update models.UserUpdate) (*models.User, error)
	ActivateUser(ctx context.Context, userID string) (*models.User, error)
	DeactivateUser(ctx context.Context, userID string) (*models.User, error)
	AssignUserToGroup(ctx context.Context, userID, groupID string) error
	RemoveUserFromGroup(ctx context.Context, userID, groupID string) error
}

// Options carries the defaults applied to created users.
type Options struct {
	Activate  bool
	SendEmail bool
}

func DefaultOptions() Options {
	return Options{Activate: true}
}

type menuEntry struct {
	key    string
	label  string
	action func(ctx context.Context) error
}

// Shell is a read-evaluate-print loop over a Directory. Nothing is kept
// between iterations.
type Shell struct {
	directory Directory
	prompter  Prompter
	out       io.Writer
	options   Options
	sessionID uuid.UUID
	entries   []menuEntry
}

func New(directory Directory, prompter Prompter, out io.Writer, options Options) *Shell {
	s := &Shell{
		directory: directory,
		prompter:  prompter,
		out:       out,
		options:   options,
		sessionID: uuid.New(),
	}

	s.entries = []menuEntry{
		{key: "1", label: "List Users", action: s.listUsers},
		{key: "2", label: "Create User", action: s.createUser},
		{key: "3", label: "Update User", action: s.updateUser},
		{key: "4", label: "Activate User", action: s.activateUser},
		{key: "5", label: "Deactivate User", action: s.deactivateUser},
		{key: "6", label: "Assign User to Group", action: s.assignUserToGroup},
		{key: "7", label: "Remove User from Group", action: s.removeUserFromGroup},
		{key: "8", label: "Exit"},
	}

	return s
}

// Run loops until the operator exits or input ends. Failed operations are
// reported and the loop carries on; only input errors are returned.
func (s *Shell) Run(ctx context.Context) error {
	log := logrus.WithField("session_id", s.sessionID.String())
	log.Debug("Started interactive session")
	defer log.Debug("Ended interactive session")

	for {
		s.printMenu()

		choice, err := s.prompter.Prompt("Enter choice")
		if err != nil {
			if isEndOfInput(err) {
				return nil
			}
			return fmt.Errorf("failed to read choice: %w", err)
		}

		exit, err := s.Dispatch(ctx, choice)
		if err != nil {
			if isEndOfInput(err) {
				return nil
			}
			return err
		}

		if exit {
			return nil
		}
	}
}

// Dispatch performs a single menu choice. It reports whether the choice
// ends the loop. The returned error is only ever an input error.
func (s *Shell) Dispatch(ctx context.Context, choice string) (bool, error) {
	choice = strings.TrimSpace(choice)

	for _, entry := range s.entries {
		if entry.key != choice {
			continue
		}

		if entry.action == nil {
			return true, nil
		}

		logrus.WithFields(logrus.Fields{
			"session_id": s.sessionID.String(),
			"choice":     entry.label,
		}).Debug("Running menu action")

		return false, entry.action(ctx)
	}

	s.printError("Invalid choice.")
	return false, nil
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, titleStyle.Render("Choose an action:"))
	for _, entry := range s.entries {
		fmt.Fprintf(s.out, "%s %s\n", menuKeyStyle.Render(entry.key+"."), entry.label)
	}
}

// call runs fn with a context that Ctrl+C cancels, so an interrupt aborts
// the request in flight and not the whole program.
func (s *Shell) call(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cleanup := common.WithInterrupt(ctx)
	defer cleanup()
	return fn(callCtx)
}

func (s *Shell) prompt(labels ...string) ([]string, error) {
	answers := make([]string, 0, len(labels))
	for _, label := range labels {
		answer, err := s.prompter.Prompt(label)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

func (s *Shell) printSuccess(format string, args ...any) {
	fmt.Fprintln(s.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (s *Shell) printError(format string, args ...any) {
	fmt.Fprintln(s.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (s *Shell) printDetail(err error) {
	fmt.Fprintln(s.out, warningStyle.Render("  "+err.Error()))
}
