package shell

import (
	"context"
	"fmt"

	"github.com/thand-io/usermanager/internal/models"
)

func (s *Shell) listUsers(ctx context.Context) error {
	var users []models.User
	err := s.call(ctx, func(ctx context.Context) (err error) {
		users, err = s.directory.ListUsers(ctx)
		return err
	})
	if err != nil {
		s.printError("Failed to list users: %v", err)
		return nil
	}

	if len(users) == 0 {
		fmt.Fprintln(s.out, infoStyle.Render("No users found."))
		return nil
	}

	for _, user := range users {
		line := fmt.Sprintf("%s %s", user.GetLogin(), user.ID)
		if len(user.Status) > 0 && !user.IsActive() {
			line = inactiveStyle.Render(line)
		}
		fmt.Fprintln(s.out, line)
	}

	return nil
}

func (s *Shell) createUser(ctx context.Context) error {
	answers, err := s.prompt("Enter email", "Enter first name", "Enter last name", "Enter department")
	if err != nil {
		return err
	}

	activate := s.options.Activate
	req := models.CreateUserRequest{
		Email:      answers[0],
		FirstName:  answers[1],
		LastName:   answers[2],
		Department: answers[3],
		Activate:   &activate,
		SendEmail:  s.options.SendEmail,
	}

	var user *models.User
	err = s.call(ctx, func(ctx context.Context) (err error) {
		user, err = s.directory.CreateUser(ctx, req)
		return err
	})
	if err != nil {
		s.printError("Failed to create user %s: %v", req.Email, err)
		return nil
	}

	s.printSuccess("User created: %s", user.ID)
	return nil
}

func (s *Shell) updateUser(ctx context.Context) error {
	answers, err := s.prompt("Enter User ID to update", "Enter new email")
	if err != nil {
		return err
	}

	userID := answers[0]
	update := models.UserUpdate{
		Profile: models.Profile{Email: answers[1]},
	}

	var user *models.User
	err = s.call(ctx, func(ctx context.Context) (err error) {
		user, err = s.directory.UpdateUser(ctx, userID, update)
		return err
	})
	if err != nil {
		s.printError("Failed to update user %s: %v", userID, err)
		return nil
	}

	s.printSuccess("User updated: %s", user.ID)
	return nil
}

func (s *Shell) activateUser(ctx context.Context) error {
	return s.lifecycle(ctx, "activate", "activated", s.directory.ActivateUser)
}

func (s *Shell) deactivateUser(ctx context.Context) error {
	return s.lifecycle(ctx, "deactivate", "deactivated", s.directory.DeactivateUser)
}

func (s *Shell) lifecycle(
	ctx context.Context,
	verb string,
	pastTense string,
	operation func(ctx context.Context, userID string) (*models.User, error),
) error {
	answers, err := s.prompt(fmt.Sprintf("Enter User ID to %s", verb))
	if err != nil {
		return err
	}

	userID := answers[0]

	var user *models.User
	err = s.call(ctx, func(ctx context.Context) (err error) {
		user, err = operation(ctx, userID)
		return err
	})
	if err != nil {
		s.printError("Failed to %s user %s: %v", verb, userID, err)
		return nil
	}

	if user != nil && len(user.ID) > 0 {
		userID = user.ID
	}

	s.printSuccess("User %s: %s", pastTense, userID)
	return nil
}

func (s *Shell) assignUserToGroup(ctx context.Context) error {
	answers, err := s.prompt("Enter User ID", "Enter Group ID to assign the user to")
	if err != nil {
		return err
	}

	membership := models.Membership{UserID: answers[0], GroupID: answers[1]}

	err = s.call(ctx, func(ctx context.Context) error {
		return s.directory.AssignUserToGroup(ctx, membership.UserID, membership.GroupID)
	})
	if err != nil {
		s.printError("Failed to assign user %s to group %s.", membership.UserID, membership.GroupID)
		s.printDetail(err)
		return nil
	}

	s.printSuccess("User %s assigned to group %s.", membership.UserID, membership.GroupID)
	return nil
}

func (s *Shell) removeUserFromGroup(ctx context.Context) error {
	answers, err := s.prompt("Enter User ID", "Enter Group ID to remove the user from")
	if err != nil {
		return err
	}

	membership := models.Membership{UserID: answers[0], GroupID: answers[1]}

	err = s.call(ctx, func(ctx context.Context) error {
		return s.directory.RemoveUserFromGroup(ctx, membership.UserID, membership.GroupID)
	})
	if err != nil {
		s.printError("Failed to remove user %s from group %s.", membership.UserID, membership.GroupID)
		s.printDetail(err)
		return nil
	}

	s.printSuccess("User %s removed from group %s.", membership.UserID, membership.GroupID)
	return nil
}
