package directory

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// The directory reports membership changes only through the response
// status. Nothing else counts as success.
const (
	StatusGroupAssigned = http.StatusOK
	StatusGroupRemoved  = http.StatusNoContent
)

// AssignUserToGroup adds userID to groupID. Any status other than
// StatusGroupAssigned is returned as an *APIError.
func (c *Client) AssignUserToGroup(ctx context.Context, userID, groupID string) error {
	resp, err := c.do(ctx, http.MethodPut, c.membershipURL(userID, groupID), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to assign user to group: %w", err)
	}

	if err := expectStatus(resp, StatusGroupAssigned); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"group_id": groupID,
	}).Info("Assigned user to group")

	return nil
}

// RemoveUserFromGroup removes userID from groupID. Any status other than
// StatusGroupRemoved is returned as an *APIError.
func (c *Client) RemoveUserFromGroup(ctx context.Context, userID, groupID string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.membershipURL(userID, groupID), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to remove user from group: %w", err)
	}

	if err := expectStatus(resp, StatusGroupRemoved); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"group_id": groupID,
	}).Info("Removed user from group")

	return nil
}
