package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/usermanager/internal/models"
)

// ListUsers returns the users in the order the directory returns them. An
// empty collection yields an empty, non-nil slice.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if err := expectSuccess(resp); err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := json.Unmarshal(resp.Body(), &users); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}

	logrus.WithField("count", len(users)).Debug("Listed directory users")

	return users, nil
}

// CreateUser creates a user whose login is its email address. The user is
// activated unless req.Activate is explicitly false.
func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	query := map[string]string{
		"activate": strconv.FormatBool(req.ShouldActivate()),
	}
	if req.SendEmail {
		query["sendEmail"] = "true"
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL, req.Body(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := expectSuccess(resp); err != nil {
		return nil, err
	}

	user, err := decodeUser(resp)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"login":   user.GetLogin(),
	}).Info("Created directory user")

	return user, nil
}

// UpdateUser sends a partial profile update for userID.
func (c *Client) UpdateUser(ctx context.Context, userID string, update models.UserUpdate) (*models.User, error) {
	resp, err := c.do(ctx, http.MethodPut, c.userURL(userID), update, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := expectSuccess(resp); err != nil {
		return nil, err
	}

	user, err := decodeUser(resp)
	if err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("Updated directory user")

	return user, nil
}

// ActivateUser runs the activate lifecycle operation.
func (c *Client) ActivateUser(ctx context.Context, userID string) (*models.User, error) {
	return c.lifecycle(ctx, userID, "activate")
}

// DeactivateUser runs the deactivate lifecycle operation.
func (c *Client) DeactivateUser(ctx context.Context, userID string) (*models.User, error) {
	return c.lifecycle(ctx, userID, "deactivate")
}

func (c *Client) lifecycle(ctx context.Context, userID string, operation string) (*models.User, error) {
	resp, err := c.do(ctx, http.MethodPost, c.userURL(userID, "lifecycle", operation), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to %s user: %w", operation, err)
	}

	if err := expectSuccess(resp); err != nil {
		return nil, err
	}

	// Deactivate answers with an empty body and activate with an activation
	// token rather than a user.
	user := &models.User{ID: userID}
	if len(bytes.TrimSpace(resp.Body())) > 0 {
		decoded, err := decodeUser(resp)
		if err != nil {
			return nil, err
		}
		if len(decoded.ID) > 0 {
			user = decoded
		}
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"operation": operation,
	}).Info("Changed directory user lifecycle")

	return user, nil
}
