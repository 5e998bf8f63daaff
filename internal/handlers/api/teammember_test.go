package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

func TestHandleGetTeamMembers(t *testing.T) {
	_, db, _, router := setupTestAPI(t)

	createTestUser(t, db, "user1", "user1@example.com")
	createTestUser(t, db, "user2", "user2@example.com")
	createTestTeam(t, db, "team123", map[string][]string{
		"user1": {models.PermViewClients, models.PermAddEditContent},
	})
	createTestTeam(t, db, "empty-team", nil)
	require.NoError(t, db.Create(&models.Membership{
		TeamID:      "team123",
		UserID:      "user2",
		Permissions: models.PermViewClients,
		Status:      models.MembershipInactive,
	}).Error)

	rec := doRequest(t, router, http.MethodGet, "/api/team-member?teamId=team123", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []teamMember{
		{UserID: "user1", Email: "user1@example.com", Status: "active", Permissions: []string{"viewClients", "addEditContent"}},
		{UserID: "user2", Email: "user2@example.com", Status: "inactive", Permissions: []string{"viewClients"}},
	}, decodeJSON[[]teamMember](t, rec))

	rec = doRequest(t, router, http.MethodGet, "/api/team-member?teamId=empty-team", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/team-member", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "teamId must be provided", errorOf(t, rec))
}

func TestHandleInviteTeamMember(t *testing.T) {
	_, db, _, router := setupTestAPI(t)

	createTestTeam(t, db, "team123", nil)

	body := map[string]any{
		"email":       "NewUser@Example.com ",
		"teamId":      "team123",
		"permissions": []string{models.PermViewClients},
	}

	rec := doRequest(t, router, http.MethodPost, "/api/team-member", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decodeJSON[struct {
		Message    string         `json:"message"`
		Invitation invitationView `json:"invitation"`
	}](t, rec)
	assert.Equal(t, "Invitation sent successfully", got.Message)
	assert.Equal(t, "newuser@example.com", got.Invitation.Email)
	assert.Equal(t, "team123", got.Invitation.TeamID)
	assert.Equal(t, []string{models.PermViewClients}, got.Invitation.Permissions)
	assert.Equal(t, models.InvitationPending, got.Invitation.Status)
	assert.NotEmpty(t, got.Invitation.Token)
	assert.Equal(t, "http://localhost:3000/accept-invitation?token="+got.Invitation.Token, got.Invitation.InviteURL)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), got.Invitation.ExpiresAt, time.Minute)

	inv, err := storage.GetPendingInvitationByToken(db, got.Invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, got.Invitation.ID, inv.ID)

	// a second invite for the same email and team is not sent
	rec = doRequest(t, router, http.MethodPost, "/api/team-member", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		map[string]string{"message": "An invitation has already been sent to this email for this team"},
		decodeJSON[map[string]string](t, rec))

	var count int64
	require.NoError(t, db.Model(&models.Invitation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleInviteTeamMember_ExpiredInvitationIsResent(t *testing.T) {
	_, db, _, router := setupTestAPI(t)

	createTestTeam(t, db, "team123", nil)
	createTestInvitation(t, db, "old-token", "newuser@example.com", "team123", time.Now().Add(-time.Hour))

	rec := doRequest(t, router, http.MethodPost, "/api/team-member", map[string]any{
		"email":       "newuser@example.com",
		"teamId":      "team123",
		"permissions": []string{models.PermViewClients},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleInviteTeamMember_Error(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Missing permissions",
			body:           map[string]any{"email": "newuser@example.com", "teamId": "team123"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email, teamId, and permissions are required",
		},
		{
			name:           "Missing email",
			body:           map[string]any{"teamId": "team123", "permissions": []string{"viewClients"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email, teamId, and permissions are required",
		},
		{
			name:           "Invalid email",
			body:           map[string]any{"email": "not-an-email", "teamId": "team123", "permissions": []string{"viewClients"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid email format",
		},
		{
			name:           "Unknown permission",
			body:           map[string]any{"email": "newuser@example.com", "teamId": "team123", "permissions": []string{"view"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid permissions",
		},
		{
			name:           "Unknown team",
			body:           map[string]any{"email": "newuser@example.com", "teamId": "nope", "permissions": []string{"viewClients"}},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Team not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, db, _, router := setupTestAPI(t)
			createTestTeam(t, db, "team123", nil)

			rec := doRequest(t, router, http.MethodPost, "/api/team-member", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedError, errorOf(t, rec))
		})
	}
}

func TestHandleUpdateTeamMember(t *testing.T) {
	_, db, _, router := setupTestAPI(t)

	createTestUser(t, db, "user123", "user@example.com")
	createTestTeam(t, db, "team123", map[string][]string{"user123": {models.PermViewClients}})

	rec := doRequest(t, router, http.MethodPut, "/api/team-member?userId=user123&teamId=team123", map[string]any{
		"permissions": []string{models.PermViewClients, models.PermAddOrEditGroups},
		"status":      models.MembershipInactive,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeJSON[struct {
		Message string        `json:"message"`
		Member  updatedMember `json:"member"`
	}](t, rec)
	assert.Equal(t, "User updated successfully in the team", got.Message)
	assert.Equal(t, updatedMember{
		ID:          "user123",
		Email:       "user@example.com",
		Permissions: []string{models.PermViewClients, models.PermAddOrEditGroups},
		Status:      models.MembershipInactive,
		TeamID:      "team123",
	}, got.Member)

	m, err := storage.GetMembership(db, "team123", "user123")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipInactive, m.Status)
	assert.Equal(t, []string{models.PermViewClients, models.PermAddOrEditGroups}, m.PermissionList())

	// status only keeps the permissions
	rec = doRequest(t, router, http.MethodPut, "/api/team-member?userId=user123&teamId=team123", map[string]any{
		"status": models.MembershipActive,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	m, err = storage.GetMembership(db, "team123", "user123")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, m.Status)
	assert.Equal(t, []string{models.PermViewClients, models.PermAddOrEditGroups}, m.PermissionList())
}

func TestHandleUpdateTeamMember_Error(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		body           any
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Missing teamId",
			target:         "/api/team-member?userId=user123",
			body:           map[string]any{"permissions": []string{"viewClients"}},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing userId or teamId",
		},
		{
			name:           "No fields",
			target:         "/api/team-member?userId=user123&teamId=team123",
			body:           map[string]any{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "No fields provided for update",
		},
		{
			name:           "Invalid status",
			target:         "/api/team-member?userId=user123&teamId=team123",
			body:           map[string]any{"status": "banned"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid status",
		},
		{
			name:           "Not a member",
			target:         "/api/team-member?userId=other&teamId=team123",
			body:           map[string]any{"permissions": []string{"viewClients"}},
			expectedStatus: http.StatusNotFound,
			expectedError:  "User not found in the specified team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, db, _, router := setupTestAPI(t)
			createTestUser(t, db, "user123", "user@example.com")
			createTestTeam(t, db, "team123", map[string][]string{"user123": {models.PermViewClients}})

			rec := doRequest(t, router, http.MethodPut, tt.target, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedError, errorOf(t, rec))
		})
	}
}

func TestHandleDeleteTeamMember(t *testing.T) {
	_, db, _, router := setupTestAPI(t)

	createTestUser(t, db, "user123", "user@example.com")
	createTestTeam(t, db, "team123", map[string][]string{"user123": {models.PermViewClients}})

	rec := doRequest(t, router, http.MethodDelete, "/api/team-member?userId=user123", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing userId or teamId", errorOf(t, rec))

	rec = doRequest(t, router, http.MethodDelete, "/api/team-member?userId=user123&teamId=team123", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/team-member?userId=user123&teamId=team123", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found in the specified team", errorOf(t, rec))
}

func TestInviteURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{name: "trailing slash", baseURL: "http://localhost:3000/", want: "http://localhost:3000/accept-invitation?token=a+b%26c"},
		{name: "no trailing slash", baseURL: "http://localhost:3000", want: "http://localhost:3000/accept-invitation?token=a+b%26c"},
		{name: "relative", baseURL: "", want: "/accept-invitation?token=a+b%26c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InviteURL(tt.baseURL, "a b&c"))
		})
	}
}
