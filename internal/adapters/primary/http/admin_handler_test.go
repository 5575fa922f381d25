package http

import (
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminDashboard(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)

	created := createTicketViaAPI(t, router, creatorToken, "Dashboard sample")

	recorder := doRequest(router, stdhttp.MethodGet, "/admin/dashboard", staffToken, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response DashboardResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.GreaterOrEqual(t, response.TotalTickets, int64(1))
	assert.NotEmpty(t, response.StatusCounts)
	require.NotEmpty(t, response.RecentTickets)
	assert.LessOrEqual(t, len(response.RecentTickets), 10)

	// The ticket just filed shows up among the most recent.
	found := false
	for _, ticket := range response.RecentTickets {
		if ticket.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found, "expected the new ticket among recent tickets")
}

func TestAdminDashboard_Forbidden(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	user := registerUser(t, ctx, "Ordinary User")
	token := tokenFor(t, tokenManager, user.ID)

	recorder := doRequest(router, stdhttp.MethodGet, "/admin/dashboard", token, nil)
	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestAdminPurgeClosedTickets(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)

	keep := createTicketViaAPI(t, router, creatorToken, "Still open")
	gone := createTicketViaAPI(t, router, creatorToken, "Done for good")
	closeTicketViaAPI(t, router, staffToken, gone.ID)

	recorder := doRequest(router, stdhttp.MethodDelete, "/admin/closed-tickets", staffToken, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response PurgeResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.GreaterOrEqual(t, response.DeletedCount, int64(1))

	// The closed ticket is gone for good; the open one survives.
	recorder = doRequest(router, stdhttp.MethodGet, fmt.Sprintf("/tickets/%d", gone.ID), staffToken, nil)
	assert.Equal(t, stdhttp.StatusNotFound, recorder.Code)

	recorder = doRequest(router, stdhttp.MethodGet, fmt.Sprintf("/tickets/%d", keep.ID), staffToken, nil)
	assert.Equal(t, stdhttp.StatusOK, recorder.Code)
}

func TestAdminPurgeClosedTickets_Forbidden(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	user := registerUser(t, ctx, "Ordinary User")
	token := tokenFor(t, tokenManager, user.ID)

	recorder := doRequest(router, stdhttp.MethodDelete, "/admin/closed-tickets", token, nil)
	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestAdminListAssignees(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)

	recorder := doRequest(router, stdhttp.MethodGet, "/admin/assignees", staffToken, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response ListResponse[AssigneeDTO]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.NotZero(t, response.Count)

	found := false
	for _, assignee := range response.Data {
		if assignee.ID == staff.ID.String() {
			found = true
			assert.Equal(t, "Help Desk", assignee.FullName)
		}
	}
	assert.True(t, found, "expected the staff member in the assignee list")
}

func TestAdminListAssignees_Forbidden(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	user := registerUser(t, ctx, "Ordinary User")
	token := tokenFor(t, tokenManager, user.ID)

	recorder := doRequest(router, stdhttp.MethodGet, "/admin/assignees", token, nil)
	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}
