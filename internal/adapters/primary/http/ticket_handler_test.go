package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTicketViaAPI files a ticket through the API and returns its DTO.
func createTicketViaAPI(t *testing.T, router *chi.Mux, token, title string) TicketDTO {
	t.Helper()

	payload := fmt.Sprintf(`{"title":%q,"description":"integration test","priority":"MEDIUM"}`, title)
	recorder := doRequest(router, stdhttp.MethodPost, "/tickets", token, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusCreated, recorder.Code)

	var ticket TicketDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&ticket))
	return ticket
}

// closeTicketViaAPI moves a ticket to CLOSED using a staff token.
func closeTicketViaAPI(t *testing.T, router *chi.Mux, staffToken string, ticketID int64) {
	t.Helper()

	payload := `{"status":"CLOSED","priority":"MEDIUM"}`
	recorder := doRequest(router, stdhttp.MethodPatch, fmt.Sprintf("/tickets/%d", ticketID), staffToken, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusOK, recorder.Code)
}

func TestCreateTicket(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	user := registerUser(t, ctx, "Reporter")
	token := tokenFor(t, tokenManager, user.ID)

	ticket := createTicketViaAPI(t, router, token, "Screen flickers")

	assert.NotZero(t, ticket.ID)
	assert.Equal(t, "Screen flickers", ticket.Title)
	assert.Equal(t, "OPEN", ticket.Status)
	assert.Equal(t, user.ID.String(), ticket.CreatedBy)
	assert.Nil(t, ticket.AssigneeID)
	assert.False(t, ticket.IsArchived)
}

func TestCreateTicket_NonStaffAssigneeDiscarded(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	user := registerUser(t, ctx, "Reporter")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)
	token := tokenFor(t, tokenManager, user.ID)

	payload := fmt.Sprintf(`{"title":"Sneaky","description":"d","priority":"LOW","assigneeId":%q}`, staff.ID.String())
	recorder := doRequest(router, stdhttp.MethodPost, "/tickets", token, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusCreated, recorder.Code)

	var ticket TicketDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&ticket))
	assert.Nil(t, ticket.AssigneeID)
}

func TestCreateTicket_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	user := registerUser(t, ctx, "Reporter")
	token := tokenFor(t, tokenManager, user.ID)

	payload := `{"title":"","description":"","priority":"URGENT"}`
	recorder := doRequest(router, stdhttp.MethodPost, "/tickets", token, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

	var response ValidationErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Contains(t, response.Fields, "title")
	assert.Contains(t, response.Fields, "description")
	assert.Contains(t, response.Fields, "priority")
}

func TestGetTicket_Visibility(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	stranger := registerUser(t, ctx, "Stranger")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Private issue")
	path := fmt.Sprintf("/tickets/%d", ticket.ID)

	// Creator sees it.
	recorder := doRequest(router, stdhttp.MethodGet, path, creatorToken, nil)
	assert.Equal(t, stdhttp.StatusOK, recorder.Code)

	// Staff see it.
	recorder = doRequest(router, stdhttp.MethodGet, path, tokenFor(t, tokenManager, staff.ID), nil)
	assert.Equal(t, stdhttp.StatusOK, recorder.Code)

	// Anyone else is forbidden.
	recorder = doRequest(router, stdhttp.MethodGet, path, tokenFor(t, tokenManager, stranger.ID), nil)
	assert.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestListTickets_Scoping(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	userA := registerUser(t, ctx, "User A")
	userB := registerUser(t, ctx, "User B")
	tokenA := tokenFor(t, tokenManager, userA.ID)
	tokenB := tokenFor(t, tokenManager, userB.ID)

	createTicketViaAPI(t, router, tokenA, "A's problem")
	createTicketViaAPI(t, router, tokenB, "B's problem")

	recorder := doRequest(router, stdhttp.MethodGet, "/tickets", tokenA, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response PaginatedResponse[TicketDTO]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.NotEmpty(t, response.Data)
	for _, ticket := range response.Data {
		assert.Equal(t, userA.ID.String(), ticket.CreatedBy)
	}
}

func TestUpdateTicket(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Needs triage")

	payload := fmt.Sprintf(`{"status":"IN_PROGRESS","priority":"CRITICAL","assigneeId":%q}`, staff.ID.String())
	recorder := doRequest(router, stdhttp.MethodPatch, fmt.Sprintf("/tickets/%d", ticket.ID), staffToken, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var updated TicketDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&updated))
	assert.Equal(t, "IN_PROGRESS", updated.Status)
	assert.Equal(t, "CRITICAL", updated.Priority)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, staff.ID.String(), *updated.AssigneeID)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestUpdateTicket_NonStaffForbidden(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	creatorToken := tokenFor(t, tokenManager, creator.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Mine but untouchable")

	// Even the creator cannot triage their own ticket.
	payload := `{"status":"RESOLVED","priority":"LOW"}`
	recorder := doRequest(router, stdhttp.MethodPatch, fmt.Sprintf("/tickets/%d", ticket.ID), creatorToken, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestAssignToMe(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Grab me")

	recorder := doRequest(router, stdhttp.MethodPost, fmt.Sprintf("/tickets/%d/assign-to-me", ticket.ID), staffToken, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var updated TicketDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&updated))
	assert.Equal(t, "IN_PROGRESS", updated.Status)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, staff.ID.String(), *updated.AssigneeID)
}

func TestAssignToMe_NonStaffForbidden(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	creatorToken := tokenFor(t, tokenManager, creator.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Not yours")

	recorder := doRequest(router, stdhttp.MethodPost, fmt.Sprintf("/tickets/%d/assign-to-me", ticket.ID), creatorToken, nil)
	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestArchiveTicket(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Finished business")
	closeTicketViaAPI(t, router, staffToken, ticket.ID)

	recorder := doRequest(router, stdhttp.MethodDelete, fmt.Sprintf("/tickets/%d", ticket.ID), staffToken, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var archived TicketDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&archived))
	assert.True(t, archived.IsArchived)
	assert.NotNil(t, archived.ArchivedAt)
	assert.Equal(t, "CLOSED", archived.Status)
}

func TestArchiveTicket_NotClosed(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Still open")

	recorder := doRequest(router, stdhttp.MethodDelete, fmt.Sprintf("/tickets/%d", ticket.ID), staffToken, nil)
	require.Equal(t, stdhttp.StatusConflict, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "TICKET_NOT_CLOSED", response.Code)
}

func TestComments_InternalVisibility(t *testing.T) {
	ctx := context.Background()
	router, tokenManager := newAPIRouter(t)

	creator := registerUser(t, ctx, "Creator")
	staff := registerUser(t, ctx, "Help Desk")
	promoteToStaff(t, ctx, staff.ID)

	creatorToken := tokenFor(t, tokenManager, creator.ID)
	staffToken := tokenFor(t, tokenManager, staff.ID)
	ticket := createTicketViaAPI(t, router, creatorToken, "Commented ticket")
	commentsPath := fmt.Sprintf("/tickets/%d/comments", ticket.ID)

	// Creator leaves a public comment; the internal flag is ignored for them.
	payload := `{"body":"It broke again","isInternal":true}`
	recorder := doRequest(router, stdhttp.MethodPost, commentsPath, creatorToken, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusCreated, recorder.Code)

	var created CommentDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	assert.False(t, created.IsInternal)

	// Staff leave an internal note.
	payload = `{"body":"User error, handle gently","isInternal":true}`
	recorder = doRequest(router, stdhttp.MethodPost, commentsPath, staffToken, bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusCreated, recorder.Code)

	// The creator sees only the public comment.
	recorder = doRequest(router, stdhttp.MethodGet, commentsPath, creatorToken, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var creatorView ListResponse[CommentDTO]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&creatorView))
	require.Equal(t, 1, creatorView.Count)
	assert.Equal(t, "It broke again", creatorView.Data[0].Body)

	// Staff see both.
	recorder = doRequest(router, stdhttp.MethodGet, commentsPath, staffToken, nil)
	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var staffView ListResponse[CommentDTO]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&staffView))
	assert.Equal(t, 2, staffView.Count)
}
