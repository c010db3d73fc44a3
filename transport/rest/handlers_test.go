package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	events "github.com/rocketscienceinc/gomoku-backend/internal/transport/redis"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := discardLogger()
	boards := service.NewBoardService(logger, entity.DefaultGeometry(), repository.NewBoardRepository(), events.NopPublisher{})

	server := httptest.NewServer(NewRouter(logger, boards, nil))
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func createBoard(t *testing.T, server *httptest.Server) service.BoardState {
	t.Helper()

	var state service.BoardState
	status := doJSON(t, http.MethodPost, server.URL+"/boards", nil, &state)
	require.Equal(t, http.StatusCreated, status)

	return state
}

func TestPing(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestBoardHandler_Lifecycle(t *testing.T) {
	server := newTestServer(t)

	// Given: a new board
	state := createBoard(t, server)
	boardURL := server.URL + "/boards/" + state.ID
	assert.Equal(t, entity.DefaultGeometry(), state.Geometry)

	// When: a black piece is placed near node (1,0)
	var placement entity.Placement
	status := doJSON(t, http.MethodPost, boardURL+"/pieces", map[string]any{"x": 141, "y": 75, "kind": "black"}, &placement)

	// Then: the placement should be created on node (1,0)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, entity.Node{X: 1, Y: 0}, placement.Node)
	assert.Equal(t, entity.Pixel{X: 150, Y: 75}, placement.Piece.Position)

	// And: the board state should show it as last placed
	var updated service.BoardState
	status = doJSON(t, http.MethodGet, boardURL, nil, &updated)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, updated.Pieces, 1)
	require.NotNil(t, updated.LastPlaced)
	assert.Equal(t, entity.Node{X: 1, Y: 0}, *updated.LastPlaced)

	// And: the cell should report black
	var cell cellResponse
	status = doJSON(t, http.MethodGet, boardURL+"/cells/1/0", nil, &cell)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.PieceBlack, cell.Kind)

	// When: the board is deleted
	status = doJSON(t, http.MethodDelete, boardURL, nil, nil)
	require.Equal(t, http.StatusNoContent, status)

	// Then: it should no longer be found
	var errResp errorResponse
	status = doJSON(t, http.MethodGet, boardURL, nil, &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, errResp.Error, "board not found")
}

func TestBoardHandler_ListBoards(t *testing.T) {
	server := newTestServer(t)

	// Given: no boards yet
	var states []service.BoardState
	status := doJSON(t, http.MethodGet, server.URL+"/boards", nil, &states)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, states)

	// When: a board is created
	created := createBoard(t, server)

	// Then: it should be listed
	status = doJSON(t, http.MethodGet, server.URL+"/boards", nil, &states)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, states, 1)
	assert.Equal(t, created.ID, states[0].ID)
}

func TestBoardHandler_Place(t *testing.T) {
	server := newTestServer(t)
	state := createBoard(t, server)
	piecesURL := server.URL + "/boards/" + state.ID + "/pieces"

	status := doJSON(t, http.MethodPost, piecesURL, map[string]any{"x": 75, "y": 75, "kind": "black"}, nil)
	require.Equal(t, http.StatusCreated, status)

	testCases := []struct {
		name   string
		body   any
		status int
	}{
		{name: "occupied cell", body: map[string]any{"x": 75, "y": 75, "kind": "white"}, status: http.StatusConflict},
		{name: "dead zone", body: map[string]any{"x": 100, "y": 75, "kind": "white"}, status: http.StatusUnprocessableEntity},
		{name: "none kind", body: map[string]any{"x": 150, "y": 75, "kind": "none"}, status: http.StatusBadRequest},
		{name: "unknown kind", body: map[string]any{"x": 150, "y": 75, "kind": "red"}, status: http.StatusBadRequest},
		{name: "malformed body", body: "not an object", status: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp errorResponse
			status := doJSON(t, http.MethodPost, piecesURL, tc.body, &errResp)

			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, errResp.Error)
		})
	}

	t.Run("oversized body", func(t *testing.T) {
		body := map[string]any{"x": 150, "y": 75, "kind": "white", "padding": strings.Repeat("a", maxPlaceBodyBytes)}

		var errResp errorResponse
		status := doJSON(t, http.MethodPost, piecesURL, body, &errResp)

		assert.Equal(t, http.StatusRequestEntityTooLarge, status)
		assert.NotEmpty(t, errResp.Error)
	})

	t.Run("board is unchanged after rejected placements", func(t *testing.T) {
		var updated service.BoardState
		status := doJSON(t, http.MethodGet, server.URL+"/boards/"+state.ID, nil, &updated)
		require.Equal(t, http.StatusOK, status)

		require.Len(t, updated.Pieces, 1)
		assert.Equal(t, entity.PieceBlack, updated.Pieces[0].Piece.Kind)
		assert.Equal(t, entity.Node{X: 0, Y: 0}, *updated.LastPlaced)
	})
}

func TestBoardHandler_ResolveNode(t *testing.T) {
	server := newTestServer(t)
	state := createBoard(t, server)
	resolveURL := server.URL + "/boards/" + state.ID + "/resolve"

	t.Run("Matched", func(t *testing.T) {
		var resp resolveResponse
		status := doJSON(t, http.MethodGet, resolveURL+"?x=84&y=75", nil, &resp)

		require.Equal(t, http.StatusOK, status)
		assert.True(t, resp.Matched)
		assert.Equal(t, &entity.Node{X: 0, Y: 0}, resp.Node)
	})

	t.Run("No match is not an error", func(t *testing.T) {
		var resp resolveResponse
		status := doJSON(t, http.MethodGet, resolveURL+"?x=1&y=1", nil, &resp)

		require.Equal(t, http.StatusOK, status)
		assert.False(t, resp.Matched)
		assert.Nil(t, resp.Node)
	})

	t.Run("Bad coordinate", func(t *testing.T) {
		status := doJSON(t, http.MethodGet, resolveURL+"?x=abc&y=1", nil, nil)

		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestBoardHandler_CanPlace(t *testing.T) {
	server := newTestServer(t)
	state := createBoard(t, server)
	boardURL := server.URL + "/boards/" + state.ID

	var resp canPlaceResponse
	status := doJSON(t, http.MethodGet, boardURL+"/can-place?x=75&y=75", nil, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.CanPlace)

	status = doJSON(t, http.MethodPost, boardURL+"/pieces", map[string]any{"x": 75, "y": 75, "kind": "white"}, nil)
	require.Equal(t, http.StatusCreated, status)

	status = doJSON(t, http.MethodGet, boardURL+"/can-place?x=75&y=75", nil, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, resp.CanPlace)
}

func TestBoardHandler_PieceKindAt(t *testing.T) {
	server := newTestServer(t)
	state := createBoard(t, server)
	cellsURL := server.URL + "/boards/" + state.ID + "/cells/"

	var cell cellResponse
	status := doJSON(t, http.MethodGet, cellsURL+"4/4", nil, &cell)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.PieceNone, cell.Kind)

	status = doJSON(t, http.MethodGet, cellsURL+"9/0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, http.MethodGet, cellsURL+"x/0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
