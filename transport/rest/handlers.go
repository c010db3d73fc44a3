package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
)

// maxPlaceBodyBytes fits {x, y, kind} with plenty of room.
const maxPlaceBodyBytes = 1 << 10

var errBadCoordinate = errors.New("invalid coordinate")

type boardService interface {
	CreateBoard(ctx context.Context) (*service.BoardState, error)
	GetBoard(ctx context.Context, id string) (*service.BoardState, error)
	ListBoards(ctx context.Context) ([]*service.BoardState, error)
	DeleteBoard(ctx context.Context, id string) error

	ResolveNode(ctx context.Context, id string, pixelX, pixelY int) (entity.Node, error)
	CanPlace(ctx context.Context, id string, pixelX, pixelY int) (bool, error)
	Place(ctx context.Context, id string, pixelX, pixelY int, kind entity.PieceKind) (entity.Placement, error)
	PieceKindAt(ctx context.Context, id string, x, y int) (entity.PieceKind, error)
}

type placeRequest struct {
	X    int              `json:"x"`
	Y    int              `json:"y"`
	Kind entity.PieceKind `json:"kind"`
}

type resolveResponse struct {
	Matched bool         `json:"matched"`
	Node    *entity.Node `json:"node,omitempty"`
}

type canPlaceResponse struct {
	CanPlace bool `json:"can_place"`
}

type cellResponse struct {
	Kind entity.PieceKind `json:"kind"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type BoardHandler struct {
	logger *slog.Logger
	boards boardService
}

func NewBoardHandler(logger *slog.Logger, boards boardService) *BoardHandler {
	return &BoardHandler{
		logger: logger.With("component", "board-handler"),
		boards: boards,
	}
}

func (that *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	state, err := that.boards.CreateBoard(r.Context())
	if err != nil {
		that.writeError(w, "CreateBoard", err)
		return
	}

	writeJSON(w, http.StatusCreated, state)
}

func (that *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	state, err := that.boards.GetBoard(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		that.writeError(w, "GetBoard", err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (that *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	states, err := that.boards.ListBoards(r.Context())
	if err != nil {
		that.writeError(w, "ListBoards", err)
		return
	}

	writeJSON(w, http.StatusOK, states)
}

func (that *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := that.boards.DeleteBoard(r.Context(), chi.URLParam(r, "boardID")); err != nil {
		that.writeError(w, "DeleteBoard", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *BoardHandler) ResolveNode(w http.ResponseWriter, r *http.Request) {
	pixelX, pixelY, err := queryPixel(r)
	if err != nil {
		that.writeError(w, "ResolveNode", err)
		return
	}

	node, err := that.boards.ResolveNode(r.Context(), chi.URLParam(r, "boardID"), pixelX, pixelY)
	if errors.Is(err, apperror.ErrNoMatchingNode) {
		writeJSON(w, http.StatusOK, resolveResponse{Matched: false})
		return
	}

	if err != nil {
		that.writeError(w, "ResolveNode", err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{Matched: true, Node: &node})
}

func (that *BoardHandler) CanPlace(w http.ResponseWriter, r *http.Request) {
	pixelX, pixelY, err := queryPixel(r)
	if err != nil {
		that.writeError(w, "CanPlace", err)
		return
	}

	canPlace, err := that.boards.CanPlace(r.Context(), chi.URLParam(r, "boardID"), pixelX, pixelY)
	if err != nil {
		that.writeError(w, "CanPlace", err)
		return
	}

	writeJSON(w, http.StatusOK, canPlaceResponse{CanPlace: canPlace})
}

func (that *BoardHandler) Place(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPlaceBodyBytes)

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		writeJSON(w, status, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	placement, err := that.boards.Place(r.Context(), chi.URLParam(r, "boardID"), req.X, req.Y, req.Kind)
	if err != nil {
		that.writeError(w, "Place", err)
		return
	}

	writeJSON(w, http.StatusCreated, placement)
}

func (that *BoardHandler) PieceKindAt(w http.ResponseWriter, r *http.Request) {
	x, err := strconv.Atoi(chi.URLParam(r, "x"))
	if err != nil {
		that.writeError(w, "PieceKindAt", fmt.Errorf("%w: x", errBadCoordinate))
		return
	}

	y, err := strconv.Atoi(chi.URLParam(r, "y"))
	if err != nil {
		that.writeError(w, "PieceKindAt", fmt.Errorf("%w: y", errBadCoordinate))
		return
	}

	kind, err := that.boards.PieceKindAt(r.Context(), chi.URLParam(r, "boardID"), x, y)
	if err != nil {
		that.writeError(w, "PieceKindAt", err)
		return
	}

	writeJSON(w, http.StatusOK, cellResponse{Kind: kind})
}

func (that *BoardHandler) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrBoardNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrNoMatchingNode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrInvalidPieceKind),
		errors.Is(err, apperror.ErrNodeOutOfRange),
		errors.Is(err, errBadCoordinate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func queryPixel(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: x", errBadCoordinate)
	}

	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: y", errBadCoordinate)
	}

	return pixelX, pixelY, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
