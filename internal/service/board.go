package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type BoardService interface {
	CreateBoard(ctx context.Context) (*BoardState, error)
	GetBoard(ctx context.Context, id string) (*BoardState, error)
	ListBoards(ctx context.Context) ([]*BoardState, error)
	DeleteBoard(ctx context.Context, id string) error

	ResolveNode(ctx context.Context, id string, pixelX, pixelY int) (entity.Node, error)
	CanPlace(ctx context.Context, id string, pixelX, pixelY int) (bool, error)
	Place(ctx context.Context, id string, pixelX, pixelY int, kind entity.PieceKind) (entity.Placement, error)
	PieceKindAt(ctx context.Context, id string, x, y int) (entity.PieceKind, error)
}

// BoardState is what a renderer needs to redraw a board.
type BoardState struct {
	ID         string             `json:"id"`
	Geometry   entity.Geometry    `json:"geometry"`
	Pieces     []entity.Placement `json:"pieces"`
	LastPlaced *entity.Node       `json:"last_placed,omitempty"`
}

type boardRepo interface {
	Create(ctx context.Context, geometry entity.Geometry) (*entity.Board, error)
	GetByID(ctx context.Context, id string) (*entity.Board, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Board, error)
}

type placementPublisher interface {
	PublishPlacement(ctx context.Context, boardID string, placement entity.Placement) error
}

type boardService struct {
	logger *slog.Logger

	geometry  entity.Geometry
	boardRepo boardRepo
	publisher placementPublisher
}

func NewBoardService(logger *slog.Logger, geometry entity.Geometry, boardRepo boardRepo, publisher placementPublisher) BoardService {
	return &boardService{
		logger:    logger.With("component", "board-service"),
		geometry:  geometry,
		boardRepo: boardRepo,
		publisher: publisher,
	}
}

func (that *boardService) CreateBoard(ctx context.Context) (*BoardState, error) {
	board, err := that.boardRepo.Create(ctx, that.geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	that.logger.Info("board created", "boardID", board.ID)

	return stateOf(board), nil
}

func (that *boardService) GetBoard(ctx context.Context, id string) (*BoardState, error) {
	board, err := that.getBoardByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return stateOf(board), nil
}

func (that *boardService) ListBoards(ctx context.Context) ([]*BoardState, error) {
	boards, err := that.boardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	states := make([]*BoardState, 0, len(boards))
	for _, board := range boards {
		states = append(states, stateOf(board))
	}

	return states, nil
}

func (that *boardService) DeleteBoard(ctx context.Context, id string) error {
	if err := that.boardRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	that.logger.Info("board deleted", "boardID", id)

	return nil
}

func (that *boardService) ResolveNode(ctx context.Context, id string, pixelX, pixelY int) (entity.Node, error) {
	board, err := that.getBoardByID(ctx, id)
	if err != nil {
		return entity.Node{}, err
	}

	node, ok := board.ResolveNode(pixelX, pixelY)
	if !ok {
		return entity.Node{}, fmt.Errorf("%w: pixel (%d, %d)", apperror.ErrNoMatchingNode, pixelX, pixelY)
	}

	return node, nil
}

func (that *boardService) CanPlace(ctx context.Context, id string, pixelX, pixelY int) (bool, error) {
	board, err := that.getBoardByID(ctx, id)
	if err != nil {
		return false, err
	}

	return board.CanPlace(pixelX, pixelY), nil
}

func (that *boardService) Place(ctx context.Context, id string, pixelX, pixelY int, kind entity.PieceKind) (entity.Placement, error) {
	log := that.logger.With("method", "Place", "boardID", id)

	if !kind.IsPlayable() {
		return entity.Placement{}, fmt.Errorf("%w: %s", apperror.ErrInvalidPieceKind, kind)
	}

	board, err := that.getBoardByID(ctx, id)
	if err != nil {
		return entity.Placement{}, err
	}

	placement, err := board.TryPlace(pixelX, pixelY, kind)
	if err != nil {
		return entity.Placement{}, fmt.Errorf("failed to place %s at pixel (%d, %d): %w", kind, pixelX, pixelY, err)
	}

	log.Info("piece placed", "node", placement.Node, "kind", kind.String())

	// a lost event must not undo a placement the board already accepted
	if err = that.publisher.PublishPlacement(ctx, board.ID, placement); err != nil {
		log.Error("failed to publish placement", "error", err)
	}

	return placement, nil
}

func (that *boardService) PieceKindAt(ctx context.Context, id string, x, y int) (entity.PieceKind, error) {
	board, err := that.getBoardByID(ctx, id)
	if err != nil {
		return entity.PieceNone, err
	}

	if !board.Geometry().Contains(entity.Node{X: x, Y: y}) {
		return entity.PieceNone, fmt.Errorf("%w: (%d, %d)", apperror.ErrNodeOutOfRange, x, y)
	}

	return board.PieceKindAt(x, y), nil
}

func (that *boardService) getBoardByID(ctx context.Context, id string) (*entity.Board, error) {
	board, err := that.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get board by id: %w", err)
	}

	return board, nil
}

func stateOf(board *entity.Board) *BoardState {
	state := &BoardState{
		ID:       board.ID,
		Geometry: board.Geometry(),
		Pieces:   board.Pieces(),
	}

	if node, ok := board.LastPlaced(); ok {
		state.LastPlaced = &node
	}

	return state
}
