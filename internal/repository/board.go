package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type BoardRepository interface {
	Create(ctx context.Context, geometry entity.Geometry) (*entity.Board, error)
	GetByID(ctx context.Context, id string) (*entity.Board, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Board, error)
}

// memBoard keeps live boards for the lifetime of the process.
type memBoard struct {
	mu     sync.RWMutex
	boards map[string]*entity.Board
}

func NewBoardRepository() BoardRepository {
	return &memBoard{
		boards: make(map[string]*entity.Board),
	}
}

func (that *memBoard) Create(_ context.Context, geometry entity.Geometry) (*entity.Board, error) {
	board, err := entity.NewBoard(uuid.NewString(), geometry)
	if err != nil {
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	that.mu.Lock()
	that.boards[board.ID] = board
	that.mu.Unlock()

	return board, nil
}

func (that *memBoard) GetByID(_ context.Context, id string) (*entity.Board, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	board, ok := that.boards[id]
	if !ok {
		return nil, apperror.ErrBoardNotFound
	}

	return board, nil
}

func (that *memBoard) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.boards[id]; !ok {
		return apperror.ErrBoardNotFound
	}

	delete(that.boards, id)

	return nil
}

func (that *memBoard) List(_ context.Context) ([]*entity.Board, error) {
	that.mu.RLock()
	boards := make([]*entity.Board, 0, len(that.boards))
	for _, board := range that.boards {
		boards = append(boards, board)
	}
	that.mu.RUnlock()

	sort.Slice(boards, func(i, j int) bool {
		return boards[i].ID < boards[j].ID
	})

	return boards, nil
}
