package service

import (
	"context"

	"NProject/module/note/model"
	"NProject/module/note/store"
	"NProject/tools/errs"
)

// Service fronts the note repository for the HTTP surface. The websocket
// gateway talks to the repository through its own narrower interface.
type Service struct {
	notes *store.Repo
}

func NewService(notes *store.Repo) *Service {
	return &Service{notes: notes}
}

func (s *Service) Create(ctx context.Context, ownerID string, data model.CreateNote) (*model.Note, error) {
	n, err := s.notes.Create(ctx, ownerID, data)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	return n, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	out, err := s.notes.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	if out == nil {
		out = []model.Note{}
	}
	return out, nil
}

func (s *Service) GetByRoom(ctx context.Context, room string) (*model.Note, error) {
	n, err := s.notes.FindByRoom(ctx, room)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	if n == nil {
		return nil, errs.ErrRoomNotFound
	}
	return n, nil
}
