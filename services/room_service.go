package services

import (
	"context"
	"log/slog"
	"strings"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/models"
)

// RoomInput is the editable part of a room.
type RoomInput struct {
	Nom         string `json:"nom" validate:"required,max=100"`
	Capacite    int    `json:"capacite" validate:"gte=0"`
	Equipements string `json:"equipements"`
	Description string `json:"description"`
}

func (in *RoomInput) trim() {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Equipements = strings.TrimSpace(in.Equipements)
	in.Description = strings.TrimSpace(in.Description)
}

// RoomPatch updates only the fields that are set.
type RoomPatch struct {
	Nom         *string `json:"nom"`
	Capacite    *int    `json:"capacite"`
	Equipements *string `json:"equipements"`
	Description *string `json:"description"`
}

type RoomView struct {
	models.Room
	Status models.RoomStatus `json:"status"`
}

func roomView(r models.Room) RoomView {
	return RoomView{Room: r, Status: models.StatusOf(r.Keys)}
}

type RoomService struct {
	repo *db.Repo
	log  *slog.Logger
}

func NewRoomService(repo *db.Repo, log *slog.Logger) *RoomService {
	return &RoomService{repo: repo, log: log}
}

// CreateRoom creates the room together with its key.
func (s *RoomService) CreateRoom(ctx context.Context, in RoomInput) (*RoomView, error) {
	in.trim()
	if err := validateStruct("room", in); err != nil {
		return nil, err
	}
	room := &models.Room{
		Nom:         in.Nom,
		Capacite:    in.Capacite,
		Equipements: in.Equipements,
		Description: in.Description,
	}
	if err := s.repo.CreateRoomWithKey(ctx, room); err != nil {
		return nil, err
	}
	s.log.Info("room created", "room", room.Nom, "key", room.Keys[0].Code)
	v := roomView(*room)
	return &v, nil
}

// UpdateRoom applies patch to the room called nom. A rename is checked
// against the other rooms in the same transaction.
func (s *RoomService) UpdateRoom(ctx context.Context, nom string, patch RoomPatch) (*RoomView, error) {
	var updated *models.Room
	err := s.repo.WithTx(ctx, func(tx *db.Repo) error {
		room, err := tx.FindRoomByName(ctx, nom)
		if err != nil {
			return err
		}
		in := RoomInput{
			Nom:         room.Nom,
			Capacite:    room.Capacite,
			Equipements: room.Equipements,
			Description: room.Description,
		}
		if patch.Nom != nil {
			in.Nom = *patch.Nom
		}
		if patch.Capacite != nil {
			in.Capacite = *patch.Capacite
		}
		if patch.Equipements != nil {
			in.Equipements = *patch.Equipements
		}
		if patch.Description != nil {
			in.Description = *patch.Description
		}
		in.trim()
		if err := validateStruct("room", in); err != nil {
			return err
		}

		if in.Nom != room.Nom {
			taken, err := tx.RoomNameExists(ctx, in.Nom)
			if err != nil {
				return err
			}
			if taken {
				return apperr.NewDuplicateIdentityError("room", "nom", in.Nom)
			}
		}

		room.Nom = in.Nom
		room.Capacite = in.Capacite
		room.Equipements = in.Equipements
		room.Description = in.Description
		if err := tx.UpdateRoom(ctx, room); err != nil {
			return err
		}
		updated, err = tx.FindRoomByName(ctx, room.Nom)
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated.Nom != nom {
		s.log.Info("room renamed", "from", nom, "to", updated.Nom)
	}
	v := roomView(*updated)
	return &v, nil
}

func (s *RoomService) ListRooms(ctx context.Context) ([]RoomView, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomView(r))
	}
	return out, nil
}

func (s *RoomService) GetRoom(ctx context.Context, nom string) (*RoomView, error) {
	room, err := s.repo.FindRoomByName(ctx, strings.TrimSpace(nom))
	if err != nil {
		return nil, err
	}
	v := roomView(*room)
	return &v, nil
}

func (s *RoomService) RoomStatus(ctx context.Context, nom string) (models.RoomStatus, error) {
	v, err := s.GetRoom(ctx, nom)
	if err != nil {
		return "", err
	}
	return v.Status, nil
}

func (s *RoomService) RoomExists(ctx context.Context, nom string) (bool, error) {
	return s.repo.RoomNameExists(ctx, nom)
}
