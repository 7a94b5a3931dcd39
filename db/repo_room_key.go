package db

import (
	"context"
	"fmt"

	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/models"

	"gorm.io/gorm"
)

// CreateRoomWithKey inserts the room and its KEY-<id> key in one
// transaction; neither row survives if the other fails.
func (r *Repo) CreateRoomWithKey(ctx context.Context, room *models.Room) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Room{}).Where("nom = ?", room.Nom).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.NewDuplicateIdentityError("room", "nom", room.Nom)
		}

		room.Keys = nil
		if err := tx.Create(room).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.NewDuplicateIdentityError("room", "nom", room.Nom)
			}
			return fmt.Errorf("insert room: %w", err)
		}

		key := models.Key{Code: models.KeyCode(room.ID), RoomID: room.ID, Available: true}
		if err := tx.Create(&key).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.NewDuplicateIdentityError("key", "code", key.Code)
			}
			return fmt.Errorf("insert key: %w", err)
		}
		room.Keys = []models.Key{key}
		return nil
	})
}

func (r *Repo) FindRoomByName(ctx context.Context, nom string) (*models.Room, error) {
	var room models.Room
	if err := r.DB.WithContext(ctx).Preload("Keys").First(&room, "nom = ?", nom).Error; err != nil {
		return nil, notFound(err, "room", "nom", nom)
	}
	return &room, nil
}

func (r *Repo) RoomNameExists(ctx context.Context, nom string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Room{}).Where("nom = ?", nom).Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.DB.WithContext(ctx).Preload("Keys").Order("nom ASC").Find(&rooms).Error
	return rooms, err
}

// UpdateRoom writes the editable columns of room. Keys are left alone.
func (r *Repo) UpdateRoom(ctx context.Context, room *models.Room) error {
	res := r.DB.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"nom":         room.Nom,
			"capacite":    room.Capacite,
			"equipements": room.Equipements,
			"description": room.Description,
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return apperr.NewDuplicateIdentityError("room", "nom", room.Nom)
		}
		return fmt.Errorf("update room: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NewNotFoundError("room", "id", fmt.Sprint(room.ID))
	}
	return nil
}

// Keys

func (r *Repo) FindKeyByCode(ctx context.Context, code string) (*models.Key, error) {
	var k models.Key
	if err := r.DB.WithContext(ctx).Preload("Room").First(&k, "code = ?", code).Error; err != nil {
		return nil, notFound(err, "key", "code", code)
	}
	return &k, nil
}

func (r *Repo) ListKeys(ctx context.Context, availableOnly bool) ([]models.Key, error) {
	q := r.DB.WithContext(ctx).Preload("Room").Order("code ASC")
	if availableOnly {
		q = q.Where("available = ?", true)
	}
	var keys []models.Key
	err := q.Find(&keys).Error
	return keys, err
}
