// models/room_key.go
package models

import (
	"fmt"
	"time"
)

const RoomTable = "rooms"
const KeyTable = "room_keys"

type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nom         string    `gorm:"size:100;uniqueIndex;not null" json:"nom"`
	Capacite    int       `gorm:"not null;default:0" json:"capacite"`
	Equipements string    `gorm:"type:text" json:"equipements"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Keys []Key `gorm:"foreignKey:RoomID" json:"keys,omitempty"`
}

// Key is the lendable object of a room. Available is the single source of
// truth for whether the room can be borrowed.
type Key struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	RoomID    uint   `gorm:"index;not null" json:"roomId"`
	Available bool   `gorm:"not null;default:true" json:"available"`

	Room *Room `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"room,omitempty"`
}

func (Room) TableName() string { return RoomTable }
func (Key) TableName() string  { return KeyTable }

// KeyCode is the code given to the key provisioned with a room: KEY-007.
func KeyCode(roomID uint) string { return fmt.Sprintf("KEY-%03d", roomID) }

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
	RoomNoKey     RoomStatus = "no_key"
)

// StatusOf derives the room status from its keys: occupied as soon as one
// key is out, no_key when the room owns none.
func StatusOf(keys []Key) RoomStatus {
	if len(keys) == 0 {
		return RoomNoKey
	}
	for _, k := range keys {
		if !k.Available {
			return RoomOccupied
		}
	}
	return RoomAvailable
}
