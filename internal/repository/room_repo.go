package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"hotelbooking/internal/db"
)

type RoomRepository struct {
	DB *sql.DB
}

func NewRoomRepository(database *sql.DB) *RoomRepository {
	return &RoomRepository{DB: database}
}

const roomColumns = `id, room_number, room_type, price_per_night, capacity, size_sqm, description, amenities, image_url, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*db.Room, error) {
	var r db.Room
	err := row.Scan(&r.ID, &r.RoomNumber, &r.RoomType, &r.PricePerNight, &r.Capacity,
		&r.SizeSqm, &r.Description, &r.Amenities, &r.ImageURL, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RoomRepository) ListRooms() ([]db.Room, error) {
	rows, err := r.DB.Query(`SELECT ` + roomColumns + ` FROM rooms ORDER BY room_number`)
	if err != nil {
		return nil, fmt.Errorf("error querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []db.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) ListRoomsByType(roomType string) ([]db.Room, error) {
	rows, err := r.DB.Query(`SELECT `+roomColumns+` FROM rooms WHERE room_type = $1 ORDER BY room_number`, roomType)
	if err != nil {
		return nil, fmt.Errorf("error querying rooms by type: %w", err)
	}
	defer rows.Close()

	var rooms []db.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) GetRoomByID(id int64) (*db.Room, error) {
	room, err := scanRoom(r.DB.QueryRow(`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying room: %w", err)
	}
	return room, nil
}

func (r *RoomRepository) CreateRoom(room *db.Room) error {
	query := `
		INSERT INTO rooms (room_number, room_type, price_per_night, capacity, size_sqm, description, amenities, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query,
		room.RoomNumber, room.RoomType, room.PricePerNight, room.Capacity,
		room.SizeSqm, room.Description, room.Amenities, room.ImageURL,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *RoomRepository) UpdateRoom(room *db.Room) error {
	query := `
		UPDATE rooms
		SET room_number = $2, room_type = $3, price_per_night = $4, capacity = $5,
		    size_sqm = $6, description = $7, amenities = $8, image_url = $9, updated_at = NOW()
		WHERE id = $1`
	res, err := r.DB.Exec(query,
		room.ID, room.RoomNumber, room.RoomType, room.PricePerNight, room.Capacity,
		room.SizeSqm, room.Description, room.Amenities, room.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("error updating room %d: %w", room.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("room %d not found", room.ID)
	}
	return nil
}

func (r *RoomRepository) DeleteRoom(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting room %d: %w", id, err)
	}
	return nil
}
