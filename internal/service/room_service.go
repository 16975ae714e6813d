package service

import (
	"fmt"
	"log"
	"time"

	"hotelbooking/internal/db"
	"hotelbooking/internal/entities"
	"hotelbooking/internal/pricing"
)

type roomStore interface {
	ListRooms() ([]db.Room, error)
	ListRoomsByType(roomType string) ([]db.Room, error)
	GetRoomByID(id int64) (*db.Room, error)
	CreateRoom(room *db.Room) error
	UpdateRoom(room *db.Room) error
	DeleteRoom(id int64) error
}

type conflictFinder interface {
	FindConflictingBookings(roomID int64, checkIn, checkOut time.Time) ([]db.Booking, error)
}

type RoomService struct {
	rooms    roomStore
	bookings conflictFinder
	now      func() time.Time
}

func NewRoomService(rooms roomStore, bookings conflictFinder) *RoomService {
	return &RoomService{rooms: rooms, bookings: bookings, now: time.Now}
}

func (s *RoomService) ListRooms() ([]entities.RoomResponse, error) {
	rooms, err := s.rooms.ListRooms()
	if err != nil {
		return nil, err
	}
	out := make([]entities.RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomToResponse(&rooms[i]))
	}
	return out, nil
}

func (s *RoomService) GetRoomByID(id int64) (*entities.RoomResponse, error) {
	room, err := s.rooms.GetRoomByID(id)
	if err != nil {
		return nil, err
	}
	resp := roomToResponse(room)
	return &resp, nil
}

// SearchAvailableRooms returns every room matching the filters, each flagged
// with whether the requested range is free. For an occupied room the response
// carries the first bookable date (day after the latest conflicting checkout).
// A failing conflict lookup marks the room available rather than hiding it;
// booking creation re-checks authoritatively.
func (s *RoomService) SearchAvailableRooms(req entities.RoomSearchRequest) ([]entities.RoomResponse, error) {
	checkIn, checkOut, err := s.parseSearchRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	var candidates []db.Room
	if req.RoomType != "" {
		candidates, err = s.rooms.ListRoomsByType(req.RoomType)
	} else {
		candidates, err = s.rooms.ListRooms()
	}
	if err != nil {
		return nil, err
	}

	results := make([]entities.RoomResponse, 0, len(candidates))
	for i := range candidates {
		room := &candidates[i]
		if req.Capacity > 0 && room.Capacity < req.Capacity {
			continue
		}

		resp := roomToResponse(room)
		conflicts, err := s.bookings.FindConflictingBookings(room.ID, checkIn, checkOut)
		if err != nil {
			log.Printf("Availability lookup failed for room %d: %v", room.ID, err)
			resp.Available = true
		} else if len(conflicts) == 0 {
			resp.Available = true
		} else {
			latest := checkIn
			for _, b := range conflicts {
				if b.CheckOutDate.After(latest) {
					latest = b.CheckOutDate
				}
			}
			availableFrom := latest.AddDate(0, 0, 1)
			daysUntil := pricing.Nights(checkIn, availableFrom)
			resp.Available = false
			resp.AvailableFrom = availableFrom.Format(time.DateOnly)
			resp.DaysUntilAvailable = daysUntil
		}
		results = append(results, resp)
	}
	return results, nil
}

func (s *RoomService) parseSearchRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	if checkInStr == "" || checkOutStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("check-in and check-out dates are required")
	}
	checkIn, err := pricing.ParseDate(checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid check-in date: %w", err)
	}
	checkOut, err := pricing.ParseDate(checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid check-out date: %w", err)
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.After(checkOut) || checkIn.Before(today) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date range")
	}
	return checkIn, checkOut, nil
}

// Admin CRUD

func (s *RoomService) CreateRoom(req *entities.RoomUpsertRequest) (*entities.RoomResponse, error) {
	room := roomFromUpsert(req)
	if err := s.rooms.CreateRoom(room); err != nil {
		return nil, err
	}
	resp := roomToResponse(room)
	return &resp, nil
}

func (s *RoomService) UpdateRoom(id int64, req *entities.RoomUpsertRequest) (*entities.RoomResponse, error) {
	room := roomFromUpsert(req)
	room.ID = id
	if err := s.rooms.UpdateRoom(room); err != nil {
		return nil, err
	}
	resp := roomToResponse(room)
	return &resp, nil
}

func (s *RoomService) DeleteRoom(id int64) error {
	return s.rooms.DeleteRoom(id)
}

func roomToResponse(r *db.Room) entities.RoomResponse {
	return entities.RoomResponse{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		RoomType:      r.RoomType,
		PricePerNight: r.PricePerNight,
		Capacity:      r.Capacity,
		SizeSqm:       r.SizeSqm,
		Description:   r.Description,
		Amenities:     r.Amenities,
		ImageURL:      r.ImageURL,
		Available:     true,
	}
}

func roomFromUpsert(req *entities.RoomUpsertRequest) *db.Room {
	return &db.Room{
		RoomNumber:    req.RoomNumber,
		RoomType:      req.RoomType,
		PricePerNight: req.PricePerNight,
		Capacity:      req.Capacity,
		SizeSqm:       req.SizeSqm,
		Description:   req.Description,
		Amenities:     req.Amenities,
		ImageURL:      req.ImageURL,
	}
}
