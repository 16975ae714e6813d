package entities

// RoomSearchRequest carries a date range plus optional filters. Dates are
// yyyy-mm-dd strings on the wire.
type RoomSearchRequest struct {
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	RoomType     string `json:"roomType,omitempty"`
	Capacity     int    `json:"capacity,omitempty"`
}

// RoomResponse is the room as the client sees it. The availability fields are
// only meaningful on search results: AvailableFrom is the first bookable date
// when the requested range conflicts with an existing booking.
type RoomResponse struct {
	ID                 int64  `json:"id"`
	RoomNumber         string `json:"roomNumber"`
	RoomType           string `json:"roomType"`
	PricePerNight      int64  `json:"pricePerNight"`
	Capacity           int    `json:"capacity"`
	SizeSqm            int    `json:"sizeSqm"`
	Description        string `json:"description"`
	Amenities          string `json:"amenities"`
	ImageURL           string `json:"imageUrl"`
	Available          bool   `json:"available"`
	AvailableFrom      string `json:"availableFrom,omitempty"`
	DaysUntilAvailable int    `json:"daysUntilAvailable"`
}

// RoomUpsertRequest is the admin create/update payload.
type RoomUpsertRequest struct {
	RoomNumber    string `json:"roomNumber"`
	RoomType      string `json:"roomType"`
	PricePerNight int64  `json:"pricePerNight"`
	Capacity      int    `json:"capacity"`
	SizeSqm       int    `json:"sizeSqm"`
	Description   string `json:"description"`
	Amenities     string `json:"amenities"`
	ImageURL      string `json:"imageUrl"`
}
