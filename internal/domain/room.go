package domain

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomDorm   RoomType = "dorm"
	RoomSuite  RoomType = "suite"
)

type Room struct {
	ID               string
	Number           string // human-facing, unique across the inventory
	Beds             int
	Type             RoomType
	Floor            int
	SelfContained    bool
	Balcony          bool
	Available        bool
	BasePrice        float64
	SeasonalPrice    *float64
	UnderMaintenance bool
	Amenities        []string
}

// RoomPatch carries the fields an admin update may change. Nil means
// "leave as is"; SeasonalPrice uses a double pointer so the season rate
// can be cleared explicitly.
type RoomPatch struct {
	Number           *string
	Beds             *int
	Type             *RoomType
	Floor            *int
	SelfContained    *bool
	Balcony          *bool
	Available        *bool
	BasePrice        *float64
	SeasonalPrice    **float64
	UnderMaintenance *bool
	Amenities        []string
}

type RoomFilter struct {
	OnlyAvailable bool
}
