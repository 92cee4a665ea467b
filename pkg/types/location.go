package types

// Location is a branch's geocoded address, stored as jsonb.
type Location struct {
	PlaceID          string  `json:"place_id,omitempty"`
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

// IsZero reports whether no address or coordinates were captured.
func (l Location) IsZero() bool {
	return l.FormattedAddress == "" && l.PlaceID == "" && l.Lat == 0 && l.Lng == 0
}
