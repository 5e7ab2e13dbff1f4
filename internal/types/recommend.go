package types

// Point is a lat/lng pair as the mobile client sends it.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Preferences are the user's constraints for a pick. Cuisines and Budget may
// be empty (no constraint). MinRating is a pointer so an absent field can be
// told apart from an explicit 0 and defaulted to 3.5.
type Preferences struct {
	Cuisines  []string `json:"cuisines"`
	Budget    []string `json:"budget"`
	Distance  int      `json:"distance"`
	MinRating *float64 `json:"minRating,omitempty"`
}

// PickRequest is the body of POST /pick.
type PickRequest struct {
	Preferences *Preferences `json:"preferences"`
	Location    *Point       `json:"location"`
}

// Recommendation is one restaurant in the final top-two selection.
type Recommendation struct {
	Name            string       `json:"name"`
	Address         string       `json:"address"`
	Rating          float64      `json:"rating,omitempty"`
	UserRatingCount int          `json:"userRatingCount"`
	Location        Point        `json:"location"`
	Types           []string     `json:"types"`
	Photos          []PlacePhoto `json:"photos"`
	PriceLevel      string       `json:"priceLevel,omitempty"`
	DirectionsLink  string       `json:"directionsLink,omitempty"`
	ReviewsLink     string       `json:"reviewsLink,omitempty"`
	PhotosLink      string       `json:"photosLink,omitempty"`
	Phone           string       `json:"phone,omitempty"`
}

type PickResponse struct {
	Restaurants []Recommendation `json:"restaurants"`
}
