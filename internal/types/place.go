package types

import (
	"encoding/json"
	"time"
)

// BusinessStatusOperational is the only status a place may have to be
// recommended. Anything else (CLOSED_TEMPORARILY, CLOSED_PERMANENTLY, empty)
// is filtered out.
const BusinessStatusOperational = "OPERATIONAL"

// LocalizedText mirrors the Places API v1 displayName shape.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// PlaceLocation is the lat/lng pair as the provider returns it.
type PlaceLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type GoogleMapsLinks struct {
	DirectionsURI string `json:"directionsUri,omitempty"`
	ReviewsURI    string `json:"reviewsUri,omitempty"`
	PhotosURI     string `json:"photosUri,omitempty"`
}

type PlacePhoto struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`
}

// PlaceRecord is a raw nearby-search result. Immutable once fetched; cached
// and re-read verbatim.
type PlaceRecord struct {
	DisplayName              LocalizedText    `json:"displayName"`
	FormattedAddress         string           `json:"formattedAddress,omitempty"`
	Location                 PlaceLocation    `json:"location"`
	BusinessStatus           string           `json:"businessStatus,omitempty"`
	Rating                   float64          `json:"rating,omitempty"`
	UserRatingCount          int              `json:"userRatingCount,omitempty"`
	PriceLevel               string           `json:"priceLevel,omitempty"`
	Types                    []string         `json:"types,omitempty"`
	WebsiteURI               string           `json:"websiteUri,omitempty"`
	GoogleMapsLinks          *GoogleMapsLinks `json:"googleMapsLinks,omitempty"`
	CurrentOpeningHours      json.RawMessage  `json:"currentOpeningHours,omitempty"`
	Photos                   []PlacePhoto     `json:"photos,omitempty"`
	NationalPhoneNumber      string           `json:"nationalPhoneNumber,omitempty"`
	InternationalPhoneNumber string           `json:"internationalPhoneNumber,omitempty"`
}

// Name returns the display name, or "Unknown" when the provider sent none.
// Visit-history matching is by this name.
func (p PlaceRecord) Name() string {
	if p.DisplayName.Text == "" {
		return "Unknown"
	}
	return p.DisplayName.Text
}

var priceLevelTiers = map[string]string{
	"PRICE_LEVEL_INEXPENSIVE":    "$",
	"PRICE_LEVEL_MODERATE":       "$$",
	"PRICE_LEVEL_EXPENSIVE":      "$$$",
	"PRICE_LEVEL_VERY_EXPENSIVE": "$$$$",
}

// PriceLevelTier maps a provider price level to its "$" tier. ok is false for
// unspecified or unknown levels.
func PriceLevelTier(level string) (string, bool) {
	tier, ok := priceLevelTiers[level]
	return tier, ok
}

// PriceTier is the tier used for budget matching. A place with no price level
// counts as the second-cheapest tier.
func (p PlaceRecord) PriceTier() string {
	if tier, ok := priceLevelTiers[p.PriceLevel]; ok {
		return tier
	}
	return "$$"
}

// GeoCell is a coordinate pair snapped onto the cache grid. Used only for
// cache bucketing, never in responses.
type GeoCell struct {
	Lat float64
	Lng float64
}

// SearchQuery identifies one cache bucket. Types order is significant: the
// encoded key is built from the slice as given, so the same set in a
// different order is a different bucket.
type SearchQuery struct {
	Cell         GeoCell
	RadiusMeters int
	Types        []string
}

// CacheEntry is one stored provider response. Entries are append-only; reads
// return the most recent one for the query.
type CacheEntry struct {
	Query    SearchQuery
	Places   []PlaceRecord
	CachedAt time.Time
}
