package upstream

import "time"

// Player is a player profile from the game-data service.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
	Side    string `json:"side"`
	KDRatio float64 `json:"kdRatio"`
}

// Item is an item record from the game-data service.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	BasePrice int    `json:"basePrice"`
	Avg24h    int    `json:"avg24hPrice"`
	WikiLink  string `json:"wikiLink"`
}

// BanStatus is the ban report for a player from the market service.
// Source records where the answer came from: "live" for an authoritative
// provider response, "offline" when the provider was unreachable.
type BanStatus struct {
	Name     string `json:"name"`
	IsBanned bool   `json:"isBanned"`
	Source   string `json:"source"`
	Note     string `json:"note,omitempty"`
}

// GlobalStats is the aggregate marketplace statistics report.
type GlobalStats struct {
	TotalItems   int       `json:"totalItems"`
	TotalBanned  int       `json:"totalBanned"`
	ActiveOffers int       `json:"activeOffers"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Note         string    `json:"note,omitempty"`
}

// PricePoint is one sample in an item's price history.
type PricePoint struct {
	Price     int       `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceHistory is an item's recent price trajectory.
type PriceHistory struct {
	ItemID string       `json:"itemId"`
	Days   int          `json:"days"`
	Points []PricePoint `json:"points"`
	Note   string       `json:"note,omitempty"`
}
