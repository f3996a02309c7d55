package domain

// Location is the approximate place resolved from a client network
// address. Detected=false marks an unresolved/placeholder value that must
// never be treated as a confident location downstream.
type Location struct {
	Country       string   `json:"country"`
	Region        string   `json:"region"`
	City          string   `json:"city"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Detected      bool     `json:"detected"`
	SourceAddress string   `json:"source_address"`
}

// UndetectedLocation builds the generic placeholder returned when no
// provider could resolve the address.
func UndetectedLocation(sourceAddr string) Location {
	return Location{
		Country:       "Unknown",
		Region:        "your region",
		City:          "your area",
		Detected:      false,
		SourceAddress: sourceAddr,
	}
}

// DisplayArea renders the location for use inside search queries and
// prompts: "City, Region" when detected, else the generic "your area".
func (l Location) DisplayArea() string {
	if l.Detected && l.City != "" && l.Region != "" {
		return l.City + ", " + l.Region
	}
	return "your area"
}
