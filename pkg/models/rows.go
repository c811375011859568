package models

// ImportRow is one row of a guest-list import batch. Rows with a blank
// name or phone are rejected by the registry.
type ImportRow struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Seat     string `json:"seat,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// BroadcastRow is one recipient of a bulk broadcast. It is consumed
// directly for a one-off send and never touches the registry.
type BroadcastRow struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Seat     string `json:"seat,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}
