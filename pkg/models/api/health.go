package api

type Health struct {
	Status  string `json:"status"`
	Profile string `json:"profile,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}
