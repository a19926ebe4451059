package models

// Movie is the catalog view resolved for search results and watchlists.
type Movie struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}
