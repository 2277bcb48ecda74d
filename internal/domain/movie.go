package domain

// Movie represents a film in the seeded catalog. Movies are written once by
// the bootstrap seeder and read-only afterwards.
type Movie struct {
	ID          int64
	Name        string
	Description string
}
