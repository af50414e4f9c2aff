package port

// Page bounds list queries. Zero values fall back to repository defaults.
type Page struct {
	Limit  int
	Offset int
}
