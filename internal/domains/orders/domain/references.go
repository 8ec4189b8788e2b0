package domain

// CustomerRef is the slice of a customer the order context needs to resolve a reference.
type CustomerRef struct {
	ID   int64
	Name string
}

// BeerRef is the slice of a beer the order context needs to resolve a reference.
type BeerRef struct {
	ID   int64
	Name string
	UPC  string
}
