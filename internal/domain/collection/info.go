package collection

// Info is what the store reports about an existing collection.
type Info struct {
	Name        string
	Description string
	Fields      []string
	EntityCount int64
}
