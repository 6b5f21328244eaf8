package category

// Category is a catalog grouping with a unique name.
type Category struct {
	ID   int    `json:"categoryId"`
	Name string `json:"name"`
}
