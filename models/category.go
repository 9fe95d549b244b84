package models

// Category is a fixed entry of the built-in catalog. Categories are not
// user-editable; the store rewrites them on every start.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

var defaultCategories = []Category{
	{ID: "41", Name: "Robes", Image: "https://images.pexels.com/photos/7679720/pexels-photo-7679720.jpeg"},
	{ID: "42", Name: "Pantalons", Image: "https://images.pexels.com/photos/7679731/pexels-photo-7679731.jpeg"},
	{ID: "43", Name: "Complément alimentaire", Image: "https://images.pexels.com/photos/3850838/pexels-photo-3850838.jpeg"},
	{ID: "44", Name: "Chaussures", Image: "https://images.pexels.com/photos/2529148/pexels-photo-2529148.jpeg"},
	{ID: "45", Name: "Les hauts", Image: "https://images.pexels.com/photos/6311652/pexels-photo-6311652.jpeg"},
	{ID: "46", Name: "Perles", Image: "https://images.pexels.com/photos/1191531/pexels-photo-1191531.jpeg"},
	{ID: "47", Name: "Sacs à main", Image: "https://images.pexels.com/photos/904350/pexels-photo-904350.jpeg"},
}

// DefaultCategories returns a copy of the built-in catalog.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}
