package domain

// Address is an owned value object stored inline in the parent row via an
// embedded column prefix. It has no identity and no lifecycle of its own.
type Address struct {
	Street     string `gorm:"size:255"`
	City       string `gorm:"size:100"`
	State      string `gorm:"size:50"`
	PostalCode string `gorm:"size:20"`
	Country    string `gorm:"size:100"`
	Latitude   float64
	Longitude  float64
}

// ProductDimensions is an owned value object, stored inline.
type ProductDimensions struct {
	Length float64
	Width  float64
	Height float64
	Unit   string `gorm:"size:10;default:cm"`
}

// ProductWeight is an owned value object, stored inline.
type ProductWeight struct {
	Value float64
	Unit  string `gorm:"size:10;default:kg"`
}
