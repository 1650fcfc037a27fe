package model

// Item categories shared by lost and found reports.
const (
	CategoryElectronics = "Electronics"
	CategoryDocuments   = "Documents"
	CategoryAccessories = "Accessories"
	CategoryClothing    = "Clothing"
	CategoryKeys        = "Keys"
	CategoryBags        = "Bags"
	CategoryJewelry     = "Jewelry"
	CategoryPets        = "Pets"
	CategoryOther       = "Other"
)

// Categories lists every accepted category in display order.
var Categories = []string{
	CategoryElectronics,
	CategoryDocuments,
	CategoryAccessories,
	CategoryClothing,
	CategoryKeys,
	CategoryBags,
	CategoryJewelry,
	CategoryPets,
	CategoryOther,
}

// IsValidCategory reports whether c is one of Categories. Matching is exact.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
