package domain

// Category is the stored code of a defect classification.
type Category string

const (
	CategoryPothole     Category = "pothole"
	CategoryCracks      Category = "cracks"
	CategoryUneven      Category = "uneven"
	CategoryShoulder    Category = "shoulder"
	CategoryDrainage    Category = "drainage"
	CategorySidewalk    Category = "sidewalk"
	CategoryStreetlight Category = "streetlight"
	CategoryTrafficSign Category = "trafficsign"
	CategoryBridge      Category = "bridge"
	CategoryLandslide   Category = "landslide"
)

// CategoryOption pairs a category code with its display label.
type CategoryOption struct {
	Value Category
	Label string
}

// categories is the only code-to-label table; the create form and the detail
// page both read it.
var categories = []CategoryOption{
	{CategoryPothole, "Jalan Berlubang"},
	{CategoryCracks, "Aspal Retak"},
	{CategoryUneven, "Permukaan Tidak Rata"},
	{CategoryShoulder, "Bahu Jalan Rusak"},
	{CategoryDrainage, "Drainase Tersumbat"},
	{CategorySidewalk, "Trotoar Rusak"},
	{CategoryStreetlight, "Lampu Jalan Tidak Berfungsi"},
	{CategoryTrafficSign, "Rambu Lalu Lintas Rusak"},
	{CategoryBridge, "Jembatan Rusak"},
	{CategoryLandslide, "Longsor"},
}

// Categories returns the selectable categories in display order.
func Categories() []CategoryOption {
	out := make([]CategoryOption, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known codes.
func (c Category) Valid() bool {
	for _, opt := range categories {
		if opt.Value == c {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw code for an unknown category.
func (c Category) Label() string {
	for _, opt := range categories {
		if opt.Value == c {
			return opt.Label
		}
	}
	return string(c)
}
