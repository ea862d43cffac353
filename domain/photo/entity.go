package photo

// Photo is one row of the photos table: an uploaded file's stored name.
type Photo struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Filename string `gorm:"not null" json:"filename"`
}

// TableName returns the table name for the Photo model.
func (Photo) TableName() string {
	return "photos"
}

// Filenames returns the filename of every photo, in order.
func Filenames(photos []Photo) []string {
	names := make([]string, 0, len(photos))
	for _, p := range photos {
		names = append(names, p.Filename)
	}
	return names
}
