package domain

// Report is a single citizen-submitted infrastructure defect.
type Report struct {
	ID          int64
	Street      string
	Description string
	Location    string
	// CreatedDate is stored as DD-MM-YYYY in the zone of the creating device.
	CreatedDate string
	ImageURI    string
	Category    Category
}
