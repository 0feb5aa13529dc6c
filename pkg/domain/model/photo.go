package model

// Photo is an image submitted for verification or extraction
type Photo struct {
	Data        []byte
	ContentType string
	// URL is the locator the image was stored under, empty until stored
	URL string
}

// IsEmpty reports whether the photo carries no image bytes
func (x *Photo) IsEmpty() bool {
	return x == nil || len(x.Data) == 0
}
