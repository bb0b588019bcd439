package review

import "io"

// File is one image attached to a review, streamed through to the upstream
// upload endpoint without buffering to disk.
type File struct {
	Name        string
	ContentType string
	Data        io.Reader
}

// Submission is the user's review input before upload and creation.
type Submission struct {
	Rating  int
	Comment string
	Images  []File
}

// CreatePayload is the body of the upstream POST /parking-reviews call.
// Images are URLs returned by the upload endpoint, never raw file data.
type CreatePayload struct {
	BookingID string   `json:"bookingId"`
	Rating    int      `json:"rating" validate:"min=1,max=5"`
	Review    string   `json:"review"`
	Images    []string `json:"images"`
}

// Review is the created review as the upstream returns it.
type Review struct {
	ID        string   `json:"id"`
	BookingID string   `json:"bookingId"`
	Rating    int      `json:"rating"`
	Review    string   `json:"review"`
	Images    []string `json:"images"`
	CreatedAt string   `json:"createdAt"`
}
