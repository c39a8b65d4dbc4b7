package models

// SignatureUploadRequest carries a signature image as a data URI or bare base64.
type SignatureUploadRequest struct {
	Image string `json:"image" validate:"required"`
}

type SignatureUploadResult struct {
	URL string `json:"url"`
}
