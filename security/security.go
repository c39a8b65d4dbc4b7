package security

import (
	"mime"
	"net/http"
)

// IsJSONContentType reports whether a Content-Type header names JSON, with or
// without parameters such as charset.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// CarriesBody reports whether requests with this method are expected to send a body.
func CarriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
