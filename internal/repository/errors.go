package repository

import "errors"

var (
	// ErrMissingImage indicates the request carries neither inline image
	// data nor a screenshot URL
	ErrMissingImage = errors.New("request has no image data or image URL")

	// ErrInvalidBase64 indicates the inline image data is not decodable
	ErrInvalidBase64 = errors.New("image data is not valid base64")
)
