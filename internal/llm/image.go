package llm

import (
	"context"
	"encoding/base64"
	"fmt"
)

// ImageProvider generates images from text descriptions.
type ImageProvider interface {
	// GenerateImage renders the described image. The response carries
	// raw encoded bytes plus the MIME type reported by the provider.
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)

	// ImageModelID returns the image model identifier in use.
	ImageModelID() string
}

// ImageRequest describes what to render.
type ImageRequest struct {
	// Description is the natural-language description of the image.
	Description string
}

// ImageResponse holds a generated image.
type ImageResponse struct {
	// Data is the raw image bytes.
	Data []byte

	// MIMEType is the image format, e.g. "image/png".
	MIMEType string

	// Model is the actual model that served the request.
	Model string
}

// DataURI encodes the image as a data URI suitable for direct embedding.
func (r *ImageResponse) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", r.MIMEType, base64.StdEncoding.EncodeToString(r.Data))
}
