package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/sandyspace/catalog-manager/models"
)

// Image is a photo ready to be sent as a file part.
type Image struct {
	Ext  string
	Data []byte
}

func (i Image) ContentType() string {
	return "image/" + i.Ext
}

// ImageUploader stores a photo somewhere reachable and returns its URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, img Image) (string, error)
}

// DecodeImage decodes base64 photo data, either raw or as a data URI. The
// extension comes from the data URI, then from uri, then from sniffing.
func DecodeImage(data, uri string) (Image, error) {
	ext := ""
	if strings.HasPrefix(data, "data:") {
		header, payload, ok := strings.Cut(data, ",")
		if !ok {
			return Image{}, fmt.Errorf("malformed data uri")
		}
		mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		ext = strings.TrimPrefix(mime, "image/")
		data = payload
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}

	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(path.Ext(uri), "."))
	}
	if ext == "" {
		ext = strings.TrimPrefix(http.DetectContentType(raw), "image/")
		if strings.Contains(ext, "/") {
			ext = "jpeg"
		}
	}
	return Image{Ext: ext, Data: raw}, nil
}

// ProductImages returns the product photo followed by every variant photo
// that carries image data.
func ProductImages(p models.Product) ([]Image, error) {
	var images []Image
	if p.ImageData != "" {
		img, err := DecodeImage(p.ImageData, p.ImageURI)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	for _, v := range p.Variants {
		if v.ImageData == "" {
			continue
		}
		img, err := DecodeImage(v.ImageData, v.ImageURI)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.ID, err)
		}
		images = append(images, img)
	}
	return images, nil
}
