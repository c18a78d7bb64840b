// Package images normalizes stored product image references into paths the
// storefront can render. References come in three historical shapes: empty,
// a relative local path, or a legacy absolute URL pointing at the object
// storage service. Legacy assets are assumed mirrored locally under /piyamas.
package images

import (
	"math/rand"
	"strings"
)

// LocalFolder is where mirrored and uploaded product images are served from.
const LocalFolder = "/piyamas/"

// storageMarker identifies absolute URLs that were minted by the object
// storage backend.
const storageMarker = "storage.googleapis.com"

// fallbackImages are served whenever no usable reference exists.
var fallbackImages = [4]string{
	"/piyamas/piyama-azul.jpg",
	"/piyamas/piyama-rosa.jpg",
	"/piyamas/piyama-gris.jpg",
	"/piyamas/piyama-estampada.jpg",
}

// Resolve maps a stored image reference to a displayable path.
func Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return RandomFallback()
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if strings.Contains(ref, storageMarker) {
			return LocalFolder + filename(ref)
		}
		// Foreign absolute URL: nothing local to serve.
		return RandomFallback()
	}

	if strings.HasPrefix(ref, "/") {
		return ref
	}
	return "/" + ref
}

// RandomFallback picks one of the fixed fallback images. Render-failure
// handlers use it to swap a broken image at display time.
func RandomFallback() string {
	return fallbackImages[rand.Intn(len(fallbackImages))]
}

// Fallbacks returns the full fallback set.
func Fallbacks() []string {
	out := make([]string, len(fallbackImages))
	copy(out, fallbackImages[:])
	return out
}

func filename(ref string) string {
	trimmed := strings.TrimRight(ref, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
