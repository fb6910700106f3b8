package imaging

import (
	"context"
	"errors"

	"petbot/internal/domain/reply"
)

var (
	// ErrAssetNotFound: falta algún asset del pedido (room, especie, color o mood).
	ErrAssetNotFound = errors.New("asset not found")
)

// Renderer compone la imagen de estado y devuelve un PNG.
type Renderer interface {
	Render(ctx context.Context, req reply.ImageRequest) ([]byte, error)
}
