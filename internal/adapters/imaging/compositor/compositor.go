package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sync"

	"petbot/internal/domain/reply"
	"petbot/internal/ports/imaging"
)

// Layout de assets:
//
//	rooms/<room>.jpg
//	poop.png
//	pets/<species>/<color>/<mood>.png
const (
	poopFile = "poop.png"

	// Offsets en px respecto del piso / centro del cuarto.
	floorMargin = 5
	poopShift   = 75
)

// Solo tokens simples: nada de "../" en paths armados desde la query.
var tokenRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Compositor dibuja room + caca + mascota en capas.
// Los assets decodificados se cachean (son estáticos).
type Compositor struct {
	assets fs.FS

	mu    sync.RWMutex
	cache map[string]image.Image
}

var _ imaging.Renderer = (*Compositor)(nil)

// New usa el directorio dado como raíz de assets.
func New(dir string) *Compositor {
	return NewFS(os.DirFS(dir))
}

func NewFS(assets fs.FS) *Compositor {
	return &Compositor{
		assets: assets,
		cache:  map[string]image.Image{},
	}
}

func (c *Compositor) Render(ctx context.Context, req reply.ImageRequest) ([]byte, error) {
	for _, tok := range []string{req.Room, req.Species, req.Color, string(req.Mood)} {
		if !tokenRe.MatchString(tok) {
			return nil, fmt.Errorf("%w: invalid token %q", imaging.ErrAssetNotFound, tok)
		}
	}

	room, err := c.load(path.Join("rooms", req.Room+".jpg"))
	if err != nil {
		return nil, err
	}
	b := room.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), room, b.Min, draw.Src)

	if req.PoopVisible {
		poop, err := c.load(poopFile)
		if err != nil {
			return nil, err
		}
		drawOnFloor(canvas, poop, -poopShift)
	}

	// Una mascota escapada no aparece: queda el cuarto vacío.
	if !req.Escaped {
		pet, err := c.load(path.Join("pets", req.Species, req.Color, string(req.Mood)+".png"))
		if err != nil {
			return nil, err
		}
		drawOnFloor(canvas, pet, 0)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawOnFloor centra el sprite horizontalmente (+shift) y lo apoya
// floorMargin px sobre el borde inferior.
func drawOnFloor(dst *image.RGBA, sprite image.Image, shift int) {
	db, sb := dst.Bounds(), sprite.Bounds()
	left := db.Dx()/2 - sb.Dx()/2 + shift
	top := db.Dy() - sb.Dy() - floorMargin
	r := image.Rect(left, top, left+sb.Dx(), top+sb.Dy())
	draw.Draw(dst, r, sprite, sb.Min, draw.Over)
}

func (c *Compositor) load(name string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	f, err := c.assets.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", imaging.ErrAssetNotFound, name)
		}
		return nil, err
	}
	defer f.Close()

	img, _, err = image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	c.mu.Lock()
	c.cache[name] = img
	c.mu.Unlock()
	return img, nil
}
