package compositor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"testing/fstest"

	"petbot/internal/domain/pets"
	"petbot/internal/domain/reply"
	"petbot/internal/ports/imaging"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	brown = color.RGBA{R: 120, G: 60, B: 10, A: 255}
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	return buf.Bytes()
}

func testAssets(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"rooms/bedroom.jpg":         {Data: encodeJPEG(t, solid(200, 100, color.Gray{Y: 128}))},
		"poop.png":                  {Data: encodePNG(t, solid(10, 10, brown))},
		"pets/fox/orange/happy.png": {Data: encodePNG(t, solid(20, 20, red))},
	}
}

func render(t *testing.T, c *Compositor, req reply.ImageRequest) image.Image {
	t.Helper()
	raw, err := c.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("output is not png: %v", err)
	}
	return img
}

func sameRGBA(a color.Color, b color.RGBA) bool {
	r, g, bl, al := a.RGBA()
	return uint8(r>>8) == b.R && uint8(g>>8) == b.G && uint8(bl>>8) == b.B && uint8(al>>8) == b.A
}

func TestRender_LayersPetAndPoop(t *testing.T) {
	c := NewFS(testAssets(t))
	req := reply.ImageRequest{Room: "bedroom", Species: "fox", Color: "orange", Mood: pets.MoodHappy, PoopVisible: true}

	img := render(t, c, req)

	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Fatalf("canvas must match room size, got %v", img.Bounds())
	}
	// mascota: x 90..110, y 75..95
	if !sameRGBA(img.At(100, 85), red) {
		t.Fatalf("expected pet pixel, got %v", img.At(100, 85))
	}
	// caca: x 20..30, y 85..95
	if !sameRGBA(img.At(25, 90), brown) {
		t.Fatalf("expected poop pixel, got %v", img.At(25, 90))
	}
	// margen sobre el piso
	if sameRGBA(img.At(100, 97), red) {
		t.Fatalf("pet must sit above the floor margin")
	}
}

func TestRender_EscapedPetIsNotDrawn(t *testing.T) {
	c := NewFS(testAssets(t))
	// sin asset para slime: si intentara dibujarlo fallaría
	req := reply.ImageRequest{Room: "bedroom", Species: "slime", Color: "blue", Mood: pets.MoodHungry, Escaped: true}

	img := render(t, c, req)
	if sameRGBA(img.At(100, 85), red) {
		t.Fatalf("escaped pet must not be drawn")
	}
}

func TestRender_MissingAsset(t *testing.T) {
	c := NewFS(testAssets(t))

	for _, req := range []reply.ImageRequest{
		{Room: "kitchen", Species: "fox", Color: "orange", Mood: pets.MoodHappy},
		{Room: "bedroom", Species: "fox", Color: "orange", Mood: pets.MoodBored},
		{Room: "../etc", Species: "fox", Color: "orange", Mood: pets.MoodHappy},
		{Room: "bedroom", Species: "fox", Color: "", Mood: pets.MoodHappy},
	} {
		if _, err := c.Render(context.Background(), req); !errors.Is(err, imaging.ErrAssetNotFound) {
			t.Fatalf("%#v: expected ErrAssetNotFound, got %v", req, err)
		}
	}
}

func TestRender_CachesAssets(t *testing.T) {
	assets := testAssets(t)
	c := NewFS(assets)
	req := reply.ImageRequest{Room: "bedroom", Species: "fox", Color: "orange", Mood: pets.MoodHappy}
	render(t, c, req)

	delete(assets, "pets/fox/orange/happy.png")
	render(t, c, req)
}
