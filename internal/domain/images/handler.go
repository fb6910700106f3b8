package images

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"petbot/internal/domain/reply"
	"petbot/internal/platform/logger"
	"petbot/internal/ports/imaging"

	"github.com/go-chi/chi/v5"
)

type Options struct {
	// BaseURL pública fija. Vacío = se deriva del request.
	BaseURL string
	Logger  logger.Logger
}

// RegisterRoutes expone la imagen de estado que consume Business Messages.
func RegisterRoutes(r chi.Router, renderer imaging.Renderer, opts Options) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"component": "images"})

	r.Get(reply.ImagePath, imageHandler(renderer, log))
	r.Get("/hello", helloHandler(opts.BaseURL))
}

type errorResponse struct {
	Message string `json:"message"`
}

// imageHandler godoc
// @Summary Imagen de estado
// @Description Compone cuarto, caca y mascota. Parámetros ausentes toman default (bedroom/pokpok/blue/normal).
// @Tags images
// @Produce png
// @Param room query string false "Cuarto"
// @Param species query string false "Especie"
// @Param color query string false "Variante de color"
// @Param state query string false "Mood" Enums(happy, hungry, angry, bored, normal)
// @Param poop query bool false "Dibujar caca"
// @Param escaped query bool false "Mascota escapada (no se dibuja)"
// @Success 200 {file} binary
// @Failure 404 {object} errorResponse
// @Router /image.png [get]
func imageHandler(renderer imaging.Renderer, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := reply.ParseImageQuery(r.URL.Query())

		img, err := renderer.Render(r.Context(), req)
		if err != nil {
			if !errors.Is(err, imaging.ErrAssetNotFound) {
				log.Error("render failed", map[string]any{"err": err, "query": r.URL.RawQuery})
			}
			writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img)
	}
}

// helloHandler godoc
// @Summary Imagen por defecto
// @Description Redirige a la imagen sin registro (smoke test del compositor).
// @Tags images
// @Success 302
// @Router /hello [get]
func helloHandler(configured string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := reply.NewBuilder(baseURL(r, configured))
		http.Redirect(w, r, b.ImageURL(reply.DefaultImage()), http.StatusFound)
	}
}

func baseURL(r *http.Request, configured string) string {
	if b := strings.TrimSpace(configured); b != "" {
		return b
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); p != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
	}
	return scheme + "://" + r.Host
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
