package pets

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes expone lectura de registros para soporte/debug.
// Las escrituras solo ocurren vía webhook (chat) y el scheduler.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{conversationID}", getPetHandler(svc))
	})
}

// petResponse es el registro más su estado derivado.
type petResponse struct {
	ConversationID string         `json:"conversation_id"`
	Species        string         `json:"species"`
	Color          string         `json:"color"`
	Name           string         `json:"name"`
	Room           string         `json:"room"`
	Hunger         int            `json:"hunger"`
	Hygiene        int            `json:"hygiene"`
	Happiness      int            `json:"happiness"`
	RanAway        bool           `json:"ran_away"`
	Mood           Mood           `json:"mood" enums:"happy,hungry,angry,bored,normal"`
	Escaped        bool           `json:"escaped"`
	PoopVisible    bool           `json:"poop_visible"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Devuelve todos los registros con su estado derivado, ordenados por conversation_id.
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Failure 500 {string} string "internal error"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for id, rec := range items {
			out = append(out, toPetResponse(id, rec))
		}
		sort.Slice(out, func(i, j int) bool {
			return out[i].ConversationID < out[j].ConversationID
		})

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Ver mascota
// @Description Devuelve el registro de una conversación.
// @Tags pets
// @Produce json
// @Param conversationID path string true "ID de la conversación"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{conversationID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "conversationID")
		rec, ok, err := svc.Get(r.Context(), id)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		if !ok {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(id, rec))
	}
}

func toPetResponse(id string, r Record) petResponse {
	st := Evaluate(r)
	return petResponse{
		ConversationID: id,
		Species:        string(r.Species),
		Color:          r.Color,
		Name:           r.Name,
		Room:           r.Room,
		Hunger:         r.Hunger,
		Hygiene:        r.Hygiene,
		Happiness:      r.Happiness,
		RanAway:        r.RanAway,
		Mood:           st.Mood,
		Escaped:        r.RanAway || st.Escaped,
		PoopVisible:    st.PoopVisible,
		Extra:          r.Extra,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
