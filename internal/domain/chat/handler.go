package chat

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// maxWebhookBody acota lo que se lee del body del webhook.
const maxWebhookBody = 1 << 20

type HandlerOptions struct {
	// BaseURL pública fija. Vacío = se deriva del request.
	BaseURL string
}

// RegisterRoutes expone el webhook de Business Messages.
func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	r.Post("/callback", callbackHandler(svc, opts))
}

// webhookEvent es el subconjunto del evento que usamos.
type webhookEvent struct {
	ConversationID string `json:"conversationId"`
	Message        *struct {
		MessageID string `json:"messageId"`
		Text      string `json:"text"`
	} `json:"message,omitempty"`
	SuggestionResponse *struct {
		PostbackData string `json:"postbackData"`
		Text         string `json:"text"`
	} `json:"suggestionResponse,omitempty"`

	// Verificación del webhook al registrarlo en la consola.
	Secret      string `json:"secret,omitempty"`
	ClientToken string `json:"clientToken,omitempty"`
}

// text devuelve el texto a interpretar: message.text o el postback.
func (e webhookEvent) text() (string, bool) {
	if e.Message != nil && e.Message.Text != "" {
		return e.Message.Text, true
	}
	if e.SuggestionResponse != nil {
		return e.SuggestionResponse.PostbackData, true
	}
	return "", false
}

type ackResponse struct {
	Status string `json:"status"`
}

// callbackHandler godoc
// @Summary Webhook de mensajes
// @Description Recibe eventos de Business Messages. Siempre responde 200; el procesamiento es asíncrono.
// @Description Eventos sin texto (typing, receipts) se ignoran. Un evento de verificación devuelve el secret.
// @Tags chat
// @Accept json
// @Produce json
// @Param body body webhookEvent true "Evento"
// @Success 200 {object} ackResponse
// @Router /callback [post]
func callbackHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			svc.log.Warn("webhook body read failed", map[string]any{"err": err})
			writeJSON(w, http.StatusOK, ackResponse{Status: "ignored"})
			return
		}

		var ev webhookEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			svc.log.Warn("webhook body is not json", map[string]any{"err": err})
			writeJSON(w, http.StatusOK, ackResponse{Status: "ignored"})
			return
		}

		if ev.Secret != "" && ev.ConversationID == "" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, ev.Secret)
			return
		}

		text, ok := ev.text()
		if !ok || strings.TrimSpace(ev.ConversationID) == "" {
			writeJSON(w, http.StatusOK, ackResponse{Status: "ignored"})
			return
		}

		svc.Dispatch(r.Context(), Inbound{
			ConversationID: ev.ConversationID,
			Text:           text,
			BaseURL:        baseURL(r, opts.BaseURL),
		})

		writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
	}
}

// baseURL usa la configurada o la reconstruye desde el request
// (respetando X-Forwarded-Proto detrás de un proxy).
func baseURL(r *http.Request, configured string) string {
	if b := strings.TrimSpace(configured); b != "" {
		return strings.TrimRight(b, "/")
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
