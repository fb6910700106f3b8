package businessmessages

import "petbot/internal/domain/reply"

// Formato REST de Business Messages (v1). Solo lo que mandamos.

const (
	eventTypingStarted = "TYPING_STARTED"
	eventTypingStopped = "TYPING_STOPPED"

	representativeBot = "BOT"

	heightTall   = "TALL"
	heightMedium = "MEDIUM"
	widthMedium  = "MEDIUM"
)

type representative struct {
	RepresentativeType string `json:"representativeType"`
}

type wireEvent struct {
	EventType      string         `json:"eventType"`
	Representative representative `json:"representative"`
}

type wireMessage struct {
	MessageID      string         `json:"messageId"`
	Representative representative `json:"representative"`
	Fallback       string         `json:"fallback,omitempty"`
	Text           string         `json:"text,omitempty"`
	RichCard       *richCard      `json:"richCard,omitempty"`
	Suggestions    []suggestion   `json:"suggestions,omitempty"`
}

type suggestion struct {
	Reply suggestedReply `json:"reply"`
}

type suggestedReply struct {
	Text         string `json:"text"`
	PostbackData string `json:"postbackData"`
}

type richCard struct {
	StandaloneCard *standaloneCard `json:"standaloneCard,omitempty"`
	CarouselCard   *carouselCard   `json:"carouselCard,omitempty"`
}

type standaloneCard struct {
	CardContent cardContent `json:"cardContent"`
}

type carouselCard struct {
	CardWidth    string        `json:"cardWidth"`
	CardContents []cardContent `json:"cardContents"`
}

type cardContent struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Media       *media       `json:"media,omitempty"`
	Suggestions []suggestion `json:"suggestions,omitempty"`
}

type media struct {
	Height      string      `json:"height"`
	ContentInfo contentInfo `json:"contentInfo"`
}

type contentInfo struct {
	FileURL      string `json:"fileUrl"`
	ForceRefresh bool   `json:"forceRefresh"`
}

// toWire traduce la unión cerrada de reply a un mensaje REST.
func toWire(id string, msg reply.Message) wireMessage {
	out := wireMessage{
		MessageID:      id,
		Representative: representative{RepresentativeType: representativeBot},
	}

	switch m := msg.(type) {
	case reply.Text:
		out.Text = m.Body
	case reply.Prompt:
		out.Text = m.Body
		out.Suggestions = toSuggestions(m.Suggestions)
	case reply.StatusCard:
		out.Fallback = m.Fallback()
		out.RichCard = &richCard{StandaloneCard: &standaloneCard{
			CardContent: cardContent{
				Description: m.Description,
				Media:       &media{Height: heightTall, ContentInfo: contentInfo{FileURL: m.ImageURL}},
			},
		}}
		out.Suggestions = toSuggestions(m.Suggestions)
	case reply.Carousel:
		out.Fallback = m.Fallback()
		contents := make([]cardContent, 0, len(m.Tiles))
		for _, t := range m.Tiles {
			contents = append(contents, cardContent{
				Title:       t.Title,
				Description: t.Description,
				Media:       &media{Height: heightMedium, ContentInfo: contentInfo{FileURL: t.ImageURL}},
				Suggestions: toSuggestions([]reply.Suggestion{t.Suggestion}),
			})
		}
		out.RichCard = &richCard{CarouselCard: &carouselCard{
			CardWidth:    widthMedium,
			CardContents: contents,
		}}
	default:
		out.Text = msg.Fallback()
	}
	return out
}

func toSuggestions(in []reply.Suggestion) []suggestion {
	if len(in) == 0 {
		return nil
	}
	out := make([]suggestion, 0, len(in))
	for _, s := range in {
		out = append(out, suggestion{Reply: suggestedReply{Text: s.Text, PostbackData: s.Postback}})
	}
	return out
}
