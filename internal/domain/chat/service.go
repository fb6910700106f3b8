package chat

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"petbot/internal/domain/pets"
	"petbot/internal/domain/reply"
	"petbot/internal/platform/logger"
	"petbot/internal/ports/messaging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Range es un rango cerrado [Min, Max] para los incrementos de feed/play.
type Range struct {
	Min int
	Max int
}

func (r Range) valid() bool {
	return r.Min >= 0 && r.Max >= r.Min
}

var DefaultRange = Range{Min: 5, Max: 15}

// Inbound es un mensaje del usuario ya extraído del webhook.
type Inbound struct {
	ConversationID string
	Text           string

	// BaseURL pública para armar las URLs de imagen.
	BaseURL string
}

type Options struct {
	FeedRange Range
	PlayRange Range
	Logger    logger.Logger
}

// Service es el intérprete de comandos. No guarda estado entre mensajes:
// todo vive en el store. Los comandos de una misma conversación se
// serializan dentro del proceso (ver locks).
type Service struct {
	pets   *pets.Service
	sender messaging.Sender
	log    logger.Logger
	tracer trace.Tracer

	feedRange Range
	playRange Range
	intn      func(n int) int

	locks stripedLock
	wg    sync.WaitGroup
}

func NewService(petsSvc *pets.Service, sender messaging.Sender, opts Options) *Service {
	feed := opts.FeedRange
	if !feed.valid() || feed == (Range{}) {
		feed = DefaultRange
	}
	play := opts.PlayRange
	if !play.valid() || play == (Range{}) {
		play = DefaultRange
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Service{
		pets:      petsSvc,
		sender:    sender,
		log:       log.With(map[string]any{"component": "chat"}),
		tracer:    otel.Tracer("petbot/chat"),
		feedRange: feed,
		playRange: play,
		intn:      rand.IntN,
	}
}

// Dispatch procesa en background; el webhook ya respondió 200.
func (s *Service) Dispatch(ctx context.Context, in Inbound) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Process(context.WithoutCancel(ctx), in)
	}()
}

// Wait bloquea hasta que terminen los Dispatch en curso.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Process interpreta el mensaje y envía las respuestas.
// Errores de envío se loguean y se descartan: el usuario no se entera.
func (s *Service) Process(ctx context.Context, in Inbound) {
	log := s.log.With(map[string]any{"conversation_id": in.ConversationID})

	msgs, err := s.Handle(ctx, in)
	if err != nil {
		log.Error("handle message failed", map[string]any{"err": err})
		return
	}

	for _, m := range msgs {
		if err := s.sender.Send(ctx, in.ConversationID, m); err != nil {
			log.Warn("send failed, dropping reply", map[string]any{"err": err})
		}
	}
}

// Handle aplica las reglas en orden de precedencia y devuelve la respuesta.
// Las mutaciones ya quedaron persistidas cuando retorna.
func (s *Service) Handle(ctx context.Context, in Inbound) ([]reply.Message, error) {
	id := strings.TrimSpace(in.ConversationID)
	if id == "" {
		return nil, ErrInvalidInput
	}

	ctx, span := s.tracer.Start(ctx, "chat.Handle", trace.WithAttributes(
		attribute.String("conversation.id", id),
	))
	defer span.End()

	unlock := s.locks.lock(id)
	defer unlock()

	cmd := Parse(in.Text)
	span.SetAttributes(attribute.String("chat.command", cmd.Key))

	t := turn{
		Service: s,
		ctx:     ctx,
		id:      id,
		cmd:     cmd,
		b:       reply.NewBuilder(in.BaseURL),
	}

	msgs, err := t.run()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return msgs, nil
}

// turn es el estado de un mensaje en proceso.
type turn struct {
	*Service

	ctx context.Context
	id  string
	cmd Command
	b   reply.Builder

	rec     pets.Record
	escaped bool
}

func (t *turn) run() ([]reply.Message, error) {
	rec, _, err := t.pets.Get(t.ctx, t.id)
	if err != nil {
		return nil, err
	}

	// 1) Escape lazy: se marca acá, no en el scheduler.
	if rec.Adopted() && !rec.RanAway && pets.Evaluate(rec).Escaped {
		if err := t.pets.MarkRanAway(t.ctx, t.id); err != nil {
			return nil, err
		}
		if rec, _, err = t.pets.Get(t.ctx, t.id); err != nil {
			return nil, err
		}
	}
	t.rec = rec
	t.escaped = rec.Adopted() && pets.Gone(rec)

	// 2) Captura de nombre: gana sobre cualquier comando.
	if rec.Adopted() && rec.Name == "" && !t.escaped {
		return t.captureName()
	}

	switch {
	case t.cmd.Key == CmdChoosePet:
		return t.adopt()
	case t.cmd.Key == CmdStart || !rec.Adopted():
		return t.onboard()
	case t.escaped:
		return t.ranAway(), nil
	}

	switch t.cmd.Key {
	case CmdFeed:
		return t.feed()
	case CmdPlay:
		return t.playWith()
	case CmdClean:
		return t.clean()
	case CmdSet:
		return t.set()
	case CmdStatus:
		return one(t.status()), nil
	case CmdHelp:
		return one(reply.Text{Body: textHelp}), nil
	case CmdCredits:
		return one(reply.Text{Body: textCredits}), nil
	default:
		return one(reply.Text{Body: textUnknown}), nil
	}
}

func (t *turn) captureName() ([]reply.Message, error) {
	name := strings.TrimSpace(t.cmd.Raw)
	if name == "" {
		return one(reply.Text{Body: textAskName}), nil
	}
	if err := t.pets.Name(t.ctx, t.id, name); err != nil {
		return nil, err
	}
	t.rec.Name = name

	return one(reply.Prompt{
		Body:        fmt.Sprintf("Say hello to %s! Take good care of your new %s.", name, t.speciesName()),
		Suggestions: reply.Suggestions(false),
	}), nil
}

func (t *turn) adopt() ([]reply.Message, error) {
	if t.rec.Adopted() && !t.escaped {
		return one(t.alreadyAdopted()), nil
	}

	species := pets.Species(t.cmd.Arg(0))
	if _, ok := t.pets.Catalog().Lookup(species); !ok {
		return []reply.Message{
			reply.Text{Body: textUnknownPet},
			t.b.Carousel(t.pets.Catalog()),
		}, nil
	}

	rec, err := t.pets.Adopt(t.ctx, t.id, species)
	if err != nil {
		return nil, err
	}
	t.rec = rec

	return one(reply.Text{
		Body: fmt.Sprintf("You have successfully adopted a %s! What would you like to name it?", t.speciesName()),
	}), nil
}

func (t *turn) onboard() ([]reply.Message, error) {
	if t.rec.Adopted() && !t.escaped {
		return one(t.alreadyAdopted()), nil
	}
	welcome := textWelcome
	if t.escaped {
		welcome = textWelcomeBack
	}
	return []reply.Message{
		reply.Text{Body: welcome},
		t.b.Carousel(t.pets.Catalog()),
	}, nil
}

func (t *turn) ranAway() []reply.Message {
	return one(t.b.Status(fmt.Sprintf("%s %s", t.petName(), textRanAway), t.rec))
}

func (t *turn) feed() ([]reply.Message, error) {
	token := t.cmd.Arg(0)
	if token == "" {
		return one(t.menu(textFeedMenu, CmdFeed, t.pets.Catalog().Foods())), nil
	}

	item, ok := t.pets.Catalog().Food(token)
	if !ok {
		return one(reply.Text{Body: fmt.Sprintf("You don't have any %s!", token)}), nil
	}
	if t.rec.Hunger >= pets.StatMax {
		return one(t.b.Status(fmt.Sprintf("%s is too bloated to eat!", t.petName()), t.rec)), nil
	}

	delta := t.roll(item, t.feedRange)
	v, err := t.pets.SetStat(t.ctx, t.id, pets.FieldHunger, t.rec.Hunger+delta)
	if err != nil {
		return nil, err
	}
	t.rec.Hunger = v

	return one(t.b.Status(fmt.Sprintf("%s | You feed %s! (+%d food)", item.Token, t.petName(), delta), t.rec)), nil
}

func (t *turn) playWith() ([]reply.Message, error) {
	token := t.cmd.Arg(0)
	if token == "" {
		return one(t.menu(textPlayMenu, CmdPlay, t.pets.Catalog().Games())), nil
	}

	item, ok := t.pets.Catalog().Game(token)
	if !ok {
		return one(reply.Text{Body: fmt.Sprintf("You don't know how to play %s!", token)}), nil
	}

	// Sin tope de saciedad; SetStat igual clampea a 100.
	delta := t.roll(item, t.playRange)
	v, err := t.pets.SetStat(t.ctx, t.id, pets.FieldHappiness, t.rec.Happiness+delta)
	if err != nil {
		return nil, err
	}
	t.rec.Happiness = v

	return one(t.b.Status(fmt.Sprintf("%s | You play with %s! (+%d fun)", item.Token, t.petName(), delta), t.rec)), nil
}

func (t *turn) clean() ([]reply.Message, error) {
	v, err := t.pets.SetStat(t.ctx, t.id, pets.FieldHygiene, pets.StatMax)
	if err != nil {
		return nil, err
	}
	t.rec.Hygiene = v

	return one(t.b.Status(fmt.Sprintf("You clean up after %s!", t.petName()), t.rec)), nil
}

// set es el override admin: escribe cualquier campo sin validar.
func (t *turn) set() ([]reply.Message, error) {
	if len(t.cmd.Args) != 2 {
		return one(reply.Text{Body: textSetUsage}), nil
	}
	field, raw := t.cmd.Args[0], t.cmd.Args[1]

	if err := t.pets.Override(t.ctx, t.id, field, CoerceValue(raw)); err != nil {
		return nil, err
	}
	t.log.Warn("admin override", map[string]any{
		"conversation_id": t.id,
		"field":           field,
		"value":           raw,
	})

	return one(reply.Text{Body: fmt.Sprintf("%s set to %s", field, raw)}), nil
}

func (t *turn) status() reply.Message {
	st := pets.Evaluate(t.rec)
	return t.b.Status(fmt.Sprintf(
		"%s is feeling %s.\nHunger: %d | Hygiene: %d | Happiness: %d",
		t.petName(), st.Mood, t.rec.Hunger, t.rec.Hygiene, t.rec.Happiness,
	), t.rec)
}

// menu ofrece 3 items distintos al azar como quick replies.
func (t *turn) menu(body, command string, items []pets.Item) reply.Prompt {
	picked := pets.Sample(items, 3, t.intn)
	sugg := make([]reply.Suggestion, 0, len(picked))
	for _, it := range picked {
		sugg = append(sugg, reply.Suggestion{Text: it.Token, Postback: command + " " + it.Token})
	}
	return reply.Prompt{Body: body, Suggestions: sugg}
}

// roll sortea el incremento: rango propio del item si lo tiene, si no el
// rango uniforme configurado.
func (t *turn) roll(item pets.Item, def Range) int {
	r := def
	if item.HasRange() {
		r = Range{Min: item.Min, Max: item.Max}
	}
	return r.Min + t.intn(r.Max-r.Min+1)
}

func (t *turn) alreadyAdopted() reply.Message {
	if t.rec.Name != "" {
		return reply.Text{Body: fmt.Sprintf("You have already adopted %s the %s!", t.rec.Name, t.speciesName())}
	}
	return reply.Text{Body: fmt.Sprintf("You have already adopted a %s!", t.speciesName())}
}

func (t *turn) speciesName() string {
	if info, ok := t.pets.Catalog().Lookup(t.rec.Species); ok {
		return info.Name
	}
	return string(t.rec.Species)
}

func (t *turn) petName() string {
	if t.rec.Name != "" {
		return t.rec.Name
	}
	return "Your " + t.speciesName()
}

// CoerceValue aplica la coerción del comando set: entero si es numérico,
// nil si es "null", string en otro caso.
func CoerceValue(raw string) any {
	if raw == "null" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}

func one(m reply.Message) []reply.Message {
	return []reply.Message{m}
}

// stripedLock serializa por conversación sin crecer con la cantidad de
// conversaciones. Dos ids pueden compartir franja; solo cuesta espera.
type stripedLock struct {
	stripes [64]sync.Mutex
}

func (l *stripedLock) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	m.Lock()
	return m.Unlock
}
