package businessmessages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petbot/internal/domain/reply"
	"petbot/internal/platform/httpclient"
	"petbot/internal/platform/logger"
	"petbot/internal/ports/messaging"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

const DefaultBaseURL = "https://businessmessages.googleapis.com/v1"

var (
	ErrInvalidConfig = errors.New("invalid business messages config")
	ErrUpstream      = errors.New("business messages upstream error")
)

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// MaxRetries > 0 reintenta el create del mensaje con backoff exponencial.
	// 0 = un solo intento (log and drop).
	MaxRetries int

	Logger    logger.Logger
	Transport http.RoundTripper
}

// Client implementa messaging.Sender contra la API REST.
type Client struct {
	http       *httpclient.Client
	maxRetries int
	log        logger.Logger

	newID func() string
}

var _ messaging.Sender = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: negative max retries", ErrInvalidConfig)
	}
	hc, err := httpclient.New(httpclient.Options{
		BaseURL:   opts.BaseURL,
		Timeout:   opts.Timeout,
		Token:     opts.Token,
		Transport: opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		http:       hc,
		maxRetries: opts.MaxRetries,
		log:        log.With(map[string]any{"component": "businessmessages"}),
		newID:      uuid.NewString,
	}, nil
}

// Send: typing started, mensaje, typing stopped. Secuencial.
// Los eventos de typing son cosméticos: si fallan se loguean y se sigue.
// El error que vuelve es solo el del mensaje.
func (c *Client) Send(ctx context.Context, conversationID string, msg reply.Message) error {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return fmt.Errorf("%w: empty conversation id", ErrInvalidConfig)
	}
	base := "/conversations/" + url.PathEscape(conversationID)
	log := c.log.With(map[string]any{"conversation_id": conversationID})

	if err := c.event(ctx, base, eventTypingStarted); err != nil {
		log.Warn("typing started failed", map[string]any{"err": err})
	}

	sendErr := c.create(ctx, base, toWire(c.newID(), msg))

	if err := c.event(ctx, base, eventTypingStopped); err != nil {
		log.Warn("typing stopped failed", map[string]any{"err": err})
	}

	if sendErr != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, sendErr)
	}
	return nil
}

func (c *Client) event(ctx context.Context, base, eventType string) error {
	q := url.Values{"eventId": {c.newID()}}
	return c.http.DoJSON(ctx, http.MethodPost, base+"/events", q, wireEvent{
		EventType:      eventType,
		Representative: representative{RepresentativeType: representativeBot},
	}, nil)
}

func (c *Client) create(ctx context.Context, base string, msg wireMessage) error {
	op := func() (struct{}, error) {
		err := c.http.DoJSON(ctx, http.MethodPost, base+"/messages", nil, msg, nil)
		if err != nil && !httpclient.IsTemporary(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	if c.maxRetries == 0 {
		_, err := op()
		return unwrapPermanent(err)
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.Debug("retrying message create", map[string]any{"err": err, "next": next.String()})
		}),
	)
	return err
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Unwrap()
	}
	return err
}
