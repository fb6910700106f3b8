package messaging

import (
	"context"

	"petbot/internal/domain/reply"
)

// Sender entrega un mensaje a una conversación. No hay confirmación de
// lectura: un error significa que el mensaje no salió.
type Sender interface {
	Send(ctx context.Context, conversationID string, msg reply.Message) error
}
