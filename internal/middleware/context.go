package middleware

import "context"

func withVerified(ctx context.Context) context.Context {
	return context.WithValue(ctx, verifiedKey, true)
}

// SignatureVerified indica si el request pasó por VerifySignature con un
// secreto configurado.
func SignatureVerified(ctx context.Context) bool {
	v, _ := ctx.Value(verifiedKey).(bool)
	return v
}
