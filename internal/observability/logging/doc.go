// Package logging builds the portal's slog loggers and carries them through contexts.
//
// LOG_LEVEL selects debug, info, warn or error (default info) and LOG_FORMAT selects
// json (default) or text. Request-scoped loggers carry the X-Request-ID value:
//
//	logger := logging.NewLogger()
//	ctx = logging.WithLogger(ctx, logging.WithRequestID(ctx, logger))
//	logging.FromContext(ctx).Info("servicio actualizado", slog.String("id", id))
package logging
