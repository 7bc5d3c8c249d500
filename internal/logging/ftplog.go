package logging

import (
	"context"

	ftplog "github.com/fclairamb/go-log"
)

// FTPAdapter bridges our Logger to the fclairamb/go-log interface that
// ftpserverlib expects, so protocol-level logs land in the same stream as
// the rest of the server.
type FTPAdapter struct {
	l Logger
}

func NewFTPAdapter(l Logger) *FTPAdapter {
	return &FTPAdapter{l: l}
}

func (a *FTPAdapter) Debug(event string, keyvals ...interface{}) {
	a.l.Debug(context.Background(), event, keyvals...)
}

func (a *FTPAdapter) Info(event string, keyvals ...interface{}) {
	a.l.Info(context.Background(), event, keyvals...)
}

func (a *FTPAdapter) Warn(event string, keyvals ...interface{}) {
	a.l.Warn(context.Background(), event, keyvals...)
}

func (a *FTPAdapter) Error(event string, keyvals ...interface{}) {
	a.l.Error(context.Background(), event, keyvals...)
}

func (a *FTPAdapter) Panic(event string, keyvals ...interface{}) {
	a.l.Error(context.Background(), event, keyvals...)
	panic(event)
}

func (a *FTPAdapter) With(keyvals ...interface{}) ftplog.Logger {
	return &FTPAdapter{l: a.l.With(keyvals...)}
}
