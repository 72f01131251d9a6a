package utils

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mdobak/go-xerrors"
)

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

var (
	logger     *slog.Logger
	loggerOnce sync.Once
)

// GetLogger returns the shared JSON logger. Errors wrapped with xerrors are
// rendered with their message and stack trace instead of the default
// fmt.Stringer output.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			ReplaceAttr: replaceAttr,
		})
		logger = slog.New(handler)
	})
	return logger
}

func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindAny:
		switch v := attr.Value.Any().(type) {
		case error:
			attr.Value = fmtErr(v)
		}
	}
	return attr
}

// fmtErr flattens an error (and its xerrors stack trace, if any) into a
// structured group value.
func fmtErr(err error) slog.Value {
	var groupValues []slog.Attr
	groupValues = append(groupValues, slog.String("msg", err.Error()))

	frames := marshalStack(err)
	if frames != nil {
		groupValues = append(groupValues, slog.Any("trace", frames))
	}

	return slog.GroupValue(groupValues...)
}

func marshalStack(err error) []stackFrame {
	trace := xerrors.StackTrace(err)
	if len(trace) == 0 {
		return nil
	}

	frames := trace.Frames()
	s := make([]stackFrame, len(frames))
	for i, v := range frames {
		s[i] = stackFrame{
			Source: filepath.Join(
				filepath.Base(filepath.Dir(v.File)),
				filepath.Base(v.File),
			),
			Func: filepath.Base(v.Function),
			Line: v.Line,
		}
	}

	return s
}

// LogError is a convenience wrapper used by handlers that only want the
// message and wrapped error recorded.
func LogError(ctx context.Context, msg string, err error) {
	GetLogger().ErrorContext(ctx, msg, slog.Any("error", xerrors.New(err)))
}
