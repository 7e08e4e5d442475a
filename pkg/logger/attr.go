package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Form records the form name under the key "form".
func Form(name string) slog.Attr {
	return slog.String("form", name)
}

// Field records the field name under the key "field".
// If name is empty, it returns an empty Attr.
func Field(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("field", name)
}

// Step records the snapshot depth of a multi-step form under the key "step".
func Step(depth int) slog.Attr {
	return slog.Int("step", depth)
}

// Refs records a registry reference count under the key "refs".
func Refs(n int) slog.Attr {
	return slog.Int("refs", n)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
