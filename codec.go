package formkit

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

const snapshotCodecVersion = 1

var (
	// ErrUnsupportedValue is returned when a snapshot holds a value with no field kind.
	ErrUnsupportedValue = errors.New("unsupported snapshot value")

	// ErrSnapshotToken is returned for malformed or incompatible snapshot tokens.
	ErrSnapshotToken = errors.New("invalid snapshot token")
)

type wireValue struct {
	Kind string          `msgpack:"k"`
	S    string          `msgpack:"s,omitempty"`
	N    float64         `msgpack:"n,omitempty"`
	B    bool            `msgpack:"b,omitempty"`
	F    validator.Files `msgpack:"f,omitempty"`
}

type wireStack struct {
	Version int                    `msgpack:"v"`
	Frames  []map[string]wireValue `msgpack:"frames"`
}

const wireNil = "nil"

func toWire(v any) (wireValue, error) {
	if v == nil {
		return wireValue{Kind: wireNil}, nil
	}
	kind, ok := validator.KindOf(v)
	if !ok {
		return wireValue{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	w := wireValue{Kind: kind.String()}
	switch kind {
	case KindString:
		w.S = v.(string)
	case KindNumber:
		w.N, _ = validator.ToFloat(v)
	case KindBool:
		w.B = v.(bool)
	case KindFiles:
		w.F, _ = validator.AsFiles(v)
	}
	return w, nil
}

func fromWire(w wireValue) (any, error) {
	switch w.Kind {
	case wireNil:
		return nil, nil
	case KindString.String():
		return w.S, nil
	case KindNumber.String():
		return w.N, nil
	case KindBool.String():
		return w.B, nil
	case KindFiles.String():
		if w.F == nil {
			return validator.Files{}, nil
		}
		return w.F, nil
	default:
		return nil, fmt.Errorf("%w: unknown value kind %q", ErrSnapshotToken, w.Kind)
	}
}

// EncodeSnapshots packs a snapshot stack with msgpack. Numbers are stored as
// float64 and come back as float64.
func EncodeSnapshots(frames []Snapshot) ([]byte, error) {
	stack := wireStack{
		Version: snapshotCodecVersion,
		Frames:  make([]map[string]wireValue, len(frames)),
	}
	for i, frame := range frames {
		out := make(map[string]wireValue, len(frame))
		for name, v := range frame {
			w, err := toWire(v)
			if err != nil {
				return nil, fmt.Errorf("formkit: encode snapshot field %q: %w", name, err)
			}
			out[name] = w
		}
		stack.Frames[i] = out
	}

	packed, err := msgpack.Marshal(stack)
	if err != nil {
		return nil, fmt.Errorf("formkit: encode snapshots: %w", err)
	}
	return packed, nil
}

// DecodeSnapshots reverses EncodeSnapshots.
func DecodeSnapshots(data []byte) ([]Snapshot, error) {
	var stack wireStack
	if err := msgpack.Unmarshal(data, &stack); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotToken, err)
	}
	if stack.Version != snapshotCodecVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSnapshotToken, stack.Version)
	}

	frames := make([]Snapshot, len(stack.Frames))
	for i, in := range stack.Frames {
		frame := make(Snapshot, len(in))
		for name, w := range in {
			v, err := fromWire(w)
			if err != nil {
				return nil, err
			}
			frame[name] = v
		}
		frames[i] = frame
	}
	return frames, nil
}

// ExportSnapshots returns the form's snapshot stack as a URL-safe token.
func (f *Form) ExportSnapshots() (string, error) {
	packed, err := EncodeSnapshots(f.Snapshots())
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// ImportSnapshots replaces the form's snapshot stack with the one encoded in
// token. Field values are left as they are.
func (f *Form) ImportSnapshots(token string) error {
	packed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotToken, err)
	}
	frames, err := DecodeSnapshots(packed)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return ErrFormDisposed
	}
	f.snapshots.Replace(frames)
	f.mu.Unlock()

	f.publish()
	return nil
}
