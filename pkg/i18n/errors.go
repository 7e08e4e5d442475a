package i18n

import "errors"

var (
	ErrParsingCancelled   = errors.New("translation parsing cancelled")
	ErrFailedToParseJSON  = errors.New("failed to parse JSON translations")
	ErrFailedToParseYAML  = errors.New("failed to parse YAML translations")
	ErrUnsupportedFormat  = errors.New("unsupported translation file format")
	ErrFailedToReadFile   = errors.New("failed to read translation file")
	ErrInvalidTranslation = errors.New("invalid translation catalog")
)
