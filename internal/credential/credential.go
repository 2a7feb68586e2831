// Package credential reads the session token from the settings document.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"go.uber.org/zap"
)

// Key is the settings field holding the token.
const Key = "iksm-session"

var (
	ErrMissing        = errors.New("settings file not found")
	ErrUnreadable     = errors.New("settings file unreadable")
	ErrMalformed      = errors.New("invalid JSON structure")
	ErrFieldMissing   = errors.New("entry '" + Key + "' not found")
	ErrFieldWrongType = errors.New("invalid data format for " + Key)
	ErrFieldEmpty     = errors.New("empty value for " + Key)
)

type Reader struct {
	Logger *zap.Logger
	Path   string
	// Verbatim logs the token as read instead of masking it.
	Verbatim bool
}

func NewReader(logger *zap.Logger, path string) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{Logger: logger, Path: path}
}

// Read loads the token fresh from disk. Errors match one of the Err values
// above via errors.Is.
func (r *Reader) Read() (string, error) {
	token, err := readToken(r.Path)
	if err != nil {
		r.Logger.Error("credential_read_error",
			zap.String("path", r.Path),
			zap.String("cause", causeOf(err)),
			zap.Error(err),
		)
		return "", err
	}
	r.Logger.Info("credential_read",
		zap.String("path", r.Path),
		zap.String("token", r.render(token)),
	)
	return token, nil
}

func (r *Reader) render(token string) string {
	if r.Verbatim {
		return token
	}
	return Mask(token)
}

func readToken(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: root is %s, want object", ErrMalformed, kindOf(doc))
	}

	v, ok := root[Key]
	if !ok {
		return "", ErrFieldMissing
	}
	token, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: got %s", ErrFieldWrongType, kindOf(v))
	}
	if token == "" {
		return "", ErrFieldEmpty
	}
	return token, nil
}

// Kind names the failure class of err for logs and cycle records.
// It returns "" for nil and "unknown" for errors outside this package.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissing):
		return "config_missing"
	case errors.Is(err, ErrUnreadable):
		return "config_unreadable"
	case errors.Is(err, ErrMalformed):
		return "config_malformed"
	case errors.Is(err, ErrFieldMissing):
		return "config_field_missing"
	case errors.Is(err, ErrFieldWrongType):
		return "config_field_wrong_type"
	case errors.Is(err, ErrFieldEmpty):
		return "config_field_empty"
	default:
		return "unknown"
	}
}

func causeOf(err error) string {
	return "could not find token information in the settings file (" + err.Error() + ")"
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Mask keeps the first four characters of a token and hides the rest.
func Mask(token string) string {
	const keep = 4
	if len(token) <= keep {
		return "****(" + strconv.Itoa(len(token)) + ")"
	}
	return token[:keep] + "****(" + strconv.Itoa(len(token)) + ")"
}
