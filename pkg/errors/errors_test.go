package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/shelf/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "item",
			ID:       "42",
		}
		assert.Equal(t, "item with ID 42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("item", "7")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "area",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field area: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("", nil, "invalid configuration")
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
	})
}

func TestSourceUnavailableError(t *testing.T) {
	base := errors.New("connection refused")
	err := pkgerrors.NewSourceUnavailableError("http", base)

	assert.Contains(t, err.Error(), "http")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, pkgerrors.IsSourceUnavailable(err))
	assert.Equal(t, base, errors.Unwrap(err))

	wrapped := fmt.Errorf("reload: %w", pkgerrors.WrapSource("file", base))
	assert.True(t, pkgerrors.IsSourceUnavailable(wrapped))
	assert.Nil(t, pkgerrors.WrapSource("file", nil))
}

func TestCorruptOverlayError(t *testing.T) {
	t.Run("decode failure", func(t *testing.T) {
		err := &pkgerrors.CorruptOverlayError{Key: "default", Err: errors.New("unexpected EOF")}
		assert.Contains(t, err.Error(), "corrupt")
		assert.True(t, pkgerrors.IsCorruptOverlay(err))
	})

	t.Run("unsupported version", func(t *testing.T) {
		err := &pkgerrors.CorruptOverlayError{Key: "default", Version: 9}
		assert.Contains(t, err.Error(), "version 9")
		assert.True(t, pkgerrors.IsCorruptOverlay(err))
	})
}

func TestInvalidEditValueError(t *testing.T) {
	err := pkgerrors.NewInvalidEditValueError("stock", "abc", "not a number")
	assert.Equal(t, `invalid value "abc" for stock: not a number`, err.Error())
	assert.True(t, pkgerrors.IsInvalidEditValue(err))
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestOrderMembershipMismatchError(t *testing.T) {
	err := &pkgerrors.OrderMembershipMismatchError{
		Missing:    []string{"2"},
		Unexpected: []string{"9"},
	}
	assert.Contains(t, err.Error(), "order/membership mismatch")
	assert.Contains(t, err.Error(), "[2]")
	assert.True(t, pkgerrors.IsOrderMembershipMismatch(err))
	assert.False(t, pkgerrors.IsInvalidEditValue(err))
}

func TestRemoteWriteFailureError(t *testing.T) {
	base := errors.New("503 Service Unavailable")
	err := &pkgerrors.RemoteWriteFailureError{Action: "add", ItemID: "5", Err: base}

	assert.Equal(t, "remote add of item 5 failed: 503 Service Unavailable", err.Error())
	assert.True(t, pkgerrors.IsRemoteWriteFailure(err))

	var target *pkgerrors.RemoteWriteFailureError
	require.True(t, errors.As(fmt.Errorf("queue: %w", err), &target))
	assert.Equal(t, "5", target.ItemID)
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("https://example.com/items.json", 500, "internal server error")
		assert.Contains(t, err.Error(), "example.com")
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("connection timeout")
		err := &pkgerrors.APIError{Endpoint: "catalog", Message: "request failed", Err: baseErr}
		assert.Contains(t, err.Error(), "request failed")
		assert.Equal(t, baseErr, err.Unwrap())
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("store", "unknown backend", nil)
	assert.Contains(t, err.Error(), "store")
	assert.Contains(t, err.Error(), "unknown backend")

	err = &pkgerrors.ConfigError{Message: "missing source"}
	assert.Equal(t, "configuration error: missing source", err.Error())
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/overlay.json", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "/data/overlay.json")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("read", "/tmp/items.json", errors.New("permission denied"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "read", ioErr.Operation)
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "yaml", File: "items.yaml", Message: "invalid indentation"}
		assert.Equal(t, "parse error in yaml file items.yaml: invalid indentation", err.Error())
	})

	t.Run("format only", func(t *testing.T) {
		wrapped := pkgerrors.WrapParse("json", "", errors.New("unexpected end of JSON input"))
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "json parse error: unexpected end of JSON input", parseErr.Error())
	})
}

func TestResourceError(t *testing.T) {
	err := pkgerrors.WrapResource("save", "overlay", "default", pkgerrors.ErrClosed)
	resErr, ok := err.(*pkgerrors.ResourceError)
	require.True(t, ok)
	assert.Equal(t, "save", resErr.Operation)
	assert.True(t, errors.Is(err, pkgerrors.ErrClosed))
	assert.Equal(t, "failed to save overlay default: closed", err.Error())
}
