package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"invalid email", "F001", "The address must end with `@gmail.com`.", CategoryValidation},
		{"mismatch email", "F002", "The e-mail addresses do not match.", CategoryValidation},
		{"username unavailable", "F003", "The username has been taken.", CategoryValidation},
		{"service unavailable", "S001", "The username service is unavailable.", CategoryService},
		{"config", "C001", "Invalid configuration", CategoryConfig},
		{"unknown", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, tt.wantCat, err.Category)
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "F002: The e-mail addresses do not match.", New("F002").Error())
	assert.Equal(t, "plain", Newf(CategoryProtocol, "plain").Error())

	wrapped := New("S001").Wrap(stderrors.New("dial tcp: refused"))
	assert.Equal(t, "S001: The username service is unavailable.: dial tcp: refused", wrapped.Error())
	assert.Equal(t, "The username service is unavailable.", wrapped.Reason())
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("F003")
	cause := stderrors.New("timeout")

	err := fmt.Errorf("submit: %w", New("F003").Wrap(cause))
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, New("F001"))
	assert.NotErrorIs(t, Newf(CategoryConfig, "x"), Newf(CategoryConfig, "x"))
}

func TestBuildersCopy(t *testing.T) {
	base := New("F001")
	withHint := base.WithSuggestion("try again").WithDetail("more")

	assert.Equal(t, "try again", withHint.Suggestion)
	assert.Equal(t, "more", withHint.Detail)
	assert.NotEqual(t, "try again", base.Suggestion)
	assert.Nil(t, base.Wrapped)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil, "S001"))

	existing := New("F002")
	assert.Same(t, existing, FromError(existing, "S001"))

	plain := stderrors.New("boom")
	got := FromError(plain, "S001")
	assert.Equal(t, "S001", got.Code)
	assert.ErrorIs(t, got, plain)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "F003", CodeOf(fmt.Errorf("ctx: %w", New("F003"))))
	assert.Equal(t, "", CodeOf(stderrors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("F003").Wrap(stderrors.New("503")).Format()
	assert.Contains(t, out, "ERROR F003: The username has been taken.")
	assert.Contains(t, out, "Cause: 503")
	assert.Contains(t, out, "Hint: Pick a different address.")

	assert.Equal(t, "F002: The e-mail addresses do not match.", New("F002").FormatCompact())
}

func TestFormatColors(t *testing.T) {
	EnableColors()
	assert.Contains(t, New("F001").Format(), colorRed)
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(New("F003").Wrap(stderrors.New("taken")))
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "F003", decoded["code"])
	assert.Equal(t, "validation", decoded["category"])
	assert.Equal(t, "taken", decoded["cause"])
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	require.NotEmpty(t, codes)
	assert.True(t, strings.Compare(codes[0], codes[len(codes)-1]) < 0)

	Register("X001", ErrorTemplate{Category: CategoryProtocol, Message: "custom"})
	defer delete(registry, "X001")

	tmpl, ok := GetTemplate("X001")
	require.True(t, ok)
	assert.Equal(t, "custom", tmpl.Message)
	assert.Equal(t, "custom", New("X001").Message)
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	assert.Equal(t, []string{"one two", "three", "four five"}, lines)
	assert.Nil(t, wrapText("   ", 10))
}
