package logger

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	items []datadogV2.HTTPLogItem
	err   error
}

func (f *fakeSubmitter) SubmitLog(
	_ context.Context,
	body []datadogV2.HTTPLogItem,
	_ ...datadogV2.SubmitLogOptionalParameters,
) (interface{}, *http.Response, error) {
	if f.err != nil {
		return nil, nil, f.err
	}

	f.items = append(f.items, body...)

	return nil, nil, nil
}

func TestDataDogWriterLevels(t *testing.T) {
	tests := []struct {
		name     string
		minLevel string
		level    zerolog.Level
		shipped  bool
	}{
		{name: "warn default ships warn", level: zerolog.WarnLevel, shipped: true},
		{name: "warn default drops info", level: zerolog.InfoLevel, shipped: false},
		{name: "warn default ships error", level: zerolog.ErrorLevel, shipped: true},
		{name: "no level always ships", level: zerolog.NoLevel, shipped: true},
		{name: "debug min ships info", minLevel: "debug", level: zerolog.InfoLevel, shipped: true},
		{name: "error min drops warn", minLevel: "error", level: zerolog.WarnLevel, shipped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSubmitter{}

			w, err := newDataDogWriter(DataDog{APIKey: "k", ServiceName: "habit-admin", MinLevel: tt.minLevel}, f)
			require.NoError(t, err)

			n, err := w.WriteLevel(tt.level, []byte(`{"message":"x"}`))
			require.NoError(t, err)
			assert.Equal(t, len(`{"message":"x"}`), n)

			if tt.shipped {
				require.Len(t, f.items, 1)
				assert.Equal(t, `{"message":"x"}`, f.items[0].Message)
				assert.Equal(t, "habit-admin", f.items[0].GetService())
			} else {
				assert.Empty(t, f.items)
			}
		})
	}
}

func TestDataDogWriterSubmitError(t *testing.T) {
	f := &fakeSubmitter{err: errors.New("intake down")}

	w, err := newDataDogWriter(DataDog{APIKey: "k"}, f)
	require.NoError(t, err)

	_, err = w.WriteLevel(zerolog.ErrorLevel, []byte("boom"))
	assert.Error(t, err)
}

func TestDataDogWriterInvalidMinLevel(t *testing.T) {
	_, err := newDataDogWriter(DataDog{APIKey: "k", MinLevel: "loud"}, &fakeSubmitter{})
	assert.Error(t, err)
}

func TestNewDataDogWriterNeedsAPIKey(t *testing.T) {
	_, err := NewDataDogWriter(DataDog{})
	assert.ErrorIs(t, err, ErrDataDogAPIKeyIsEmpty)
}
