package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBotServer answers getMe and sendMessage like the Bot API and records sent texts
func mockBotServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var (
		mu   sync.Mutex
		sent []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Muestras","username":"samples_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			assert.NoError(t, r.ParseForm())
			mu.Lock()
			sent = append(sent, r.FormValue("text"))
			mu.Unlock()
			assert.Equal(t, "42", r.FormValue("chat_id"))
			io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		}
	}))
	t.Cleanup(server.Close)
	return server, &sent
}

func breachingRecord() entities.SampleRecord {
	return entities.SampleRecord{
		Code:      "R25-03001",
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:      "09:30",
		WaterType: entities.WaterPotable,
		PH:        9.7,
		Chlorine:  2.6,
		Sampler:   "Julian",
	}
}

func TestBotNotifierSendsAlert(t *testing.T) {
	server, sent := mockBotServer(t)

	n, err := NewBotNotifierWithEndpoint("token", server.URL+"/bot%s/%s", 42)
	require.NoError(t, err)

	rec := breachingRecord()
	require.NoError(t, n.NotifyExceedance(context.Background(), rec, rec.Breaches()))

	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0], "R25-03001")
	assert.Contains(t, (*sent)[0], "pH: 9.70 (máximo 9.50)")
	assert.Contains(t, (*sent)[0], "Cloro (mg/L): 2.60 (máximo 2.00)")
}

func TestBotNotifierSkipsWithoutBreaches(t *testing.T) {
	server, sent := mockBotServer(t)

	n, err := NewBotNotifierWithEndpoint("token", server.URL+"/bot%s/%s", 42)
	require.NoError(t, err)

	require.NoError(t, n.NotifyExceedance(context.Background(), entities.SampleRecord{Code: "I25-03001"}, nil))
	assert.Empty(t, *sent)
}

func TestBotNotifierHonoursCancelledContext(t *testing.T) {
	server, sent := mockBotServer(t)

	n, err := NewBotNotifierWithEndpoint("token", server.URL+"/bot%s/%s", 42)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := breachingRecord()
	assert.ErrorIs(t, n.NotifyExceedance(ctx, rec, rec.Breaches()), context.Canceled)
	assert.Empty(t, *sent)
}

func TestFormatAlert(t *testing.T) {
	rec := breachingRecord()
	text := FormatAlert(rec, rec.Breaches()[:1])

	assert.True(t, strings.HasPrefix(text, "⚠️ Muestra R25-03001 fuera de límite"))
	assert.Contains(t, text, "2025-03-10 09:30")
	assert.Contains(t, text, "AP - Agua Potable")
	assert.NotContains(t, text, "Cloro")
	assert.Contains(t, text, "Julian")
}
