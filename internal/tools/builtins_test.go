package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(t *testing.T, r *Registry, name string, input map[string]any) string {
	t.Helper()
	out, err := r.Dispatch(context.Background(), name, input, nil)
	require.NoError(t, err)
	return out
}

func TestCalculate(t *testing.T) {
	registry := New()

	out := dispatch(t, registry, "calculate", map[string]any{"expression": "2 + 3 * 4"})
	assert.Contains(t, out, "= 14")

	out = dispatch(t, registry, "calculate", map[string]any{"expression": "(2 + 3) * 4"})
	assert.Contains(t, out, "= 20")
}

func TestCalculate_Invalid(t *testing.T) {
	registry := New()

	_, err := registry.Dispatch(context.Background(), "calculate",
		map[string]any{"expression": "2 + banana"}, nil)

	require.Error(t, err)
}

func TestGetCurrentTime_UsesClock(t *testing.T) {
	fixed := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	registry := New(WithClock(func() time.Time { return fixed }))

	out := dispatch(t, registry, "get_current_time", nil)

	assert.Contains(t, out, "Friday, March 14, 2025")
}

func TestFormatEmail(t *testing.T) {
	registry := New()

	out := dispatch(t, registry, "format_email", map[string]any{
		"to":      "jordan@example.com",
		"subject": "Renewal",
		"body":    "The contract renews next month.",
		"tone":    "friendly",
	})

	assert.Contains(t, out, "To: jordan@example.com")
	assert.Contains(t, out, "Subject: Renewal")
	assert.Contains(t, out, "Hi jordan,")
	assert.Contains(t, out, "Cheers,")
}

func TestFormatEmail_MissingFields(t *testing.T) {
	registry := New()

	_, err := registry.Dispatch(context.Background(), "format_email",
		map[string]any{"to": "jordan@example.com"}, nil)

	require.Error(t, err)
}

func TestCreateCSVData(t *testing.T) {
	registry := New()

	out := dispatch(t, registry, "create_csv_data", map[string]any{
		"headers": []any{"name", "count"},
		"rows":    []any{[]any{"widgets", float64(3)}, []any{"gadgets, deluxe", float64(7)}},
	})

	assert.Contains(t, out, "name,count")
	assert.Contains(t, out, "widgets,3")
	// Cells containing commas must be quoted.
	assert.Contains(t, out, `"gadgets, deluxe",7`)
	assert.Contains(t, out, "2 rows with 2 columns")
}

func TestCheckCalendarAvailability(t *testing.T) {
	registry := New()

	out := dispatch(t, registry, "check_calendar_availability", map[string]any{
		"date":     "2025-06-02",
		"duration": float64(45),
	})

	assert.Contains(t, out, "2025-06-02")
	assert.Contains(t, out, "45 min meeting")
	assert.Contains(t, out, "Timezone: UTC")
}

func TestGenerateSummary_Truncates(t *testing.T) {
	registry := New()
	content := strings.Repeat("word ", 50)

	out := dispatch(t, registry, "generate_summary", map[string]any{
		"content":    content,
		"max_length": float64(10),
	})

	assert.Contains(t, out, "Summary (10 words)")
	assert.Contains(t, out, "Summarized from 50 words to 10 words")
}

func TestGenerateSummary_ShortContentUnchanged(t *testing.T) {
	registry := New()

	out := dispatch(t, registry, "generate_summary", map[string]any{
		"content": "already short",
	})

	assert.Contains(t, out, "already short")
	assert.Contains(t, out, "Original content (2 words)")
}

func TestValidateEmail(t *testing.T) {
	registry := New()

	valid := dispatch(t, registry, "validate_email", map[string]any{"email": "pat@example.com"})
	assert.Contains(t, valid, "VALID")
	assert.Contains(t, valid, "Domain: example.com")

	invalid := dispatch(t, registry, "validate_email", map[string]any{"email": "not-an-email"})
	assert.Contains(t, invalid, "INVALID")
}

func TestParseContactInfo(t *testing.T) {
	registry := New()

	out := dispatch(t, registry, "parse_contact_info", map[string]any{
		"text": "Reach Jane Smith at jane@acme.io or 555-123-4567, see https://acme.io/contact",
	})

	assert.Contains(t, out, "jane@acme.io")
	assert.Contains(t, out, "555-123-4567")
	assert.Contains(t, out, "https://acme.io/contact")
	assert.Contains(t, out, "Jane Smith")
}

func TestFetchURL(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("hello from the page"))
		}))
		defer server.Close()

		registry := New(WithHTTPClient(server.Client()))
		out := dispatch(t, registry, "fetch_url", map[string]any{"url": server.URL})

		assert.Equal(t, "hello from the page", out)
	})

	t.Run("json pretty printed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer server.Close()

		registry := New(WithHTTPClient(server.Client()))
		out := dispatch(t, registry, "fetch_url", map[string]any{"url": server.URL})

		assert.Contains(t, out, "\"status\": \"ok\"")
	})

	t.Run("http error reported as text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		registry := New(WithHTTPClient(server.Client()))
		out := dispatch(t, registry, "fetch_url", map[string]any{"url": server.URL})

		assert.Contains(t, out, "HTTP 404")
	})

	t.Run("long body truncated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(strings.Repeat("x", fetchBodyLimit+500)))
		}))
		defer server.Close()

		registry := New(WithHTTPClient(server.Client()))
		out := dispatch(t, registry, "fetch_url", map[string]any{"url": server.URL})

		assert.True(t, strings.HasSuffix(out, "... (truncated)"))
		assert.LessOrEqual(t, len(out), fetchBodyLimit+len("... (truncated)"))
	})
}
