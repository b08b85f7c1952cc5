package tools

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// fetchBodyLimit caps how much of a fetched page is returned to the model.
const fetchBodyLimit = 5000

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func numberProp(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func (r *Registry) registerBuiltins() {
	r.Register(domain.ToolDef{
		Name:        "web_search",
		Description: "Search the web for current information. Use this when you need up-to-date data, news, or information not in your training data.",
		InputSchema: objectSchema(map[string]any{
			"query": stringProp("The search query"),
		}, "query"),
	}, r.webSearch)

	r.Register(domain.ToolDef{
		Name:        "fetch_url",
		Description: "Fetch content from a specific URL. Use this to read web pages, APIs, or documents.",
		InputSchema: objectSchema(map[string]any{
			"url": stringProp("The URL to fetch"),
		}, "url"),
	}, r.fetchURL)

	r.Register(domain.ToolDef{
		Name:        "calculate",
		Description: "Perform mathematical calculations. Use this for complex math, statistics, or data analysis.",
		InputSchema: objectSchema(map[string]any{
			"expression": stringProp("The mathematical expression to evaluate"),
		}, "expression"),
	}, calculate)

	r.Register(domain.ToolDef{
		Name:        "get_current_time",
		Description: "Get the current date and time. Use this when you need to know the current time.",
		InputSchema: objectSchema(map[string]any{}),
	}, r.currentTime)

	r.Register(domain.ToolDef{
		Name:        "format_email",
		Description: "Format and structure a professional email. Use this to create well-formatted emails with proper headers, body, and signature.",
		InputSchema: objectSchema(map[string]any{
			"to":      stringProp("Recipient email address or name"),
			"subject": stringProp("Email subject line"),
			"body":    stringProp("Email body content"),
			"tone":    stringProp("Email tone: professional, friendly, urgent, casual"),
		}, "to", "subject", "body"),
	}, formatEmail)

	r.Register(domain.ToolDef{
		Name:        "create_csv_data",
		Description: "Convert structured data into CSV format. Use this to export data for spreadsheets or analysis.",
		InputSchema: objectSchema(map[string]any{
			"headers": map[string]any{"type": "array", "description": "Column headers for the CSV"},
			"rows":    map[string]any{"type": "array", "description": "Array of row data"},
		}, "headers", "rows"),
	}, createCSVData)

	r.Register(domain.ToolDef{
		Name:        "check_calendar_availability",
		Description: "Check calendar availability and suggest meeting times. Use this to schedule meetings or check conflicts.",
		InputSchema: objectSchema(map[string]any{
			"date":     stringProp("Target date (YYYY-MM-DD)"),
			"duration": numberProp("Meeting duration in minutes"),
			"timezone": stringProp("Timezone (e.g., America/New_York)"),
		}, "date", "duration"),
	}, checkCalendarAvailability)

	r.Register(domain.ToolDef{
		Name:        "generate_summary",
		Description: "Generate a concise summary of long-form content. Use this to summarize documents, articles, or data.",
		InputSchema: objectSchema(map[string]any{
			"content":    stringProp("The content to summarize"),
			"max_length": numberProp("Maximum summary length in words (default: 100)"),
		}, "content"),
	}, generateSummary)

	r.Register(domain.ToolDef{
		Name:        "validate_email",
		Description: "Validate email address format. Use this to verify contact information.",
		InputSchema: objectSchema(map[string]any{
			"email": stringProp("Email address to validate"),
		}, "email"),
	}, validateEmail)

	r.Register(domain.ToolDef{
		Name:        "parse_contact_info",
		Description: "Extract and structure contact information from unstructured text. Use this to parse emails, business cards, or web scrapes.",
		InputSchema: objectSchema(map[string]any{
			"text": stringProp("Text containing contact information"),
		}, "text"),
	}, parseContactInfo)
}

// webSearch queries the DuckDuckGo instant answer API, which needs no key.
func (r *Registry) webSearch(ctx context.Context, input map[string]any) (string, error) {
	query := stringInput(input, "query")
	if query == "" {
		return "", fmt.Errorf("web_search: query is required")
	}

	endpoint := "https://api.duckduckgo.com/?q=" + url.QueryEscape(query) + "&format=json&no_html=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("web_search: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("web_search: %w", err)
	}
	defer resp.Body.Close()

	var data struct {
		AbstractText  string `json:"AbstractText"`
		AbstractURL   string `json:"AbstractURL"`
		RelatedTopics []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("web_search: decode response: %w", err)
	}

	if data.AbstractText != "" {
		source := data.AbstractURL
		if source == "" {
			source = "DuckDuckGo"
		}
		return fmt.Sprintf("Search results for %q:\n\n%s\n\nSource: %s", query, data.AbstractText, source), nil
	}

	var topics []string
	for _, topic := range data.RelatedTopics {
		text := topic.Text
		if text == "" {
			text = topic.FirstURL
		}
		if text != "" {
			topics = append(topics, text)
		}
		if len(topics) == 3 {
			break
		}
	}
	if len(topics) > 0 {
		return fmt.Sprintf("Search results for %q:\n\n%s", query, strings.Join(topics, "\n\n")), nil
	}
	return fmt.Sprintf("No detailed results found for %q. Try a more specific search query.", query), nil
}

// fetchURL retrieves a page, pretty-printing JSON and truncating long bodies.
func (r *Registry) fetchURL(ctx context.Context, input map[string]any) (string, error) {
	target := stringInput(input, "url")
	if target == "" {
		return "", fmt.Errorf("fetch_url: url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("fetch_url: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch_url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Sprintf("Failed to fetch URL: HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetchBodyLimit+1))
	if err != nil {
		return "", fmt.Errorf("fetch_url: read body: %w", err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var pretty json.RawMessage
		if json.Unmarshal(body, &pretty) == nil {
			if formatted, err := json.MarshalIndent(pretty, "", "  "); err == nil {
				return string(formatted), nil
			}
		}
	}

	if len(body) > fetchBodyLimit {
		return string(body[:fetchBodyLimit]) + "... (truncated)", nil
	}
	return string(body), nil
}

// currentTime reports the registry clock's current time.
func (r *Registry) currentTime(_ context.Context, _ map[string]any) (string, error) {
	now := r.now()
	return "Current date and time: " + now.Format("Monday, January 2, 2006 03:04:05 PM MST"), nil
}

// calculate evaluates a basic arithmetic expression.
func calculate(_ context.Context, input map[string]any) (string, error) {
	expression := stringInput(input, "expression")
	if expression == "" {
		return "", fmt.Errorf("calculate: expression is required")
	}

	value, err := evalExpression(expression)
	if err != nil {
		return "", fmt.Errorf("calculate: %w", err)
	}
	return fmt.Sprintf("%s = %g", expression, value), nil
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func formatEmail(_ context.Context, input map[string]any) (string, error) {
	to := stringInput(input, "to")
	subject := stringInput(input, "subject")
	body := stringInput(input, "body")
	tone := stringInput(input, "tone")

	if to == "" || subject == "" || body == "" {
		return "", fmt.Errorf("format_email: to, subject and body are required")
	}

	greeting, closing := "Dear", "Best regards"
	switch tone {
	case "friendly":
		greeting, closing = "Hi", "Cheers"
	case "urgent":
		greeting, closing = "Hello", "Urgently"
	case "casual":
		greeting, closing = "Hey", "Thanks"
	default:
		tone = "professional"
	}

	recipient := to
	if at := strings.Index(to, "@"); at > 0 {
		recipient = to[:at]
	}

	return fmt.Sprintf(`To: %s
Subject: %s

%s %s,

%s

%s,
[Your Name]

---
Email formatted with %s tone`, to, subject, greeting, recipient, body, closing, tone), nil
}

func createCSVData(_ context.Context, input map[string]any) (string, error) {
	headers, ok := input["headers"].([]any)
	if !ok {
		return "", fmt.Errorf("create_csv_data: headers must be an array")
	}
	rows, ok := input["rows"].([]any)
	if !ok {
		return "", fmt.Errorf("create_csv_data: rows must be an array")
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	record := make([]string, len(headers))
	for i, h := range headers {
		record[i] = fmt.Sprint(h)
	}
	if err := w.Write(record); err != nil {
		return "", fmt.Errorf("create_csv_data: %w", err)
	}

	for _, row := range rows {
		cells, ok := row.([]any)
		if !ok {
			return "", fmt.Errorf("create_csv_data: each row must be an array")
		}
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = fmt.Sprint(c)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("create_csv_data: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("create_csv_data: %w", err)
	}

	return fmt.Sprintf("CSV Data Created:\n\n%s\n---\n%d rows with %d columns",
		buf.String(), len(rows), len(headers)), nil
}

func checkCalendarAvailability(_ context.Context, input map[string]any) (string, error) {
	date := stringInput(input, "date")
	duration := int(numberInput(input, "duration"))
	timezone := stringInput(input, "timezone")
	if timezone == "" {
		timezone = "UTC"
	}
	if date == "" || duration <= 0 {
		return "", fmt.Errorf("check_calendar_availability: date and duration are required")
	}

	// Suggested slots are simulated business hours, not a real calendar.
	slots := []string{
		"9:00 AM - 10:00 AM",
		"10:30 AM - 11:30 AM",
		"1:00 PM - 2:00 PM",
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Calendar Availability for %s:\n\nAvailable time slots (%d min meeting):\n", date, duration)
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. %s\n", i+1, slot)
	}
	fmt.Fprintf(&b, "\nTimezone: %s\n\n%d available slots found. Reply with preferred time to confirm.", timezone, len(slots))
	return b.String(), nil
}

func generateSummary(_ context.Context, input map[string]any) (string, error) {
	content := strings.TrimSpace(stringInput(input, "content"))
	if content == "" {
		return "", fmt.Errorf("generate_summary: content is required")
	}
	maxWords := int(numberInput(input, "max_length"))
	if maxWords <= 0 {
		maxWords = 100
	}

	words := strings.Fields(content)
	if len(words) <= maxWords {
		return fmt.Sprintf("Summary:\n\n%s\n\n---\nOriginal content (%d words)", content, len(words)), nil
	}

	summary := strings.Join(words[:maxWords], " ") + "..."
	return fmt.Sprintf("Summary (%d words):\n\n%s\n\n---\nSummarized from %d words to %d words",
		maxWords, summary, len(words), maxWords), nil
}

func validateEmail(_ context.Context, input map[string]any) (string, error) {
	email := stringInput(input, "email")
	if email == "" {
		return "", fmt.Errorf("validate_email: email is required")
	}

	if !emailPattern.MatchString(email) {
		return fmt.Sprintf("Email Validation: INVALID\n\nEmail: %s\nReason: Invalid format", email), nil
	}
	domainPart := email[strings.Index(email, "@")+1:]
	return fmt.Sprintf("Email Validation: VALID\n\nEmail: %s\nDomain: %s\nFormat: Correct", email, domainPart), nil
}

var (
	contactEmailPattern = regexp.MustCompile(`[^\s@]+@[^\s@]+\.[^\s@]+`)
	contactPhonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	contactURLPattern   = regexp.MustCompile(`https?://[^\s]+`)
	contactNamePattern  = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+(\s+[A-Z][a-z]+)?\b`)
)

func parseContactInfo(_ context.Context, input map[string]any) (string, error) {
	text := stringInput(input, "text")
	if text == "" {
		return "", fmt.Errorf("parse_contact_info: text is required")
	}

	emails := contactEmailPattern.FindAllString(text, -1)
	phones := contactPhonePattern.FindAllString(text, -1)
	urls := contactURLPattern.FindAllString(text, -1)
	names := contactNamePattern.FindAllString(text, -1)
	if len(names) > 3 {
		names = names[:3]
	}

	var b strings.Builder
	b.WriteString("Contact Information Extracted:\n")
	writeList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", label)
		for _, item := range items {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	writeList("Emails", emails)
	writeList("Phone Numbers", phones)
	writeList("URLs", urls)
	writeList("Potential Names", names)
	fmt.Fprintf(&b, "\n---\nParsed %d email(s), %d phone(s), %d URL(s)", len(emails), len(phones), len(urls))
	return b.String(), nil
}
