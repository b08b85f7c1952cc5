package domain

// ToolDef declares a tool to the model.
type ToolDef struct {
	// Name is the tool identifier the model calls it by.
	Name string

	// Description tells the model when to use the tool.
	Description string

	// InputSchema is a JSON Schema object describing the tool input.
	InputSchema map[string]any
}

// CustomToolAuthType selects how a user-defined tool endpoint authenticates.
type CustomToolAuthType string

// Supported custom tool auth schemes.
const (
	CustomToolAuthNone   CustomToolAuthType = "none"
	CustomToolAuthBearer CustomToolAuthType = "bearer"
	CustomToolAuthAPIKey CustomToolAuthType = "apikey"
)

// CustomTool is a user-defined tool backed by an HTTP endpoint. Dispatch
// POSTs the tool input to the endpoint and surfaces any failure as
// tool-error text rather than aborting the run.
type CustomTool struct {
	ID          string
	Name        string
	Description string
	Endpoint    string
	AuthType    CustomToolAuthType
	AuthValue   string
}
