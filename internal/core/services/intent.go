package services

import (
	"regexp"
	"strings"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// intentRule is one entry in the ordered classification table. Rules are
// evaluated top to bottom; the first match wins. A rule with capture > 0
// extracts that regex group into the classification's Industry field.
type intentRule struct {
	name    string
	pattern *regexp.Regexp
	intent  domain.Intent
	capture int
}

// intentRules is the classification table. Strong question signals come
// first so questions are never misrouted as tasks, no matter what action
// verbs they contain.
var intentRules = []intentRule{
	{
		name:    "leading wh-word",
		pattern: regexp.MustCompile(`(?i)^(what|when|where|who|why|which)\b`),
		intent:  domain.IntentQuery,
	},
	{
		name:    "explicit ask",
		pattern: regexp.MustCompile(`(?i)^(can you|could you|would you|will you) (tell|show|explain|describe)`),
		intent:  domain.IntentQuery,
	},
	{
		name:    "trailing question mark",
		pattern: regexp.MustCompile(`\?$`),
		intent:  domain.IntentQuery,
	},
	{
		name:    "company creation, industry first",
		pattern: regexp.MustCompile(`(?i)(?:create|make|build|start)(?:\s+a|\s+an)?\s+(.+?)\s+company`),
		intent:  domain.IntentCompanyCreation,
		capture: 1,
	},
	{
		name:    "company creation, industry after",
		pattern: regexp.MustCompile(`(?i)(?:create|make|build|start).*company.*(?:for|in|about)\s+([^.!?]+)`),
		intent:  domain.IntentCompanyCreation,
		capture: 1,
	},
	{
		name:    "company for industry",
		pattern: regexp.MustCompile(`(?i)company.*(?:for|in|about)\s+([^.!?]+)`),
		intent:  domain.IntentCompanyCreation,
		capture: 1,
	},
	{
		name:    "department creation",
		pattern: regexp.MustCompile(`(?i)(?:create|make|build|add|start).*(?:a|an|new)?\s*(.+?)\s*department`),
		intent:  domain.IntentOrgUnitCreation,
	},
	{
		name:    "department creation, purpose",
		pattern: regexp.MustCompile(`(?i)(?:create|make|build|add).*department.*(?:for|to handle|that)\s+(.+)`),
		intent:  domain.IntentOrgUnitCreation,
	},
	{
		name:    "department needed",
		pattern: regexp.MustCompile(`(?i)(?:need|want).*(?:a|an)?\s*(.+?)\s*department`),
		intent:  domain.IntentOrgUnitCreation,
	},
	{
		name:    "task suggestion request",
		pattern: regexp.MustCompile(`(?i)^(generate|suggest|propose|brainstorm)\b.*(task|idea|work)`),
		intent:  domain.IntentTaskGeneration,
	},
	{
		name:    "task action verb start",
		pattern: regexp.MustCompile(`(?i)^(help|handle|solve|fix|create|make|build|design|write|draft|develop|analyze|review|process|determine|research|find|identify|plan|prepare|generate|optimize|improve|assess|evaluate|investigate|study|explore)\b`),
		intent:  domain.IntentTaskExecution,
	},
	{
		name:    "task content, need done",
		pattern: regexp.MustCompile(`(?i)(need|want|require).*(help|assistance|support|done|handled|fixed|created|analyzed)`),
		intent:  domain.IntentTaskExecution,
	},
	{
		name:    "task content, customer issue",
		pattern: regexp.MustCompile(`(?i)(customer|client|user).*(issue|problem|complaint|request|concern)`),
		intent:  domain.IntentTaskExecution,
	},
	{
		name:    "task content, deliverable",
		pattern: regexp.MustCompile(`(?i)(plan.*(campaign|strategy|initiative)|analyze.*(data|feedback|performance|results)|create.*(strategy|plan|content|material)|write.*(proposal|report|document|plan)|research.*(market|competitor|trend|option)|design.*(product|feature|system|process))`),
		intent:  domain.IntentTaskExecution,
	},
}

// actionVerb and leadingQuestion back the final fallback: a message with an
// action verb and no leading question word is treated as a task.
var (
	actionVerb      = regexp.MustCompile(`(?i)\b(need|want|help|handle|solve|fix|create|make|process|analyze|determine|research|find|plan|design|develop|review|assess|evaluate|prepare|generate|build)\b`)
	leadingQuestion = regexp.MustCompile(`(?i)^(what|when|where|who|why|how are|how is|how do|how does)\b`)
)

// Classify detects the intent of a message by walking the ordered rule
// table. It never fails: an unmatched message falls back to task execution
// when it carries an action verb, otherwise to query.
func (s *RouterService) Classify(message string) domain.Classification {
	trimmed := strings.TrimSpace(message)

	for _, rule := range intentRules {
		m := rule.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		c := domain.Classification{Intent: rule.intent, Description: message}
		if rule.capture > 0 && rule.capture < len(m) {
			c.Industry = strings.TrimSpace(m[rule.capture])
		}
		return c
	}

	if actionVerb.MatchString(trimmed) && !leadingQuestion.MatchString(trimmed) {
		return domain.Classification{Intent: domain.IntentTaskExecution, Description: message}
	}
	return domain.Classification{Intent: domain.IntentQuery, Description: message}
}
