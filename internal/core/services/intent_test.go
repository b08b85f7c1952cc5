package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/operand-hq/crewd/internal/core/domain"
)

func TestRouterService_Classify(t *testing.T) {
	service := NewRouterService(nil)

	tests := []struct {
		name    string
		message string
		want    domain.Intent
	}{
		{"wh-word question", "what did marketing do last week", domain.IntentQuery},
		{"explicit ask", "can you tell me about our finances", domain.IntentQuery},
		{"trailing question mark", "plan a campaign?", domain.IntentQuery},
		{"question beats task verbs", "what should we create for the product launch?", domain.IntentQuery},
		{"company creation", "create a dog grooming company", domain.IntentCompanyCreation},
		{"company creation for industry", "start a company for real estate", domain.IntentCompanyCreation},
		{"department creation", "add a marketing department", domain.IntentOrgUnitCreation},
		{"department needed", "we need a legal department", domain.IntentOrgUnitCreation},
		{"task suggestion", "generate some task ideas for the team", domain.IntentTaskGeneration},
		{"task verb start", "write a proposal for the new client", domain.IntentTaskExecution},
		{"task content", "a customer has a complaint about their order", domain.IntentTaskExecution},
		{"action verb fallback", "someone should handle the vendor renewal", domain.IntentTaskExecution},
		{"no signals", "interesting weather today", domain.IntentQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.Classify(tt.message)
			assert.Equal(t, tt.want, got.Intent)
			assert.Equal(t, tt.message, got.Description)
		})
	}
}

func TestRouterService_Classify_ExtractsIndustry(t *testing.T) {
	service := NewRouterService(nil)

	c := service.Classify("create a dog grooming company")

	assert.Equal(t, domain.IntentCompanyCreation, c.Intent)
	assert.Equal(t, "dog grooming", c.Industry)
}
