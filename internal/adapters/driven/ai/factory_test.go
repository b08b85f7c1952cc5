package ai

import (
	"strings"
	"testing"

	"github.com/operand-hq/crewd/internal/core/domain"
)

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "test-model",
			},
			wantModel: "test-model",
		},
		{
			name: "anthropic without key returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
			},
			wantNil: true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
			wantModel: "llama3.2",
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if svc != nil {
					t.Fatalf("expected nil service, got %T", svc)
				}
				return
			}
			if svc == nil {
				t.Fatal("expected service, got nil")
			}
			defer svc.Close()
			if svc.ModelName() != tt.wantModel {
				t.Errorf("expected model %q, got %q", tt.wantModel, svc.ModelName())
			}
		})
	}
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://127.0.0.1:1", // Nothing listens here.
		Model:    "llama3.2",
	}

	svc, err := CreateAndValidateLLMService(settings)
	if err == nil {
		svc.Close()
		t.Fatal("expected connectivity error")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("expected unreachable guidance, got %v", err)
	}
}

func TestCreateAndValidateLLMService_NotConfigured(t *testing.T) {
	svc, err := CreateAndValidateLLMService(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Fatal("expected nil service for unconfigured settings")
	}
}
