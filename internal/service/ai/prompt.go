package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/ev-commerce/backend/internal/analysis/intent"
	"github.com/zhouzirui/ev-commerce/backend/internal/finance/loan"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
)

// PromptTemplate defines the structure of the assistant system prompt.
type PromptTemplate struct {
	Role         string
	ContextRules []string
}

// DefaultTemplate is the storefront assistant persona.
func DefaultTemplate() PromptTemplate {
	return PromptTemplate{
		Role: "You are the customer support assistant of an online electric vehicle store. " +
			"Answer briefly and only about the store, its vehicles, financing, charging, orders and reviews.",
		ContextRules: []string{
			"Prefer the store facts below over general knowledge.",
			"Never invent prices, discounts or delivery dates that are not listed.",
			"If the question is unrelated to the store, politely say you can only help with store topics.",
			"Keep answers under 80 words.",
		},
	}
}

// PromptBuilder renders the system prompt from the static knowledge and catalog.
type PromptBuilder struct {
	template PromptTemplate
	kb       *intent.KnowledgeBase
	vehicles catalog.Store
}

// NewPromptBuilder creates a builder. vehicles may be nil.
func NewPromptBuilder(template PromptTemplate, kb *intent.KnowledgeBase, vehicles catalog.Store) *PromptBuilder {
	return &PromptBuilder{template: template, kb: kb, vehicles: vehicles}
}

// BuildSystemPrompt assembles role, rules and store facts.
func (b *PromptBuilder) BuildSystemPrompt() string {
	var builder strings.Builder
	builder.WriteString(b.template.Role)

	if len(b.template.ContextRules) > 0 {
		builder.WriteString("\n\nRules:\n")
		for _, rule := range b.template.ContextRules {
			builder.WriteString("- ")
			builder.WriteString(rule)
			builder.WriteString("\n")
		}
	}

	if b.kb != nil && len(b.kb.Entries) > 0 {
		builder.WriteString("\nStore FAQ:\n")
		for _, entry := range b.kb.Entries {
			builder.WriteString(fmt.Sprintf("Q: %s\nA: %s\n", entry.Key, strings.ReplaceAll(entry.Response, "\n", " ")))
		}
	}

	if b.vehicles != nil {
		items := b.vehicles.List()
		if len(items) > 0 {
			builder.WriteString("\nVehicles in stock:\n")
			for _, v := range items {
				if !v.Available {
					continue
				}
				price, _ := v.Price.Float64()
				estimate := loan.QuickEstimate(price).Rounded()
				builder.WriteString(fmt.Sprintf("- %s (%s): $%s, %d km range, %d kWh battery, from $%s/month over %d months\n",
					v.DisplayName(), strings.ToLower(string(v.Category)), v.Price.StringFixed(0),
					v.RangeKm, v.BatteryCapacityKwh, estimate.MonthlyPayment.StringFixed(2), loan.QuickEstimateTermMonths))
			}
		}
	}

	return strings.TrimRight(builder.String(), "\n")
}
