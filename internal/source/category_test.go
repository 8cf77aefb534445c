package source

import (
	"testing"

	"github.com/amishk599/internwatch/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		title string
		want  model.Category
	}{
		{"Software Engineer Intern", model.CategorySWE},
		{"Backend Intern (Summer)", model.CategorySWE},
		{"iOS Developer Intern", model.CategorySWE},
		{"Data Analyst Intern", model.CategoryDA},
		{"Business Analyst, Strategy", model.CategoryDA},
		{"Machine Learning Intern", model.CategoryMLAI},
		{"Research Scientist Intern", model.CategoryMLAI},
		{"Applied AI Intern", model.CategoryMLAI},
		{"Product Manager Intern", model.CategoryPM},
		{"APM Program 2026", model.CategoryPM},
		{"Marketing Intern", model.CategoryUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.title, func(t *testing.T) {
			got := Classify(DefaultRules, tc.title, model.CategoryUnknown)
			if got != tc.want {
				t.Errorf("Classify(%q) = %s, want %s", tc.title, got, tc.want)
			}
		})
	}
}

func TestClassify_RuleOrderWins(t *testing.T) {
	// "Product Manager, Machine Learning" hits the PM rule first because the
	// table is ordered most specific first.
	got := Classify(DefaultRules, "Product Manager Intern, Machine Learning", model.CategoryUnknown)
	if got != model.CategoryPM {
		t.Errorf("Classify = %s, want PM (first matching rule)", got)
	}
}

func TestClassify_CustomRules(t *testing.T) {
	rules := []Rule{{model.CategoryDA, []string{"quant"}}}
	got := Classify(rules, "Quant Research Intern", model.CategorySWE)
	if got != model.CategoryDA {
		t.Errorf("Classify = %s, want DA from custom rule", got)
	}
	got = Classify(rules, "Software Intern", model.CategorySWE)
	if got != model.CategorySWE {
		t.Errorf("Classify = %s, want fallback", got)
	}
}
