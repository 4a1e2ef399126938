package mappings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RuleSet is a seedable mapping definition, one per transaction type.
type RuleSet struct {
	TransactionType string                 `yaml:"transaction_type" json:"transaction_type"`
	FieldMap        map[string]interface{} `yaml:"field_map" json:"field_map"`
	Defaults        map[string]interface{} `yaml:"defaults" json:"defaults,omitempty"`
	Transforms      map[string]interface{} `yaml:"transforms" json:"transforms,omitempty"`
	ValidationRules map[string]interface{} `yaml:"validation_rules" json:"validation_rules,omitempty"`
}

type RulesConfig struct {
	RuleSets []RuleSet `yaml:"rule_sets" json:"rule_sets"`
}

// LoadRules reads seed rule sets from a YAML file; an empty path yields the
// built-in defaults.
func LoadRules(path string) (RulesConfig, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), err
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return RulesConfig{}, err
	}
	if len(cfg.RuleSets) == 0 {
		return DefaultRules(), nil
	}
	return cfg, nil
}

func DefaultRules() RulesConfig {
	return RulesConfig{RuleSets: []RuleSet{
		{
			TransactionType: "204",
			FieldMap:        map[string]interface{}{"loadId": "B2.04", "pickupDate": "G62.02"},
			Defaults:        map[string]interface{}{"equipmentType": "VAN"},
		},
		{
			TransactionType: "210",
			FieldMap:        map[string]interface{}{"invoiceId": "B3.02", "amount": "L3.01"},
			ValidationRules: map[string]interface{}{"amount": "required,numeric"},
		},
		{
			TransactionType: "214",
			FieldMap:        map[string]interface{}{"loadId": "B10.02", "statusCode": "AT7.01"},
			Defaults:        map[string]interface{}{"statusCode": "X6"},
		},
	}}
}
