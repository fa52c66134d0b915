package models

// Property is a let property referenced, never owned, by transactions.
// Keywords drive the heuristic property assignment during categorization.
type Property struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Address  string   `yaml:"address,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
}
