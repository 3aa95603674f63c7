package components

// Field is the control-level data handed to component templates.
type Field struct {
	Name          string   `json:"name"`
	ID            string   `json:"id"`
	InputName     string   `json:"input_name"`
	Kind          string   `json:"kind"`
	InputType     string   `json:"input_type"`
	Step          string   `json:"step,omitempty"`
	Text          string   `json:"text"`
	Placeholder   string   `json:"placeholder,omitempty"`
	Label         string   `json:"label"`
	Disabled      bool     `json:"disabled"`
	Required      bool     `json:"required"`
	Checked       bool     `json:"checked"`
	Unset         bool     `json:"unset"`
	Invalid       bool     `json:"invalid"`
	AddonLabel    string   `json:"addon_label,omitempty"`
	CheckboxLabel string   `json:"checkbox_label,omitempty"`
	Choices       []Choice `json:"choices,omitempty"`
}

// Choice is one option of a select or checkboxes control.
type Choice struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}
