package formatter

import "fmt"

// Preset is a named template.
type Preset struct {
	Name        string
	Template    string
	Description string
}

// PresetRegistry holds presets in registration order.
type PresetRegistry interface {
	Get(name string) (*Preset, error)
	List() []Preset
	Register(preset Preset) error
}

type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a registry with the default presets.
func NewPresetRegistry() PresetRegistry {
	r := &presetRegistry{presets: make(map[string]Preset)}
	for _, p := range []Preset{
		{
			Name:        "oneline",
			Template:    "[${time}] [${category}] ${title}",
			Description: "Time, category and title",
		},
		{
			Name:        "detailed",
			Template:    "[${created-at}] [${category}] ${title}: ${message} (${unread-count} unread)",
			Description: "Timestamp, category, title, message and unread count",
		},
		{
			Name:        "tsv",
			Template:    "${id}\t${category}\t${created-at}\t${title}",
			Description: "Tab separated fields for scripts",
		},
		{
			Name:        "title",
			Template:    "${title}",
			Description: "Only the title",
		},
	} {
		_ = r.Register(p)
	}
	return r
}

func (r *presetRegistry) Get(name string) (*Preset, error) {
	p, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", name)
	}
	return &p, nil
}

func (r *presetRegistry) List() []Preset {
	out := make([]Preset, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.presets[name])
	}
	return out
}

func (r *presetRegistry) Register(p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if p.Template == "" {
		return fmt.Errorf("preset template cannot be empty")
	}
	if _, exists := r.presets[p.Name]; !exists {
		r.order = append(r.order, p.Name)
	}
	r.presets[p.Name] = p
	return nil
}
