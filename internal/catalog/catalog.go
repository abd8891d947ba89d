// Package catalog содержит фиксированный список моделей, доступных для выбора.
package catalog

// ProviderGoogle единственный поддерживаемый провайдер.
const ProviderGoogle = "google"

// Model описывает модель генерации.
type Model struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Provider            string `json:"provider"`
	SupportsImageOutput bool   `json:"supports_image_output"`
}

// Catalog — неизменяемый упорядоченный набор моделей. Первая модель используется по умолчанию.
type Catalog struct {
	models []Model
	byID   map[string]Model
}

var defaultModels = []Model{
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: ProviderGoogle},
	{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Provider: ProviderGoogle},
	{ID: "gemini-2.0-flash-exp", Name: "Gemini 2.0 Flash (Experimental)", Provider: ProviderGoogle},
	{
		ID:                  "gemini-2.0-flash-preview-image-generation",
		Name:                "Gemini 2.0 Flash (Image Generation)",
		Provider:            ProviderGoogle,
		SupportsImageOutput: true,
	},
}

// New создаёт каталог из переданного списка. Пустой список заменяется набором по умолчанию.
func New(models ...Model) *Catalog {
	if len(models) == 0 {
		models = defaultModels
	}
	c := &Catalog{
		models: make([]Model, len(models)),
		byID:   make(map[string]Model, len(models)),
	}
	copy(c.models, models)
	for _, m := range c.models {
		if _, dup := c.byID[m.ID]; !dup {
			c.byID[m.ID] = m
		}
	}
	return c
}

// Default возвращает каталог с набором моделей по умолчанию.
func Default() *Catalog { return New() }

// List возвращает копию списка моделей, всегда в одном порядке.
func (c *Catalog) List() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// DefaultModel возвращает первую модель каталога.
func (c *Catalog) DefaultModel() Model {
	return c.models[0]
}

// Lookup ищет модель по идентификатору.
func (c *Catalog) Lookup(id string) (Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// ProviderOf возвращает провайдера модели; для неизвестных моделей ProviderGoogle.
func (c *Catalog) ProviderOf(id string) string {
	if m, ok := c.byID[id]; ok && m.Provider != "" {
		return m.Provider
	}
	return ProviderGoogle
}
