package constants

// Model is an entry in the selectable model catalog.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

const (
	ProviderOpenAI = "openai"

	DefaultModel       = "gpt-4o"
	LegacyDefaultModel = "gpt-4"
)

var models = []Model{
	{ID: "gpt-4o", Name: "GPT-4o (Default)", Provider: ProviderOpenAI},
	{ID: "gpt-4", Name: "GPT-4", Provider: ProviderOpenAI},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo (Faster)", Provider: ProviderOpenAI},
}

// Models returns a copy of the model catalog in display order.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}
