package llm

// Part is one element of a prompt payload: either a text instruction or a
// binary document blob with a declared MIME type.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// ModelConfig identifies the model and its generation parameters.
type ModelConfig struct {
	Name            string
	Temperature     float64
	TopP            float64
	TopK            float64
	MaxOutputTokens int
}

const DefaultModelName = "gemini-2.0-flash-exp"

// BaseModel is the general-purpose preset. Callers with configured sampling
// parameters build their own ModelConfig and derive the task presets from it.
func BaseModel(name string) ModelConfig {
	return ModelConfig{
		Name:            name,
		Temperature:     0.5,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 40000,
	}
}

// FactModel is the conservative preset for fact-checking and rating tasks,
// keeping the base's model identity and output limit.
func FactModel(base ModelConfig) ModelConfig {
	base.Temperature = 0.3
	base.TopP = 0.6
	base.TopK = 30
	return base
}

// InsightModel is the creative preset for drafting and insight generation,
// keeping the base's model identity and output limit.
func InsightModel(base ModelConfig) ModelConfig {
	base.Temperature = 0.8
	base.TopP = 0.9
	base.TopK = 60
	return base
}
