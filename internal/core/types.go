package core

// Message roles used throughout the gateway.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the incoming interview chat request
type ChatRequest struct {
	Messages       []Message `json:"messages"`
	JobDescription string    `json:"jobDescription,omitempty"`
	InterviewTypes []string  `json:"interviewTypes,omitempty"`
	Difficulty     string    `json:"difficulty,omitempty"`
	Duration       int       `json:"duration,omitempty"`
}

// InterviewConfig returns the interview configuration carried by the request.
func (r *ChatRequest) InterviewConfig() InterviewConfig {
	return InterviewConfig{
		JobDescription: r.JobDescription,
		InterviewTypes: r.InterviewTypes,
		Difficulty:     r.Difficulty,
		Duration:       r.Duration,
	}
}

// InterviewConfig describes the interview profile a request was configured
// with. It is immutable per request; the gateway never persists it.
type InterviewConfig struct {
	JobDescription string
	InterviewTypes []string
	Difficulty     string
	Duration       int
}

// Difficulty levels accepted by the setup form.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Interview type tags accepted by the setup form.
const (
	TypeCoding         = "coding"
	TypeMultipleChoice = "multiple-choice"
	TypeBehavioral     = "behavioral"
	TypeTechnical      = "technical"
	TypeHR             = "hr"
	TypeHiringManager  = "hiring-manager"
)

// Provider identifies which LLM backend a request was dispatched to.
type Provider string

const (
	ProviderOpenAI      Provider = "openai"
	ProviderAnthropic   Provider = "anthropic"
	ProviderOllama      Provider = "ollama"
	ProviderHuggingFace Provider = "huggingface"
	ProviderNone        Provider = "none"
)

// HealthResponse is the body of GET /chat
type HealthResponse struct {
	Status             string          `json:"status"`
	Provider           Provider        `json:"provider"`
	AvailableProviders map[string]bool `json:"availableProviders"`
}
