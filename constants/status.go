package constants

// RecordStatus is the canonical per-file outcome stored on an ExtractionRecord.
type RecordStatus string

// Stable values (these exact strings appear in every output format).
const (
	StatusSuccess        RecordStatus = "Success"         // order id extracted
	StatusReviewRequired RecordStatus = "Review Required" // items found but no order id
	StatusFailed         RecordStatus = "Failed"          // recognition ran, nothing usable
	StatusFailedLoad     RecordStatus = "Failed Load"     // image unreadable, no recognition attempted
	StatusError          RecordStatus = "Error"           // unexpected failure inside the task
)

// AIMode controls when the vision extractor is invoked.
type AIMode string

const (
	AIModeNever  AIMode = "never"
	AIModeHybrid AIMode = "hybrid"
	AIModeAlways AIMode = "always"
)

// ValidAIModes lists accepted --use-ai values in display order.
var ValidAIModes = []AIMode{AIModeNever, AIModeHybrid, AIModeAlways}

// AIProvider names a vision vendor adapter.
type AIProvider string

const (
	ProviderOllama AIProvider = "ollama"
	ProviderOpenAI AIProvider = "openai"
	ProviderClaude AIProvider = "claude"
	ProviderGemini AIProvider = "gemini"
)

// ValidProviders lists accepted --ai-provider values in display order.
var ValidProviders = []AIProvider{ProviderOllama, ProviderOpenAI, ProviderClaude, ProviderGemini}

// OutputFormat selects the writer used for the final batch.
type OutputFormat string

const (
	FormatCSV   OutputFormat = "csv"
	FormatExcel OutputFormat = "excel"
	FormatJSON  OutputFormat = "json"
	FormatHTML  OutputFormat = "html"
	FormatAll   OutputFormat = "all"
)

// ValidFormats lists accepted --format values in display order.
var ValidFormats = []OutputFormat{FormatCSV, FormatExcel, FormatJSON, FormatHTML, FormatAll}
