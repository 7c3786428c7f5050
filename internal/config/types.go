package config

// Config is the top-level service configuration, corresponding to askdocs.yml.
type Config struct {
	Server    ServerConfig `yaml:"server" koanf:"server"`
	OpenAI    OpenAIConfig `yaml:"openai" koanf:"openai"`
	AWS       AWSConfig    `yaml:"aws" koanf:"aws"`
	DataDir   string       `yaml:"data_dir" koanf:"data_dir"`
	TimeoutMS int          `yaml:"timeout_ms" koanf:"timeout_ms"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"` // allow all CORS origins (dev mode)
}

// OpenAIConfig holds the OpenAI provider settings.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key" koanf:"api_key"`
	Model          string `yaml:"model" koanf:"model"`
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`
}

// AWSConfig holds settings for the S3 bucket, DynamoDB embeddings table, and
// SNS topic. Endpoint and static credentials are optional overrides for
// local stacks (minio, dynamodb-local, localstack).
type AWSConfig struct {
	Region          string `yaml:"region" koanf:"region"`
	Endpoint        string `yaml:"endpoint" koanf:"endpoint"`
	AccessKey       string `yaml:"access_key" koanf:"access_key"`
	SecretKey       string `yaml:"secret_key" koanf:"secret_key"`
	Bucket          string `yaml:"bucket" koanf:"bucket"`
	EmbeddingsTable string `yaml:"embeddings_table" koanf:"embeddings_table"`
	TopicARN        string `yaml:"topic_arn" koanf:"topic_arn"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		AWS: AWSConfig{
			Region:          "us-east-1",
			Bucket:          "askdocs-documents",
			EmbeddingsTable: "DocumentEmbeddings",
		},
		DataDir:   "data",
		TimeoutMS: 30000,
	}
}
