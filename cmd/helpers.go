package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/askdocs/knowledgebase/internal/blob"
	"github.com/askdocs/knowledgebase/internal/config"
	"github.com/askdocs/knowledgebase/internal/db"
	"github.com/askdocs/knowledgebase/internal/documents"
	"github.com/askdocs/knowledgebase/internal/embeddings"
	"github.com/askdocs/knowledgebase/internal/events"
	"github.com/askdocs/knowledgebase/internal/ingest"
	"github.com/askdocs/knowledgebase/internal/llm"
	"github.com/askdocs/knowledgebase/internal/qa"
	"github.com/askdocs/knowledgebase/internal/search"
	"github.com/askdocs/knowledgebase/internal/sweeper"
	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

// localBackends swaps AWS-backed storage for in-process equivalents.
// Useful for development without S3, DynamoDB, or SNS access.
var localBackends bool

// services holds the wired application graph shared by the serve, mcp,
// and sweep commands.
type services struct {
	cfg      *config.Config
	database *db.DB
	docs     *documents.Store
	handler  *documents.Handler
	search   *search.Service
	qa       *qa.Service
	sweeper  *sweeper.Sweeper
}

func (s *services) Close() {
	if s.database != nil {
		s.database.Close()
	}
}

// buildServices loads config and wires every service the commands need.
// Callers must Close the result.
func buildServices(ctx context.Context) (*services, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "askdocs.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	embedder := embeddings.NewOpenAIEmbedder(cfg.OpenAI.APIKey, embeddings.OpenAIModel(cfg.OpenAI.EmbeddingModel), timeout)
	provider := llm.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, timeout)

	var (
		embStore  vectorstore.Store
		blobs     blob.Storage
		publisher events.Publisher
	)
	if localBackends {
		embStore = vectorstore.NewMemoryStore(0)
		blobs = blob.NewMemoryStorage()
		publisher = events.NopPublisher{}
	} else {
		awsCfg, err := newAWSConfig(ctx, cfg)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		embStore = vectorstore.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.AWS.EmbeddingsTable)
		blobs, err = blob.NewS3Storage(ctx, blob.S3Config{
			Bucket:    cfg.AWS.Bucket,
			Region:    cfg.AWS.Region,
			Endpoint:  cfg.AWS.Endpoint,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
		})
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("creating blob storage: %w", err)
		}
		if cfg.AWS.TopicARN != "" {
			publisher = events.NewSNSPublisher(sns.NewFromConfig(awsCfg), cfg.AWS.TopicARN)
		} else {
			publisher = events.NopPublisher{}
		}
	}

	docStore := documents.NewStore(database)
	searchSvc := search.New(embedder, embStore, nil)
	qaSvc := qa.New(searchSvc, provider, cfg.OpenAI.Model)
	sw := sweeper.New(embStore, docStore)
	ingester := ingest.New(embedder, embStore, docStore)
	handler := documents.NewHandler(docStore, blobs, publisher, sw, sw, ingester, cfg.AWS.Bucket)

	return &services{
		cfg:      cfg,
		database: database,
		docs:     docStore,
		handler:  handler,
		search:   searchSvc,
		qa:       qaSvc,
		sweeper:  sw,
	}, nil
}

// newAWSConfig builds an aws.Config honoring the optional endpoint and
// static credential overrides for local stacks.
func newAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKey != "" && cfg.AWS.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKey, cfg.AWS.SecretKey, ""),
		))
	}
	if cfg.AWS.Endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(cfg.AWS.Endpoint))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
