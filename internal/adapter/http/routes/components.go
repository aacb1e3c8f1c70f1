package routes

import (
	"client_portal/internal/adapter/persistence/memory"
	"client_portal/internal/adapter/persistence/repository"
	"client_portal/internal/config"
	"client_portal/internal/domain/entities"
	"client_portal/internal/infrastructure/database"
	"client_portal/internal/infrastructure/documents"
	"client_portal/internal/infrastructure/invoices"
	"client_portal/internal/infrastructure/notifications"
	"client_portal/internal/infrastructure/payments"
	"client_portal/internal/infrastructure/sequence"
	"client_portal/internal/infrastructure/storage"
	"client_portal/internal/usecase"
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"log"

	gcs "cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
)

// components are the collaborators selected by the *_BACKEND settings.
type components struct {
	quotes   interfaces.IQuoteRepository
	projects interfaces.IProjectRepository
	invoices interfaces.IInvoiceRepository
	sequence interfaces.ISequenceAllocator
	store    interfaces.IDocumentStore
	notifier interfaces.INotificationSender
	gateway  interfaces.IPaymentGateway

	closers []func() error
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[routes][components] close failed err=%v", err)
		}
	}
}

func buildComponents(ctx context.Context, cfg config.Config) (*components, error) {
	c := &components{}

	var ddb *dynamodb.Client
	if cfg.PersistenceBackend == "dynamodb" || cfg.SequenceBackend == "dynamodb" {
		client, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		ddb = client
	}

	var rdb *redis.Client
	if cfg.UsesRedis() {
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		rdb = client
		c.closers = append(c.closers, rdb.Close)
	}

	switch cfg.PersistenceBackend {
	case "dynamodb":
		c.quotes = repository.NewQuoteDynamoRepository(ddb, cfg.QuotesTable)
		c.projects = repository.NewProjectDynamoRepository(ddb, cfg.ProjectsTable)
		c.invoices = repository.NewInvoiceDynamoRepository(ddb, cfg.InvoicesTable)
	default:
		c.quotes = memory.NewQuoteRepository()
		var seed []entities.Project
		if cfg.ProjectsSeedFile != "" {
			projects, err := memory.LoadProjects(cfg.ProjectsSeedFile)
			if err != nil {
				c.Close()
				return nil, err
			}
			seed = projects
			log.Printf("[routes][components] seeded memory projects count=%d file=%s", len(seed), cfg.ProjectsSeedFile)
		}
		c.projects = memory.NewProjectRepository(seed...)
		c.invoices = memory.NewInvoiceRepository()
	}

	switch cfg.SequenceBackend {
	case "dynamodb":
		c.sequence = repository.NewSequenceDynamoRepository(ddb, cfg.CountersTable)
	case "redis":
		c.sequence = sequence.NewRedisSequence(rdb)
	default:
		c.sequence = memory.NewSequence()
	}

	switch cfg.StorageBackend {
	case "gcs":
		client, err := gcs.NewClient(ctx)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("connect gcs: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		c.store = storage.NewGCSStore(client, cfg.GCSBucket, cfg.GCSPublicBaseURL)
	default:
		c.store = storage.NewMemoryStore()
	}

	switch cfg.NotificationBackend {
	case "redis":
		c.notifier = notifications.NewRedisOutboxSender(rdb, cfg.OutboxKey)
	default:
		c.notifier = notifications.LogSender{}
	}

	gateway, err := payments.NewMercadoPagoGateway(payments.GatewayConfig{
		AccessToken:     cfg.MercadoPagoAccessToken,
		Mock:            cfg.PaymentGatewayMock,
		Sandbox:         cfg.MercadoPagoSandbox,
		SuccessURL:      cfg.CheckoutSuccessURL,
		FailureURL:      cfg.CheckoutFailureURL,
		NotificationURL: cfg.PaymentNotificationURL,
	})
	if err != nil {
		// Checkout becomes a reported side effect failure instead of a boot failure.
		log.Printf("[routes][components] Mercado Pago gateway not configured: %v", err)
	} else {
		c.gateway = gateway
	}

	log.Printf("[routes][components] backends persistence=%s sequence=%s storage=%s notifications=%s",
		cfg.PersistenceBackend, cfg.SequenceBackend, cfg.StorageBackend, cfg.NotificationBackend)
	return c, nil
}

// newQuoteUseCase assembles the lifecycle engine on top of c.
func newQuoteUseCase(cfg config.Config, c *components) *usecase.QuoteUseCase {
	brand := documents.Brand{
		Name:    cfg.BrandName,
		Tagline: cfg.BrandTagline,
		Email:   cfg.BrandEmail,
		Website: cfg.BrandWebsite,
		Terms:   cfg.BrandTerms,
	}
	renderer := documents.NewRenderer(c.store, brand, documents.LogoSource{Path: cfg.LogoPath, URL: cfg.LogoURL})

	fanout := usecase.NewFanOutUseCase(
		c.notifier,
		invoices.NewGenerator(c.sequence, renderer, c.invoices, cfg.Currency),
		c.gateway,
		usecase.WithOperators(cfg.OperatorEmails...),
		usecase.WithSideEffectTimeout(cfg.SideEffectTimeout),
		usecase.WithCurrency(cfg.Currency),
	)

	return usecase.NewQuoteUseCase(usecase.QuoteDeps{
		Quotes:     c.quotes,
		Projects:   c.projects,
		Sequence:   c.sequence,
		Renderer:   renderer,
		Compositor: documents.NewCompositor(),
		Store:      c.store,
		Invoices:   c.invoices,
		FanOut:     fanout,
		Currency:   cfg.Currency,
	})
}
