package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/adapters/out/notification"
	"marketplace/internal/adapters/out/paystack"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/locationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/promorepo"
	"marketplace/internal/adapters/out/promocache"
	"marketplace/internal/adapters/out/promoyaml"
	"marketplace/internal/adapters/out/tariffyaml"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	orders     queries.OrderReader
	promos     ports.PromoCodeRepository
	locations  ports.LocationRepository
	gateway    ports.PaymentGateway
	dispatcher ports.NotificationDispatcher
	calculator *services.ShippingCalculator

	closers []func() error
}

// NewCompositionRoot wires the adapters selected by cfg. gormDB may be nil
// only with the memory storage driver.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, logger: logger, gormDB: gormDB}

	var promoStore interface {
		ports.PromoCodeRepository
		promoyaml.Saver
	}
	if cfg.StorageDriver == StorageDriverMemory {
		store := memory.NewOrderStore()
		c.uowFactory = store
		c.orders = store.Create().OrderRepository()
		promoStore = memory.NewPromoCodes()
		c.locations = memory.NewLocations()
	} else {
		if gormDB == nil {
			return nil, fmt.Errorf("storage driver %q needs a database", cfg.StorageDriver)
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
		c.orders = orderrepo.NewGormOrderRepository(gormDB)
		promoStore = promorepo.NewGormPromoCodeRepository(gormDB)
		c.locations = locationrepo.NewGormLocationRepository(gormDB)
	}
	c.promos = promoStore

	seeds, err := promoyaml.Load(cfg.PromoCodesFile)
	if err != nil {
		return nil, fmt.Errorf("load promo codes: %w", err)
	}
	ctx := context.Background()
	if err = promoyaml.Seed(ctx, promoStore, seeds); err != nil {
		return nil, err
	}

	if cfg.RedisAddr != "" {
		client := promocache.NewClient(cfg.RedisAddr)
		c.closers = append(c.closers, client.Close)
		cache := promocache.New(promoStore, client, cfg.PromoCacheTTL, logger)
		for _, code := range seeds {
			if err = cache.Invalidate(ctx, code.Code()); err != nil {
				logger.Warn("promo cache invalidation failed", "code", code.Code(), "error", err)
			}
		}
		c.promos = cache
	}

	if cfg.KafkaHost != "" {
		d := notification.NewKafkaDispatcher(strings.Split(cfg.KafkaHost, ","), cfg.KafkaNotificationTopic)
		c.closers = append(c.closers, d.Close)
		c.dispatcher = d
	} else {
		c.dispatcher = notification.NewLogDispatcher(logger)
	}

	c.gateway = paystack.New(cfg.PaymentBaseURL, cfg.PaymentSecretKey, cfg.PaymentCallbackURL)

	tariff, err := tariffyaml.Load(cfg.ShippingTariffFile)
	if err != nil {
		return nil, fmt.Errorf("load shipping tariff: %w", err)
	}
	c.calculator = services.NewShippingCalculator(
		c.locations,
		services.NewPromoCodeValidator(c.promos),
		services.NewDistanceResolver(),
		services.NewShippingPricer(tariff),
		logger,
	)

	return c, nil
}

// Close releases broker and cache connections.
func (c *CompositionRoot) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notifier() *commands.OrderNotifier {
	return commands.NewOrderNotifier(c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.calculator, c.notifier())
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	return commands.NewInitiatePaymentCommandHandler(c.orderUoWFactory(), c.gateway)
}

func (c *CompositionRoot) CreateVerifyPaymentCommandHandler() commands.VerifyPaymentCommandHandler {
	return commands.NewVerifyPaymentCommandHandler(c.orderUoWFactory(), c.gateway, c.notifier(), c.logger)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.orderUoWFactory(), c.notifier())
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReleaseEscrowCommandHandler() commands.ReleaseEscrowCommandHandler {
	return commands.NewReleaseEscrowCommandHandler(c.orderUoWFactory(), services.NewSettlementClock(), c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orders)
}

func (c *CompositionRoot) CreateGetShippingQuoteQueryHandler() queries.GetShippingQuoteQueryHandler {
	return queries.NewGetShippingQuoteQueryHandler(c.calculator)
}

// CreateGetReleasableOrdersQueryHandler returns nil without a database.
func (c *CompositionRoot) CreateGetReleasableOrdersQueryHandler() *queries.GetReleasableOrdersQueryHandler {
	if c.gormDB == nil {
		return nil
	}
	h := queries.NewGetReleasableOrdersQueryHandler(c.gormDB)
	return &h
}

func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		InitiatePayment:  c.CreateInitiatePaymentCommandHandler(),
		VerifyPayment:    c.CreateVerifyPaymentCommandHandler(),
		AdvanceOrder:     c.CreateAdvanceOrderCommandHandler(),
		ConfirmDelivery:  c.CreateConfirmDeliveryCommandHandler(),
		ReleaseEscrow:    c.CreateReleaseEscrowCommandHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		GetShippingQuote: c.CreateGetShippingQuoteQueryHandler(),
		GetReleasable:    c.CreateGetReleasableOrdersQueryHandler(),
	}, c.cfg.PaymentSecretKey)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateReleaseEscrowCommandHandler(), c.cfg.EscrowSweepSchedule, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
