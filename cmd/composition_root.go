package cmd

import (
	"log/slog"

	httpserver "shipbook/internal/adapters/in/http"
	"shipbook/internal/adapters/out/devicefix"
	"shipbook/internal/adapters/out/geocode"
	"shipbook/internal/adapters/out/kafka"
	"shipbook/internal/adapters/out/memsession"
	"shipbook/internal/adapters/out/postgres"
	"shipbook/internal/adapters/out/postgres/addressbook"
	"shipbook/internal/adapters/out/stripegw"
	"shipbook/internal/core/application/usecases/commands"
	"shipbook/internal/core/application/usecases/queries"
	"shipbook/internal/core/domain/services"
	"shipbook/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into application handlers. Everything
// stateful (session store, kafka writer, search generation counter) is
// created exactly once here and shared.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	sessions  *memsession.Store
	geocoder  *geocode.Client
	gateway   *stripegw.Gateway
	publisher *kafka.OrderPublisher
	directory *addressbook.GormCustomerDirectory
	locations devicefix.ContextProvider

	searchHandler *queries.SearchAddressesQueryHandler
}

// NewCompositionRoot builds the object graph for the given configuration.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	geocoder := geocode.NewClient(config.GeocoderBaseURL)
	directory := addressbook.NewGormCustomerDirectory(gormDB)

	return &CompositionRoot{
		config:     config,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		sessions:   memsession.NewStore(),
		geocoder:   geocoder,
		gateway:    stripegw.NewGateway(config.StripeAPIKey),
		publisher:  kafka.NewOrderPublisher(config.KafkaHost, config.KafkaOrderChangedTopic),
		directory:  directory,
		locations:  devicefix.NewContextProvider(),

		// stateful: owns the per-list search generation counters
		searchHandler: queries.NewSearchAddressesQueryHandler(geocoder, directory),
	}
}

// Close releases long-lived resources.
func (c *CompositionRoot) Close() error {
	return c.publisher.Close()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateStartBookingCommandHandler() commands.StartBookingCommandHandler {
	return commands.NewStartBookingCommandHandler(c.sessions)
}

func (c *CompositionRoot) CreateSubmitDetailsCommandHandler() commands.SubmitDetailsCommandHandler {
	return commands.NewSubmitDetailsCommandHandler(c.sessions)
}

func (c *CompositionRoot) CreateSelectRateCommandHandler() commands.SelectRateCommandHandler {
	return commands.NewSelectRateCommandHandler(c.sessions, services.NewPricingEngine())
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() *commands.CheckoutCommandHandler {
	handler := commands.NewCheckoutCommandHandler(
		c.sessions,
		c.orderUoWFactory(),
		c.gateway,
		c.publisher,
		c.logger,
		c.config.Currency,
	)
	return &handler
}

func (c *CompositionRoot) CreateVerifyPaymentCommandHandler() *commands.VerifyPaymentCommandHandler {
	handler := commands.NewVerifyPaymentCommandHandler(
		c.sessions,
		c.orderUoWFactory(),
		c.gateway,
		c.publisher,
		c.logger,
	)
	return &handler
}

func (c *CompositionRoot) CreateCancelStaleOrdersCommandHandler() *commands.CancelStaleOrdersCommandHandler {
	handler := commands.NewCancelStaleOrdersCommandHandler(
		c.orderUoWFactory(),
		c.publisher,
		c.logger,
	)
	return &handler
}

func (c *CompositionRoot) CreateSearchAddressesQueryHandler() *queries.SearchAddressesQueryHandler {
	return c.searchHandler
}

func (c *CompositionRoot) CreateResolveDeviceLocationQueryHandler() queries.ResolveDeviceLocationQueryHandler {
	return queries.NewResolveDeviceLocationQueryHandler(c.locations, c.geocoder)
}

func (c *CompositionRoot) CreateResolveMapPointQueryHandler() queries.ResolveMapPointQueryHandler {
	return queries.NewResolveMapPointQueryHandler(c.geocoder)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

// CreateJobManager wires the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateCancelStaleOrdersCommandHandler(),
		c.config.StaleOrderMaxAge,
		c.config.ReaperCronSchedule,
		c.logger,
	)
}

// CreateHTTPServer wires the REST surface.
func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreateStartBookingCommandHandler(),
		c.CreateSubmitDetailsCommandHandler(),
		c.CreateSelectRateCommandHandler(),
		c.CreateCheckoutCommandHandler(),
		c.CreateVerifyPaymentCommandHandler(),
		c.CreateSearchAddressesQueryHandler(),
		c.CreateResolveDeviceLocationQueryHandler(),
		c.CreateResolveMapPointQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetPendingOrdersQueryHandler(),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
