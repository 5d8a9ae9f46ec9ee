package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	httpadapter "marketplace/internal/adapters/in/http"
	identityadapter "marketplace/internal/adapters/out/identity"
	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/adapters/out/notify"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/readmodel"
	"marketplace/internal/core/application/effects"
	appidentity "marketplace/internal/core/application/identity"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/keylock"

	amqp "github.com/rabbitmq/amqp091-go"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type unitOfWorkFactory interface {
	Create() ports.UnitOfWork
}

// CompositionRoot owns the process-wide singletons: storage, the keyed lock table, the
// identity store and the notification publisher. One lock table is shared by every handler.
type CompositionRoot struct {
	configs    Config
	logger     *slog.Logger
	uowFactory unitOfWorkFactory
	ledgers    ports.LedgerReader
	locks      *keylock.Locker
	resolver   appidentity.Resolver
	publisher  ports.EventPublisher
	closers    []io.Closer
}

func NewCompositionRoot(configs Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		configs: configs,
		logger:  logger,
		locks:   keylock.New(configs.LockWait),
	}

	if err := c.openStorage(); err != nil {
		return nil, err
	}

	tokens, err := identityadapter.NewJWTStore(configs.JWTSecret, c.uowFactory.Create().PrincipalRepository())
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.resolver = appidentity.NewResolver(tokens)

	if err = c.openPublisher(); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) openStorage() error {
	switch c.configs.Storage {
	case StorageMemory:
		store := memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(store)
		c.ledgers = memory.NewLedgerReader(store)
		c.logger.Warn("Running on in-memory storage; data is lost on exit")
		return nil
	default:
		gormDB, err := gorm.Open(gorm_postgres.Open(c.configs.DSN()), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		if err = postgres.Migrate(gormDB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB)
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
		c.ledgers = readmodel.NewGormLedgerReader(gormDB)
		return nil
	}
}

func (c *CompositionRoot) openPublisher() error {
	switch c.configs.NotifyBroker {
	case BrokerKafka:
		publisher := notify.NewKafkaPublisher(c.configs.KafkaBrokers(), c.configs.KafkaOrderChangedTopic, c.logger)
		c.publisher = publisher
		c.closers = append(c.closers, publisher)
	case BrokerRabbitMQ:
		conn, err := amqp.Dial(c.configs.RabbitURL)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		c.closers = append(c.closers, conn)
		publisher, err := notify.NewRabbitPublisher(conn, c.configs.RabbitExchange)
		if err != nil {
			return err
		}
		c.publisher = publisher
		c.closers = append(c.closers, publisher)
	default:
		c.publisher = notify.NewLogPublisher(c.logger)
	}
	return nil
}

// Close releases connections in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.PlaceOrderUoWFactory = FuncPlaceOrderUoWFactory(func() commands.PlaceOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.resolver, c.logger)
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestTransitionCommandHandler(
		f,
		c.resolver,
		effects.NewExecutor(c.locks, c.logger),
		c.locks,
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) CreateAssignShipperCommandHandler() commands.AssignShipperCommandHandler {
	var f commands.ShipperUoWFactory = FuncShipperUoWFactory(func() commands.ShipperUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignShipperCommandHandler(f, c.resolver, c.locks)
}

func (c *CompositionRoot) CreateDispatchShipperCommandHandler() commands.DispatchShipperCommandHandler {
	var f commands.ShipperUoWFactory = FuncShipperUoWFactory(func() commands.ShipperUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchShipperCommandHandler(f, c.locks)
}

func (c *CompositionRoot) CreateSetAccountLockCommandHandler() commands.SetAccountLockCommandHandler {
	var f commands.PrincipalUoWFactory = FuncPrincipalUoWFactory(func() commands.PrincipalUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetAccountLockCommandHandler(f, c.resolver, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository(), c.resolver)
}

func (c *CompositionRoot) CreateGetSellerEarningsQueryHandler() queries.GetSellerEarningsQueryHandler {
	return queries.NewGetSellerEarningsQueryHandler(c.ledgers, c.resolver)
}

func (c *CompositionRoot) CreateGetProfileQueryHandler() queries.GetProfileQueryHandler {
	return queries.NewGetProfileQueryHandler(c.uowFactory.Create().PrincipalRepository(), c.resolver)
}

func (c *CompositionRoot) CreateGetLedgerDiscrepanciesQueryHandler() queries.GetLedgerDiscrepanciesQueryHandler {
	return queries.NewGetLedgerDiscrepanciesQueryHandler(c.ledgers)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateRequestTransitionCommandHandler(),
		c.CreateAssignShipperCommandHandler(),
		c.CreateSetAccountLockCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetSellerEarningsQueryHandler(),
		c.CreateGetProfileQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewShipperAssignmentJob(
			c.CreateDispatchShipperCommandHandler(),
			c.configs.ShipperAssignmentSchedule,
			c.logger,
		),
		jobs.NewLedgerReconciliationJob(
			c.CreateGetLedgerDiscrepanciesQueryHandler(),
			c.configs.ReconciliationSchedule,
			c.logger,
		),
	)
}

type FuncPlaceOrderUoWFactory func() commands.PlaceOrderUoW

func (f FuncPlaceOrderUoWFactory) Create() commands.PlaceOrderUoW {
	return f()
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncShipperUoWFactory func() commands.ShipperUoW

func (f FuncShipperUoWFactory) Create() commands.ShipperUoW {
	return f()
}

type FuncPrincipalUoWFactory func() commands.PrincipalUoW

func (f FuncPrincipalUoWFactory) Create() commands.PrincipalUoW {
	return f()
}
