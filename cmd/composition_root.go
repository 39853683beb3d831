package cmd

import (
	"log/slog"
	"time"

	"returnsync/internal/adapters/in/http"
	"returnsync/internal/adapters/out/cargus"
	"returnsync/internal/adapters/out/postgres"
	"returnsync/internal/adapters/out/postgres/auditrepo"
	"returnsync/internal/core/application/usecases/commands"
	"returnsync/internal/core/application/usecases/queries"
	"returnsync/internal/core/domain/services"
	"returnsync/internal/core/ports"
	"returnsync/internal/jobs"

	"gorm.io/gorm"
)

const (
	defaultCursorSource = "cargus"
	defaultSyncCronExpr = "*/5 * * * *"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	if configs.CursorSource == "" {
		configs.CursorSource = defaultCursorSource
	}
	if configs.SyncCronExpr == "" {
		configs.SyncCronExpr = defaultSyncCronExpr
	}

	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateReturnCommandHandler() commands.CreateReturnCommandHandler {
	var f commands.ReturnUoWFactory = FuncReturnUoWFactory(func() commands.ReturnUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateReturnCommandHandler(f)
}

func (c *CompositionRoot) CreateReopenReturnCommandHandler() commands.ReopenReturnCommandHandler {
	var f commands.ReturnUoWFactory = FuncReturnUoWFactory(func() commands.ReturnUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReopenReturnCommandHandler(f)
}

func (c *CompositionRoot) CreateResolveDiscrepancyCommandHandler() commands.ResolveDiscrepancyCommandHandler {
	var f commands.ReturnUoWFactory = FuncReturnUoWFactory(func() commands.ReturnUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolveDiscrepancyCommandHandler(f)
}

func (c *CompositionRoot) CreateSyncReturnsCommandHandler() (commands.SyncReturnsCommandHandler, error) {
	carrierClient, err := c.CreateCarrierClient()
	if err != nil {
		return commands.SyncReturnsCommandHandler{}, err
	}

	var f commands.SyncUoWFactory = FuncSyncUoWFactory(func() commands.SyncUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSyncReturnsCommandHandler(
		f,
		carrierClient,
		services.NewStatusMapper(),
		c.configs.CursorSource,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOpenDiscrepanciesQueryHandler() queries.GetOpenDiscrepanciesQueryHandler {
	return queries.NewGetOpenDiscrepanciesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetReturnsByStatusQueryHandler() queries.GetReturnsByStatusQueryHandler {
	return queries.NewGetReturnsByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCarrierClient() (ports.CarrierClient, error) {
	var timeout time.Duration
	if c.configs.CargusTimeout != "" {
		parsed, err := time.ParseDuration(c.configs.CargusTimeout)
		if err != nil {
			return nil, err
		}
		timeout = parsed
	}

	return cargus.NewClient(c.configs.CargusBaseURL, c.configs.CargusAPIKey, timeout)
}

func (c *CompositionRoot) CreateRunLock() ports.RunLock {
	return postgres.NewAdvisoryRunLock(c.gormDB)
}

func (c *CompositionRoot) CreateAuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() (*http.Server, error) {
	syncHandler, err := c.CreateSyncReturnsCommandHandler()
	if err != nil {
		return nil, err
	}

	return http.NewServer(
		c.CreateCreateReturnCommandHandler(),
		c.CreateReopenReturnCommandHandler(),
		c.CreateResolveDiscrepancyCommandHandler(),
		syncHandler,
		c.CreateGetOpenDiscrepanciesQueryHandler(),
		c.CreateGetReturnsByStatusQueryHandler(),
		c.CreateAuditRepository(),
		c.CreateRunLock(),
	), nil
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	syncHandler, err := c.CreateSyncReturnsCommandHandler()
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(
		syncHandler,
		c.CreateRunLock(),
		c.configs.SyncCronExpr,
		c.logger,
	), nil
}

type FuncReturnUoWFactory func() commands.ReturnUoW

func (f FuncReturnUoWFactory) Create() commands.ReturnUoW {
	return f()
}

type FuncSyncUoWFactory func() commands.SyncUoW

func (f FuncSyncUoWFactory) Create() commands.SyncUoW {
	return f()
}
