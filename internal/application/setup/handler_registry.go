package setup

import (
	"reflect"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	companyCommands "github.com/andrescamacho/headquartz-go/internal/application/company/commands"
	controlCommands "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
	controlQueries "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	engine  *simulation.Engine
	manager *tick.Manager
	catalog world.SnapshotCatalog
	journal events.Journal
	logs    common.LogSource
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// manager, catalog and journal may be nil; handlers that need them are then skipped.
func NewHandlerRegistry(
	engine *simulation.Engine,
	manager *tick.Manager,
	catalog world.SnapshotCatalog,
	journal events.Journal,
) *HandlerRegistry {
	return &HandlerRegistry{
		engine:  engine,
		manager: manager,
		catalog: catalog,
		journal: journal,
	}
}

// WithLogSource enables ListLogsQuery against persisted logs
func (r *HandlerRegistry) WithLogSource(logs common.LogSource) *HandlerRegistry {
	r.logs = logs
	return r
}

type registration struct {
	request mediator.Request
	handler mediator.RequestHandler
}

func register(m mediator.Mediator, regs []registration) error {
	for _, r := range regs {
		if err := m.Register(reflect.TypeOf(r.request), r.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAll registers every command and query handler with the mediator
func (r *HandlerRegistry) RegisterAll(m mediator.Mediator) error {
	if err := r.RegisterControlHandlers(m); err != nil {
		return err
	}
	if err := r.RegisterCompanyHandlers(m); err != nil {
		return err
	}
	return r.RegisterQueryHandlers(m)
}

// RegisterControlHandlers registers engine lifecycle and snapshot commands
//
// This method registers:
//   - StartSimulationCommand, StopSimulationCommand, SetSpeedCommand
//   - ResetSimulationCommand, StepSimulationCommand
//   - SaveSnapshotCommand, LoadSnapshotCommand, DeleteSnapshotCommand (when a catalog is set)
func (r *HandlerRegistry) RegisterControlHandlers(m mediator.Mediator) error {
	regs := []registration{
		{&controlCommands.StartSimulationCommand{}, controlCommands.NewStartSimulationHandler(r.engine)},
		{&controlCommands.StopSimulationCommand{}, controlCommands.NewStopSimulationHandler(r.engine)},
		{&controlCommands.SetSpeedCommand{}, controlCommands.NewSetSpeedHandler(r.engine)},
		{&controlCommands.ResetSimulationCommand{}, controlCommands.NewResetSimulationHandler(r.engine)},
		{&controlCommands.StepSimulationCommand{}, controlCommands.NewStepSimulationHandler(r.engine)},
	}
	if r.catalog != nil {
		regs = append(regs,
			registration{&controlCommands.SaveSnapshotCommand{}, controlCommands.NewSaveSnapshotHandler(r.engine, r.catalog)},
			registration{&controlCommands.LoadSnapshotCommand{}, controlCommands.NewLoadSnapshotHandler(r.engine, r.catalog)},
			registration{&controlCommands.DeleteSnapshotCommand{}, controlCommands.NewDeleteSnapshotHandler(r.catalog)},
		)
	}
	return register(m, regs)
}

// RegisterCompanyHandlers registers commands that change the company between ticks
func (r *HandlerRegistry) RegisterCompanyHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&companyCommands.CreateSalesOrderCommand{}, companyCommands.NewCreateSalesOrderHandler(r.engine)},
		{&companyCommands.CancelSalesOrderCommand{}, companyCommands.NewCancelSalesOrderHandler(r.engine)},
		{&companyCommands.CreateWorkOrderCommand{}, companyCommands.NewCreateWorkOrderHandler(r.engine)},
		{&companyCommands.CancelWorkOrderCommand{}, companyCommands.NewCancelWorkOrderHandler(r.engine)},
		{&companyCommands.HireEmployeeCommand{}, companyCommands.NewHireEmployeeHandler(r.engine)},
		{&companyCommands.RecordTransactionCommand{}, companyCommands.NewRecordTransactionHandler(r.engine)},
		{&companyCommands.TriggerRandomEventCommand{}, companyCommands.NewTriggerRandomEventHandler(r.engine)},
	})
}

// RegisterQueryHandlers registers read-side queries
func (r *HandlerRegistry) RegisterQueryHandlers(m mediator.Mediator) error {
	regs := []registration{
		{&controlQueries.GetStatisticsQuery{}, controlQueries.NewGetStatisticsHandler(r.engine)},
		{&controlQueries.ListEventsQuery{}, controlQueries.NewListEventsHandler(r.engine, r.journal)},
		{&controlQueries.ListOrdersQuery{}, controlQueries.NewListOrdersHandler(r.engine)},
	}
	if r.manager != nil {
		regs = append(regs, registration{&controlQueries.GetPerformanceReportQuery{}, controlQueries.NewGetPerformanceReportHandler(r.manager)})
	}
	if r.catalog != nil {
		regs = append(regs, registration{&controlQueries.ListSnapshotsQuery{}, controlQueries.NewListSnapshotsHandler(r.catalog)})
	}
	if r.logs != nil {
		regs = append(regs, registration{&controlQueries.ListLogsQuery{}, controlQueries.NewListLogsHandler(r.logs)})
	}
	return register(m, regs)
}
