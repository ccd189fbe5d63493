package allocation

import (
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/usecase"
)

// Service implements the allocation use cases on top of the unit of work
// boundary. Every operation takes a fresh unit of work from the factory,
// works through its repositories and commits explicitly; scopes that exit any
// other way are rolled back.
type Service struct {
	uowFactory   persistence.UnitOfWorkFactory
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new allocation service
func NewService(
	uowFactory persistence.UnitOfWorkFactory,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.AllocationUseCase {
	return &Service{
		uowFactory:   uowFactory,
		timeProvider: timeProvider,
		logger:       logger,
	}
}
