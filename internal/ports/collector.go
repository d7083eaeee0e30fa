package ports

import "github.com/databroker/datahub/internal/domain"

// CollectedSample pairs a sample with the hub resource path it should be
// pushed to. Collectors are ordinary clients of the hub's I/O service:
// they hold no special access, they just produce samples for Inputs they
// (or an operator) have already created.
type CollectedSample struct {
	Path   string
	Sample *domain.Sample
}

// Collector is an external producer feeding samples into the hub, e.g.
// an OPC UA subscription or a polling driver.
type Collector interface {
	Start(out chan<- CollectedSample) error
	Stop() error
}
