package hub

import "github.com/databroker/datahub/internal/ports"

// RunCollector starts c and forwards every sample it produces into the
// hub as an ordinary push from actor, until c is stopped. Collectors
// have no special access: the Input they feed must already exist and
// must have been created by (or grant push rights to) actor.
func (h *Hub) RunCollector(c ports.Collector, actor string) error {
	ch := make(chan ports.CollectedSample, 64)
	if err := c.Start(ch); err != nil {
		return err
	}
	go func() {
		for cs := range ch {
			if err := h.Push(cs.Path, cs.Sample, actor); err != nil {
				h.obs.LogError("collector_push_failed", err, ports.Field{Key: "path", Value: cs.Path})
			}
		}
	}()
	return nil
}
