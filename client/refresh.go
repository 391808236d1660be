package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/proto"
)

// refreshByID drives the "iterate identifiers 1..MaxForKind, issue a
// query, track completions" pattern every object controller except
// Sources, Infrared, Network and FrontPanel follows. query builds the
// request frame for id and names the response pattern the command
// manager should wait for; the query's own response — matched
// positionally, since responses and notifications share a shape
// — both completes the exchange and, via the
// controller's own registered handler, updates the store.
//
// onProgress fires after each completed identifier with the running
// percentage; refreshByID returns once the last identifier completes,
// or at the first error.
func refreshByID(m *hlx.Manager, ids []proto.Identifier, timeout time.Duration,
	query func(id proto.Identifier) (proto.Frame, proto.PatternID, error),
	onProgress RefreshHandler) error {

	total := len(ids)
	if total == 0 {
		if onProgress != nil {
			onProgress(100)
		}
		return nil
	}
	for i, id := range ids {
		frame, pattern, err := query(id)
		if err != nil {
			return err
		}
		if _, err := m.Exchange(frame, pattern, timeout); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress((i + 1) * 100 / total)
		}
	}
	return nil
}
