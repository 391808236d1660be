package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// Network is the object controller for the singleton Ethernet network
// interface.
type Network struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewNetwork constructs a Network controller and registers its
// notification handler.
func NewNetwork(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *Network {
	n := &Network{store: store, manager: manager, emit: emit}
	manager.Handle(proto.PatternNetworkDHCP, n.handleDHCP)
	return n
}

func (n *Network) Name() string { return "network" }

// Refresh issues the single DHCP-state query for the singleton network
// interface. The remaining NetworkInfo fields (addresses, hardware
// address) have no dedicated query pattern in this implementation and
// are only ever set via cmd/hlxsimd's persisted configuration.
func (n *Network) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	frame, err := proto.QueryObject(proto.KindNetwork, 1)
	if err != nil {
		return err
	}
	if _, err := n.manager.Exchange(frame, proto.PatternNetworkDHCP, timeout); err != nil {
		return err
	}
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

func (n *Network) handleDHCP(match proto.Match) {
	enabled := match.Captures[1] == "E"
	net := n.store.Network()
	if err := net.Info.SetDHCP(enabled); err == nil {
		n.emit(StateChange{Controller: n.Name(), Property: "dhcp", ID: 1})
	}
}

// SetDHCP submits a DHCP-enabled write for the network interface.
func (n *Network) SetDHCP(enabled bool, timeout time.Duration) error {
	frame, err := proto.NetworkSetDHCP(1, enabled)
	if err != nil {
		return err
	}
	_, err = n.manager.Exchange(frame, proto.PatternNetworkDHCP, timeout)
	return err
}
