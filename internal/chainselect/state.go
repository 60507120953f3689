// Package chainselect tracks the chain and network the user is currently
// looking at and notifies subscribers whenever the selection changes.
package chainselect

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/pkg/x/chflow"
)

// ErrEmptyNetwork is returned when switching to a network without chains.
var ErrEmptyNetwork = errors.New("network has no chains")

// Registry is the subset of the chain registry the selection state needs.
type Registry interface {
	Network(n chainregistry.Network) []chainregistry.Chain
	BySlug(slug string) (chainregistry.Chain, error)
	NetworkOf(c chainregistry.Chain) chainregistry.Network
}

// State holds the current selection. It is safe for concurrent use.
type State struct {
	registry Registry

	mu          sync.RWMutex
	current     chainregistry.Chain
	hasCurrent  bool
	network     chainregistry.Network
	subscribers map[chan chainregistry.Chain]struct{}
}

// New creates a State pointing at the first mainnet chain of registry, if any.
func New(registry Registry) *State {
	s := &State{
		registry:    registry,
		network:     chainregistry.Mainnet,
		subscribers: make(map[chan chainregistry.Chain]struct{}),
	}

	if chains := registry.Network(chainregistry.Mainnet); len(chains) > 0 {
		s.current = chains[0]
		s.hasCurrent = true
	}

	return s
}

// Current returns the selected chain. ok is false when nothing is selected.
func (s *State) Current() (chain chainregistry.Chain, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current, s.hasCurrent
}

// Network returns the selected network.
func (s *State) Network() chainregistry.Network {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.network
}

// Select makes chain the current one without touching the network.
func (s *State) Select(chain chainregistry.Chain) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set(chain)
}

// SwitchNetwork changes the network and selects its first chain. When the
// network has no chains the network still changes and the current chain
// is kept, matching the list the user sees.
func (s *State) SwitchNetwork(n chainregistry.Network) error {
	chains := s.registry.Network(n)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.network = n
	if len(chains) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyNetwork, n)
	}

	s.set(chains[0])
	return nil
}

// SelectByRoute resolves a route segment (chain id or name slug), switches
// to that chain's network and selects it.
func (s *State) SelectByRoute(slug string) (chainregistry.Chain, error) {
	chain, err := s.registry.BySlug(slug)
	if err != nil {
		return chainregistry.Chain{}, err
	}

	n := s.registry.NetworkOf(chain)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.network = n
	s.set(chain)
	return chain, nil
}

// Subscribe returns a channel that receives the selected chain after every
// change. Slow readers only see the latest selection. The channel is closed
// once ctx is done.
func (s *State) Subscribe(ctx context.Context) <-chan chainregistry.Chain {
	ch := make(chan chainregistry.Chain, 1)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()

		s.mu.Lock()
		delete(s.subscribers, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// set must be called with mu held.
func (s *State) set(chain chainregistry.Chain) {
	s.current = chain
	s.hasCurrent = true

	for ch := range s.subscribers {
		chflow.SendLatest(ch, chain)
	}
}
