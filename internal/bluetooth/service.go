package bluetooth

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/reactive"
)

// Service discovers and monitors BlueZ adapters and devices over the system
// bus (original_source/src/services/bluetooth/{service,discovery,monitoring}.rs).
type Service struct {
	log  zerolog.Logger
	conn *dbus.Conn
	root reactive.Token

	mu       sync.Mutex
	adapters map[AdapterPath]*Adapter
	devices  map[DevicePath]*Device

	Adapters reactive.Property[[]*Adapter]
	Devices  reactive.Property[[]*Device]

	agent *Agent
}

type objectPayload struct {
	path  dbus.ObjectPath
	props map[string]dbus.Variant
}

func NewService(parent reactive.Token, conn *dbus.Conn, log zerolog.Logger) (*Service, error) {
	s := &Service{
		log:      log.With().Str("service", "bluetooth").Logger(),
		conn:     conn,
		root:     parent.Child(),
		adapters: make(map[AdapterPath]*Adapter),
		devices:  make(map[DevicePath]*Device),
		Adapters: reactive.New[[]*Adapter](nil, nil),
		Devices:  reactive.New[[]*Device](nil, nil),
	}

	var objs managedObjects
	err := reactive.RetryWithBackoff(s.root.Done(), "bluetooth", 3, s.log, func(int) error {
		var callErr error
		objs, callErr = getManagedObjects(conn)
		return callErr
	})
	if err != nil {
		return nil, &reactive.InitializationFailedError{Service: "bluetooth", Err: err}
	}

	adapterPayloads := make([]objectPayload, 0)
	devicePayloads := make([]objectPayload, 0)
	for path, ifaces := range objs {
		if props, ok := ifaces[adapterIface]; ok {
			adapterPayloads = append(adapterPayloads, objectPayload{path, props})
		}
		if props, ok := ifaces[deviceIface]; ok {
			devicePayloads = append(devicePayloads, objectPayload{path, props})
		}
	}

	next, _ := reactive.Reconcile(adapterPayloads, s.adapters,
		func(p objectPayload) AdapterPath { return p.path },
		func(existing *Adapter, p objectPayload) { existing.applyProps(p.props) },
		func(p objectPayload) *Adapter {
			a := newAdapter(conn, p.path, p.props)
			a.StartMonitoring(s.root)
			return a
		})
	s.adapters = toMap(next, (*Adapter).Key)
	s.Adapters.Set(next)

	nextDev, _ := reactive.Reconcile(devicePayloads, s.devices,
		func(p objectPayload) DevicePath { return p.path },
		func(existing *Device, p objectPayload) { existing.applyProps(p.props) },
		func(p objectPayload) *Device {
			d := newDevice(conn, p.path, p.props)
			d.StartMonitoring(s.root)
			return d
		})
	s.devices = toMap(nextDev, (*Device).Key)
	s.Devices.Set(nextDev)

	if err := conn.AddMatchSignal(dbus.WithMatchInterface(objManagerIfc)); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "bluetooth", Err: err}
	}
	if err := conn.AddMatchSignal(dbus.WithMatchInterface(propsIface)); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "bluetooth", Err: err}
	}

	sigCh := make(chan *dbus.Signal, 32)
	conn.Signal(sigCh)
	go s.watch(sigCh)

	return s, nil
}

func toMap[K comparable, T any](items []T, key func(T) K) map[K]T {
	out := make(map[K]T, len(items))
	for _, it := range items {
		out[key(it)] = it
	}
	return out
}

func (s *Service) watch(sigCh chan *dbus.Signal) {
	defer s.conn.RemoveSignal(sigCh)
	for {
		select {
		case <-s.root.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}
			switch sig.Name {
			case objManagerIfc + ".InterfacesAdded":
				s.handleInterfacesAdded(sig)
			case objManagerIfc + ".InterfacesRemoved":
				s.handleInterfacesRemoved(sig)
			case propsIface + ".PropertiesChanged":
				s.handlePropertiesChanged(sig)
			}
		}
	}
}

func (s *Service) handleInterfacesAdded(sig *dbus.Signal) {
	if len(sig.Body) != 2 {
		return
	}
	path, _ := sig.Body[0].(dbus.ObjectPath)
	ifaces, _ := sig.Body[1].(map[string]map[string]dbus.Variant)

	s.mu.Lock()
	defer s.mu.Unlock()
	if props, ok := ifaces[adapterIface]; ok {
		a := newAdapter(s.conn, path, props)
		a.StartMonitoring(s.root)
		s.adapters[path] = a
		s.republishAdaptersLocked()
	}
	if props, ok := ifaces[deviceIface]; ok {
		d := newDevice(s.conn, path, props)
		d.StartMonitoring(s.root)
		s.devices[path] = d
		s.republishDevicesLocked()
	}
}

func (s *Service) handleInterfacesRemoved(sig *dbus.Signal) {
	if len(sig.Body) != 2 {
		return
	}
	path, _ := sig.Body[0].(dbus.ObjectPath)
	ifaces, _ := sig.Body[1].([]string)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, iface := range ifaces {
		switch iface {
		case adapterIface:
			if a, ok := s.adapters[path]; ok {
				a.CancelToken().Cancel()
				delete(s.adapters, path)
				s.republishAdaptersLocked()
			}
		case deviceIface:
			if d, ok := s.devices[path]; ok {
				d.CancelToken().Cancel()
				delete(s.devices, path)
				s.republishDevicesLocked()
			}
		}
	}
}

func (s *Service) handlePropertiesChanged(sig *dbus.Signal) {
	if len(sig.Body) < 2 {
		return
	}
	iface, _ := sig.Body[0].(string)
	changed, _ := sig.Body[1].(map[string]dbus.Variant)
	path := sig.Path

	s.mu.Lock()
	defer s.mu.Unlock()
	switch iface {
	case adapterIface:
		if a, ok := s.adapters[path]; ok {
			a.applyProps(changed)
		}
	case deviceIface:
		if d, ok := s.devices[path]; ok {
			d.applyProps(changed)
		}
	}
}

func (s *Service) republishAdaptersLocked() {
	list := make([]*Adapter, 0, len(s.adapters))
	for _, a := range s.adapters {
		list = append(list, a)
	}
	s.Adapters.Set(list)
}

func (s *Service) republishDevicesLocked() {
	list := make([]*Device, 0, len(s.devices))
	for _, d := range s.devices {
		list = append(list, d)
	}
	s.Devices.Set(list)
}

// Adapter returns a snapshot of the adapter at the given object path.
func (s *Service) Adapter(path AdapterPath) (*Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.adapters[path]
	if !ok {
		return nil, &reactive.EntityNotFoundError{Kind: "adapter", Key: string(path)}
	}
	return a, nil
}

// Device returns a snapshot of the device at the given object path.
func (s *Service) Device(path DevicePath) (*Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[path]
	if !ok {
		return nil, &reactive.EntityNotFoundError{Kind: "device", Key: string(path)}
	}
	return d, nil
}

// RegisterAgent registers a pairing agent implementing org.bluez.Agent1 and
// makes it the system default (original_source/src/services/bluetooth/agent).
func (s *Service) RegisterAgent() (*Agent, error) {
	agent, err := newAgent(s.conn)
	if err != nil {
		return nil, err
	}
	s.agent = agent
	return agent, nil
}

// Close cancels every entity's monitoring token and stops the watch loop.
func (s *Service) Close() { s.root.Cancel() }
