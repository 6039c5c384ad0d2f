package mpris

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/reactive"
	"github.com/pozitronik/steelclock-go/internal/shellstate"
)

// Service discovers and monitors MPRIS media players over the session bus.
//
// Grounded on original_source/src/services/media/{service,monitoring}.rs:
// the Rust service keeps a players map plus two reactive properties
// (player_list, active_player); this keeps the same shape.
type Service struct {
	log  zerolog.Logger
	conn *dbus.Conn
	root reactive.Token

	ignored []string

	mu        sync.Mutex
	players   map[PlayerID]*Player
	ownerByID map[PlayerID]string
	idByOwner map[string]PlayerID

	Players      reactive.Property[[]*Player]
	ActivePlayer reactive.Property[*Player]
}

// NewService connects to the session bus, discovers already-running players
// and starts watching NameOwnerChanged for hotplug.
func NewService(parent reactive.Token, conn *dbus.Conn, ignoredPatterns []string, log zerolog.Logger) (*Service, error) {
	s := &Service{
		log:          log.With().Str("service", "mpris").Logger(),
		conn:         conn,
		root:         parent.Child(),
		ignored:      ignoredPatterns,
		players:      make(map[PlayerID]*Player),
		ownerByID:    make(map[PlayerID]string),
		idByOwner:    make(map[string]PlayerID),
		Players:      reactive.New[[]*Player](nil, nil),
		ActivePlayer: reactive.New[*Player](nil, nil),
	}

	names, err := listNames(conn)
	if err != nil {
		return nil, &reactive.InitializationFailedError{Service: "mpris", Err: err}
	}
	for _, name := range names {
		if strings.HasPrefix(name, busPrefix) && !s.shouldIgnore(name) {
			owner, err := getNameOwner(conn, name)
			if err != nil {
				s.log.Warn().Err(err).Str("player", name).Msg("could not resolve name owner, skipping")
				continue
			}
			s.handlePlayerAdded(playerIDFromBusName(name), owner)
		}
	}

	if saved, err := shellstate.ActiveMediaPlayer(); err == nil && saved != "" {
		if p, ok := s.players[PlayerID(saved)]; ok {
			s.ActivePlayer.Set(p)
			s.log.Debug().Str("player", saved).Msg("restored active player from state")
		}
	}
	s.resolveActiveLocked()

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "mpris", Err: err}
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return nil, &reactive.InitializationFailedError{Service: "mpris", Err: err}
	}

	sigCh := make(chan *dbus.Signal, 32)
	conn.Signal(sigCh)
	go s.watch(sigCh)

	return s, nil
}

func listNames(conn *dbus.Conn) ([]string, error) {
	var names []string
	obj := conn.BusObject()
	err := obj.Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

// getNameOwner resolves a well-known bus name to the unique connection name
// currently holding it, so PropertiesChanged signals (which carry only the
// unique sender name) can be routed back to the player that owns them.
func getNameOwner(conn *dbus.Conn, name string) (string, error) {
	var owner string
	err := conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner)
	return owner, err
}

func (s *Service) shouldIgnore(name string) bool {
	for _, pat := range s.ignored {
		if strings.Contains(name, pat) {
			return true
		}
	}
	return false
}

// watch is the service's single signal-routing loop: it demultiplexes both
// player hotplug (NameOwnerChanged) and live property updates
// (PropertiesChanged) onto the players they concern, mirroring the
// central-watch pattern in internal/bluetooth/service.go rather than giving
// each player its own signal-reading goroutine.
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
			case "org.freedesktop.DBus.NameOwnerChanged":
				s.handleNameOwnerChanged(sig)
			case propsIface + ".PropertiesChanged":
				s.handlePropertiesChanged(sig)
			}
		}
	}
}

func (s *Service) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) != 3 {
		return
	}
	name, _ := sig.Body[0].(string)
	if !strings.HasPrefix(name, busPrefix) {
		return
	}
	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	switch {
	case oldOwner == "" && newOwner != "" && !s.shouldIgnore(name):
		s.handlePlayerAdded(playerIDFromBusName(name), newOwner)
	case oldOwner != "" && newOwner == "":
		s.handlePlayerRemoved(playerIDFromBusName(name))
	}
}

// handlePropertiesChanged re-reads the full player state when its MPRIS
// object announces a change. The signal tells us only that something moved,
// not what (original_source/src/services/media/core/player/monitoring.rs
// PlayerMonitor::start resyncs wholesale on every notification too), so a
// plain refresh() is both correct and simplest.
func (s *Service) handlePropertiesChanged(sig *dbus.Signal) {
	if sig.Path != playerPath || len(sig.Body) < 1 {
		return
	}
	iface, _ := sig.Body[0].(string)
	if iface != playerIface {
		return
	}

	id, p := s.playerForSender(sig.Sender)
	if p == nil {
		return
	}

	if err := p.refresh(); err != nil {
		s.log.Debug().Err(err).Str("player", string(id)).Msg("property resync failed")
		return
	}

	s.mu.Lock()
	s.resolveActiveLocked()
	s.mu.Unlock()
}

// playerForSender resolves a PropertiesChanged signal's unique sender name
// to the player it belongs to, if any (split out from handlePropertiesChanged
// so the routing logic is testable without a live bus connection).
func (s *Service) playerForSender(sender string) (PlayerID, *Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.idByOwner[sender]
	if !ok {
		return "", nil
	}
	return id, s.players[id]
}

func (s *Service) handlePlayerAdded(id PlayerID, owner string) {
	p := newPlayer(s.conn, id)
	if err := p.refresh(); err != nil {
		s.log.Warn().Err(err).Str("player", string(id)).Msg("initial property read failed, skipping")
		return
	}
	p.StartMonitoring(s.root)

	s.mu.Lock()
	s.players[id] = p
	s.ownerByID[id] = owner
	s.idByOwner[owner] = id
	s.republishLocked()
	s.resolveActiveLocked()
	s.mu.Unlock()
}

func (s *Service) handlePlayerRemoved(id PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return
	}
	p.CancelToken().Cancel()
	delete(s.players, id)
	if owner, ok := s.ownerByID[id]; ok {
		delete(s.idByOwner, owner)
		delete(s.ownerByID, id)
	}
	s.republishLocked()

	if active := s.ActivePlayer.Get(); active != nil && active.Key() == id {
		s.ActivePlayer.Set(nil)
		s.resolveActiveLocked()
	}
}

func (s *Service) republishLocked() {
	list := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		list = append(list, p)
	}
	s.Players.Set(list)
}

// resolveActiveLocked picks a fallback active player when none is set,
// preferring one that's currently playing over an arbitrary one. This
// resolves spec's open question about default-player selection: rather
// than leaving the active slot empty (which would blank a "now playing"
// widget whenever the foreground player hasn't been chosen explicitly),
// prefer a player that is actually producing audio.
func (s *Service) resolveActiveLocked() {
	if s.ActivePlayer.Get() != nil {
		return
	}
	var fallback *Player
	for _, p := range s.players {
		if fallback == nil {
			fallback = p
		}
		if p.PlaybackState.Get() == Playing {
			fallback = p
			break
		}
	}
	if fallback != nil {
		s.ActivePlayer.Set(fallback)
	}
}

// Player returns the tracked player for id. It is the live instance the
// service keeps refreshing, not a frozen copy.
func (s *Service) Player(id PlayerID) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, &reactive.EntityNotFoundError{Kind: "mpris player", Key: string(id)}
	}
	return p, nil
}

// PlayerMonitored returns the live, continuously-updating player instance.
// Since mpris players are monitored unconditionally from the moment they're
// discovered, this is equivalent to Player.
func (s *Service) PlayerMonitored(id PlayerID) (*Player, error) {
	return s.Player(id)
}

// ListPlayers returns a snapshot list of every currently discovered player.
func (s *Service) ListPlayers() []*Player {
	return s.Players.Get()
}

// SetActivePlayer sets or clears (id == "") which player is considered
// active, per original_source/src/services/media/service.rs set_active_player.
func (s *Service) SetActivePlayer(id PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.ActivePlayer.Set(nil)
		return shellstate.SetActiveMediaPlayer("")
	}
	p, ok := s.players[id]
	if !ok {
		return &reactive.EntityNotFoundError{Kind: "mpris player", Key: string(id)}
	}
	s.ActivePlayer.Set(p)
	return shellstate.SetActiveMediaPlayer(string(id))
}

// Close cancels monitoring for every player and the watch-names loop.
func (s *Service) Close() { s.root.Cancel() }
