// Package tray renders the shell's status icon and menu using
// getlantern/systray, the way the original tray did, but the menu content
// now reflects live service state instead of a config editor: a mute toggle
// whose title follows the default output's mute state, and playback controls
// for the active media player. The tooltip names the active network
// connection as of menu creation and is not updated afterwards.
package tray

import (
	"fmt"
	"reflect"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/audio"
	"github.com/pozitronik/steelclock-go/internal/mpris"
	"github.com/pozitronik/steelclock-go/internal/network"
)

// Manager owns the systray icon and the menu items bound to each service's
// reactive state.
type Manager struct {
	log zerolog.Logger

	audioSvc   *audio.Service
	mediaSvc   *mpris.Service
	networkSvc *network.Service

	onExit func()

	menuMute     *systray.MenuItem
	menuPlay     *systray.MenuItem
	menuNext     *systray.MenuItem
	menuPrevious *systray.MenuItem
	menuExit     *systray.MenuItem

	readyChan chan struct{}
}

// NewManager builds a tray manager wired to the shell's reactive services.
// Any of audioSvc/mediaSvc/networkSvc may be nil if that domain failed to
// start; the corresponding menu item is then omitted.
func NewManager(audioSvc *audio.Service, mediaSvc *mpris.Service, networkSvc *network.Service, onExit func(), log zerolog.Logger) *Manager {
	return &Manager{
		log:        log.With().Str("component", "tray").Logger(),
		audioSvc:   audioSvc,
		mediaSvc:   mediaSvc,
		networkSvc: networkSvc,
		onExit:     onExit,
		readyChan:  make(chan struct{}),
	}
}

// Run starts the systray event loop. It blocks until Quit is called.
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onQuit)
}

// Ready blocks until the tray's menu items have been created, for tests and
// callers that need to wait before asserting on menu state.
func (m *Manager) Ready() <-chan struct{} { return m.readyChan }

func (m *Manager) onReady() {
	systray.SetTitle("steelshell")
	systray.SetTooltip(m.tooltip())

	if m.audioSvc != nil {
		m.menuMute = systray.AddMenuItem("Mute default output", "Toggle mute on the default output device")
	}
	if m.mediaSvc != nil {
		m.menuPlay = systray.AddMenuItem("Play/Pause", "Toggle playback of the active media player")
		m.menuNext = systray.AddMenuItem("Next track", "Skip to next track")
		m.menuPrevious = systray.AddMenuItem("Previous track", "Go to previous track")
	}
	systray.AddSeparator()
	m.menuExit = systray.AddMenuItem("Exit", "Exit steelshell")

	close(m.readyChan)
	go m.watchState()
	go m.handleMenuClicks()
}

func (m *Manager) tooltip() string {
	if m.networkSvc == nil {
		return "steelshell"
	}
	if conn := m.networkSvc.ActiveConnection.Get(); conn != nil {
		return fmt.Sprintf("steelshell — %s", conn.ID.Get())
	}
	return "steelshell — offline"
}

// watchState keeps menu item titles in sync with the reactive properties
// they mirror, the tray's own small service monitor.
func (m *Manager) watchState() {
	if m.audioSvc == nil {
		return
	}
	watch, cancel := m.audioSvc.DefaultOutput.Watch()
	defer cancel()
	for dev := range watch {
		if dev == nil {
			continue
		}
		m.watchMute(dev)
	}
}

func (m *Manager) watchMute(dev *audio.OutputDevice) {
	muteWatch, cancel := dev.Muted.Watch()
	go func() {
		defer cancel()
		for muted := range muteWatch {
			if muted {
				m.menuMute.SetTitle("Unmute default output")
			} else {
				m.menuMute.SetTitle("Mute default output")
			}
		}
	}()
}

func (m *Manager) handleMenuClicks() {
	type entry struct {
		item   *systray.MenuItem
		action func()
	}
	var entries []entry
	if m.menuMute != nil {
		entries = append(entries, entry{m.menuMute, m.toggleMute})
	}
	if m.menuPlay != nil {
		entries = append(entries, entry{m.menuPlay, m.playPause})
		entries = append(entries, entry{m.menuNext, m.next})
		entries = append(entries, entry{m.menuPrevious, m.previous})
	}
	entries = append(entries, entry{m.menuExit, func() { systray.Quit() }})

	cases := make([]reflect.SelectCase, len(entries))
	for i, e := range entries {
		cases[i] = reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(e.item.ClickedCh)}
	}

	for {
		chosen, _, ok := reflect.Select(cases)
		if !ok {
			return
		}
		entries[chosen].action()
		if entries[chosen].item == m.menuExit {
			return
		}
	}
}

func (m *Manager) toggleMute() {
	dev := m.audioSvc.DefaultOutput.Get()
	if dev == nil {
		return
	}
	if err := m.audioSvc.SetMute(dev.Key(), !dev.Muted.Get()); err != nil {
		m.log.Warn().Err(err).Msg("toggle mute failed")
	}
}

func (m *Manager) playPause() {
	p := m.mediaSvc.ActivePlayer.Get()
	if p == nil {
		return
	}
	if err := p.PlayPause(); err != nil {
		m.log.Warn().Err(err).Msg("play/pause failed")
	}
}

func (m *Manager) next() {
	if p := m.mediaSvc.ActivePlayer.Get(); p != nil {
		_ = p.Next()
	}
}

func (m *Manager) previous() {
	if p := m.mediaSvc.ActivePlayer.Get(); p != nil {
		_ = p.Previous()
	}
}

func (m *Manager) onQuit() {
	if m.onExit != nil {
		m.onExit()
	}
}

// Quit requests systray shut down, triggering onQuit once it does.
func (m *Manager) Quit() { systray.Quit() }
