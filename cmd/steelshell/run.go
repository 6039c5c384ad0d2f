package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pozitronik/steelclock-go/internal/audio"
	"github.com/pozitronik/steelclock-go/internal/bluetooth"
	"github.com/pozitronik/steelclock-go/internal/configstore"
	"github.com/pozitronik/steelclock-go/internal/controlapi"
	"github.com/pozitronik/steelclock-go/internal/idleinhibit"
	"github.com/pozitronik/steelclock-go/internal/mpris"
	"github.com/pozitronik/steelclock-go/internal/network"
	"github.com/pozitronik/steelclock-go/internal/notify"
	"github.com/pozitronik/steelclock-go/internal/power"
	"github.com/pozitronik/steelclock-go/internal/reactive"
	"github.com/pozitronik/steelclock-go/internal/shelllog"
	"github.com/pozitronik/steelclock-go/internal/shellmetrics"
	"github.com/pozitronik/steelclock-go/internal/tray"
)

// hostStatsSamplePeriod is how often the control API's /metrics endpoint gets
// a fresh CPU/memory/network/disk reading.
const hostStatsSamplePeriod = 15 * time.Second

var flagControlAddr string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the shell's services, control API, and tray icon",
	RunE:  runShell,
}

func init() {
	runCmd.Flags().StringVar(&flagControlAddr, "control-addr", controlapi.DefaultAddr, "Listen address for the local control API")
}

// runShell brings up every service the way the pack's daemons do: each
// failure is logged and the service's section of the status API stays
// empty, but one dead backend never blocks the rest (spec.md §7 "services
// degrade gracefully").
func runShell(cmd *cobra.Command, args []string) error {
	log := shelllog.Logger
	root := reactive.NewToken()
	defer root.Cancel()

	cfgStore, err := configstore.NewStore(root, flagConfigPath, shelllog.WithComponent("configstore"))
	if err != nil {
		log.Warn().Err(err).Msg("configuration store unavailable, using built-in defaults")
	}

	sessionConn, err := dbus.SessionBus()
	if err != nil {
		log.Warn().Err(err).Msg("session bus unavailable; media, notifications, and idle-inhibit are disabled")
	}
	systemConn, err := dbus.SystemBus()
	if err != nil {
		log.Warn().Err(err).Msg("system bus unavailable; bluetooth, network, and power are disabled")
	}

	audioSvc := startAudio(root, log)
	mediaSvc := startMedia(root, sessionConn, cfgStore, log)
	networkSvc := startNetwork(root, systemConn, log)
	bluetoothSvc := startBluetooth(root, systemConn, log)
	notifySvc := startNotify(root, sessionConn, log)
	powerSvc := startPower(root, systemConn, log)
	idleSvc := startIdleInhibit(root, sessionConn, log)

	api := controlapi.NewServer(flagControlAddr, controlapi.Sources{
		Audio:       controlapi.AudioSource(audioSvc),
		Media:       controlapi.MediaSource(mediaSvc),
		Network:     controlapi.NetworkSource(networkSvc),
		Bluetooth:   controlapi.BluetoothSource(bluetoothSvc),
		Notify:      controlapi.NotifySource(notifySvc),
		Power:       controlapi.PowerSource(powerSvc),
		IdleInhibit: controlapi.IdleInhibitSource(idleSvc),
		Config:      controlapi.ConfigSource(cfgStore),
	}, shelllog.WithComponent("controlapi"))
	if err := api.Start(); err != nil {
		log.Error().Err(err).Msg("control API failed to start")
	} else {
		defer func() { _ = api.Stop() }()
	}

	hostStats := shellmetrics.NewHostStatsCollector()
	go hostStats.Run(root.Done(), hostStatsSamplePeriod)

	trayMgr := tray.NewManager(audioSvc, mediaSvc, networkSvc, func() {
		root.Cancel()
	}, shelllog.WithComponent("tray"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			trayMgr.Quit()
		case <-root.Done():
		}
	}()

	trayMgr.Run()
	return nil
}

func startAudio(root reactive.Token, log zerolog.Logger) *audio.Service {
	svc, err := audio.NewService(root, "steelshell", shelllog.WithComponent("audio"))
	if err != nil {
		log.Warn().Err(err).Msg("audio service unavailable")
		return nil
	}
	return svc
}

func startMedia(root reactive.Token, conn *dbus.Conn, cfgStore *configstore.Store, log zerolog.Logger) *mpris.Service {
	if conn == nil {
		return nil
	}
	var ignored []string
	if cfgStore != nil {
		ignored = cfgStore.Config.Get().Media.IgnorePatterns
	}
	svc, err := mpris.NewService(root, conn, ignored, shelllog.WithComponent("mpris"))
	if err != nil {
		log.Warn().Err(err).Msg("media player service unavailable")
		return nil
	}
	return svc
}

func startNetwork(root reactive.Token, conn *dbus.Conn, log zerolog.Logger) *network.Service {
	if conn == nil {
		return nil
	}
	svc, err := network.NewService(root, conn, shelllog.WithComponent("network"))
	if err != nil {
		log.Warn().Err(err).Msg("network service unavailable")
		return nil
	}
	return svc
}

func startBluetooth(root reactive.Token, conn *dbus.Conn, log zerolog.Logger) *bluetooth.Service {
	if conn == nil {
		return nil
	}
	svc, err := bluetooth.NewService(root, conn, shelllog.WithComponent("bluetooth"))
	if err != nil {
		log.Warn().Err(err).Msg("bluetooth service unavailable")
		return nil
	}
	if _, err := svc.RegisterAgent(); err != nil {
		log.Warn().Err(err).Msg("bluetooth pairing agent registration failed")
	}
	return svc
}

func startNotify(root reactive.Token, conn *dbus.Conn, log zerolog.Logger) *notify.Service {
	if conn == nil {
		return nil
	}
	svc, err := notify.NewService(root, conn, shelllog.WithComponent("notify"))
	if err != nil {
		log.Warn().Err(err).Msg("notification daemon unavailable")
		return nil
	}
	return svc
}

func startPower(root reactive.Token, conn *dbus.Conn, log zerolog.Logger) *power.Service {
	if conn == nil {
		return nil
	}
	svc, err := power.NewService(root, conn, shelllog.WithComponent("power"))
	if err != nil {
		log.Warn().Err(err).Msg("power service unavailable")
		return nil
	}
	return svc
}

func startIdleInhibit(root reactive.Token, conn *dbus.Conn, log zerolog.Logger) *idleinhibit.Service {
	if conn == nil {
		return nil
	}
	svc, err := idleinhibit.NewService(root, conn, shelllog.WithComponent("idleinhibit"))
	if err != nil {
		log.Warn().Err(err).Msg("idle-inhibit service unavailable")
		return nil
	}
	return svc
}
